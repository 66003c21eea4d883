package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowmart/beauty-shop-api/internal/model"
)

type WishlistRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.WishlistEntry, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	Count(ctx context.Context, userID uuid.UUID) (int, error)
}

type pgWishlistRepo struct{ pool *pgxpool.Pool }

func NewWishlistRepository(pool *pgxpool.Pool) WishlistRepository {
	return &pgWishlistRepo{pool: pool}
}

// List resolves each saved reference against the live product row; items
// whose product has since been deleted drop out via the join.
func (r *pgWishlistRepo) List(ctx context.Context, userID uuid.UUID) ([]model.WishlistEntry, error) {
	query := `SELECT w.id, w.user_id, w.product_id, w.added_at, ` + prefixFields("p", productFields) + `
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.added_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist: %w", err)
	}
	defer rows.Close()

	var entries []model.WishlistEntry
	for rows.Next() {
		var e model.WishlistEntry
		p := &e.Product
		err := rows.Scan(
			&e.Item.ID, &e.Item.UserID, &e.Item.ProductID, &e.Item.AddedAt,
			&p.ID, &p.SKU, &p.Name, &p.DisplayName, &p.Category, &p.Description, &p.Details, &p.Images,
			&p.Price, &p.OriginalPrice, &p.LastPrice, &p.Stock, &p.Rating, &p.ReviewCount,
			&p.IsNew, &p.IsBestSeller, &p.Features, &p.Benefits, &p.SkinTypes, &p.ScentFamily, &p.Tags,
			&p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan wishlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *pgWishlistRepo) Add(ctx context.Context, userID, productID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx,
		`INSERT INTO wishlist_items (id, user_id, product_id, added_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (user_id, product_id) DO NOTHING`,
		uuid.New(), userID, productID)
	if err != nil {
		return fmt.Errorf("add wishlist item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrDuplicate
	}
	return nil
}

func (r *pgWishlistRepo) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgWishlistRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}

func (r *pgWishlistRepo) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wishlist_items WHERE user_id = $1 AND product_id = $2)`,
		userID, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check wishlist: %w", err)
	}
	return exists, nil
}

func (r *pgWishlistRepo) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM wishlist_items WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count wishlist: %w", err)
	}
	return count, nil
}
