package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowmart/beauty-shop-api/internal/model"
)

type ReviewFilter struct {
	Status    model.ReviewStatus
	ProductID *uuid.UUID
	Search    string
	Limit     int
	Offset    int
}

// RatingAggregate is the mean and count over approved, visible reviews.
type RatingAggregate struct {
	Average float64
	Count   int
}

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	GetByProductAndEmail(ctx context.Context, productID uuid.UUID, email string) (*model.Review, error)
	ListPublic(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, int, error)
	Distribution(ctx context.Context, productID uuid.UUID) (map[int]int, *RatingAggregate, error)
	ListAdmin(ctx context.Context, filter ReviewFilter) ([]model.Review, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReviewStatus, adminComment *string) error
	SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	AggregateApproved(ctx context.Context, productID uuid.UUID) (*RatingAggregate, error)
}

const reviewFields = `id, product_id, email, user_name, body, rating, status, hidden,
	admin_comment, created_at, updated_at`

// publicFilter selects the reviews that count towards a product's
// published rating.
const publicFilter = `status = 'approved' AND NOT hidden`

type pgReviewRepo struct{ pool *pgxpool.Pool }

func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &pgReviewRepo{pool: pool}
}

func scanReview(row pgx.Row) (*model.Review, error) {
	rev := &model.Review{}
	err := row.Scan(
		&rev.ID, &rev.ProductID, &rev.Email, &rev.UserName, &rev.Body, &rev.Rating,
		&rev.Status, &rev.Hidden, &rev.AdminComment, &rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rev, nil
}

func (r *pgReviewRepo) Create(ctx context.Context, review *model.Review) error {
	review.ID = uuid.New()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reviews (id, product_id, email, user_name, body, rating, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		 RETURNING created_at, updated_at`,
		review.ID, review.ProductID, review.Email, review.UserName,
		review.Body, review.Rating, review.Status,
	).Scan(&review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *pgReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	rev, err := scanReview(r.pool.QueryRow(ctx,
		`SELECT `+reviewFields+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rev, nil
}

func (r *pgReviewRepo) GetByProductAndEmail(ctx context.Context, productID uuid.UUID, email string) (*model.Review, error) {
	rev, err := scanReview(r.pool.QueryRow(ctx,
		`SELECT `+reviewFields+` FROM reviews WHERE product_id = $1 AND email = $2`,
		productID, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get review by product and email: %w", err)
	}
	return rev, nil
}

func (r *pgReviewRepo) ListPublic(ctx context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE product_id = $1 AND `+publicFilter, productID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count public reviews: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+reviewFields+` FROM reviews
		 WHERE product_id = $1 AND `+publicFilter+`
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list public reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *rev)
	}
	return reviews, total, nil
}

func (r *pgReviewRepo) Distribution(ctx context.Context, productID uuid.UUID) (map[int]int, *RatingAggregate, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rating, COUNT(*) FROM reviews
		 WHERE product_id = $1 AND `+publicFilter+`
		 GROUP BY rating ORDER BY rating DESC`, productID)
	if err != nil {
		return nil, nil, fmt.Errorf("rating distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[int]int)
	agg := &RatingAggregate{}
	sum := 0
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, nil, fmt.Errorf("scan distribution: %w", err)
		}
		dist[rating] = count
		agg.Count += count
		sum += rating * count
	}
	if agg.Count > 0 {
		agg.Average = float64(sum) / float64(agg.Count)
	}
	return dist, agg, nil
}

func (r *pgReviewRepo) ListAdmin(ctx context.Context, filter ReviewFilter) ([]model.Review, int, error) {
	conds := []string{"TRUE"}
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.ProductID != nil {
		args = append(args, *filter.ProductID)
		conds = append(conds, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(email ILIKE '%%' || $%d || '%%' OR user_name ILIKE '%%' || $%d || '%%' OR body ILIKE '%%' || $%d || '%%')",
			n, n, n))
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		reviewFields, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *rev)
	}
	return reviews, total, nil
}

func (r *pgReviewRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ReviewStatus, adminComment *string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE reviews SET status = $2, admin_comment = COALESCE($3, admin_comment), updated_at = NOW()
		 WHERE id = $1`, id, status, adminComment)
	if err != nil {
		return fmt.Errorf("update review status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgReviewRepo) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE reviews SET hidden = $2, updated_at = NOW() WHERE id = $1`, id, hidden)
	if err != nil {
		return fmt.Errorf("set review hidden: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgReviewRepo) AggregateApproved(ctx context.Context, productID uuid.UUID) (*RatingAggregate, error) {
	agg := &RatingAggregate{}
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews
		 WHERE product_id = $1 AND `+publicFilter, productID,
	).Scan(&agg.Average, &agg.Count)
	if err != nil {
		return nil, fmt.Errorf("aggregate reviews: %w", err)
	}
	return agg, nil
}
