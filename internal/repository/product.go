package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowmart/beauty-shop-api/internal/model"
)

type ProductFilter struct {
	Category     string
	Search       string
	MinPrice     *float64
	MaxPrice     *float64
	Benefits     []string
	SkinTypes    []string
	ScentFamily  []string
	IsNew        *bool
	IsBestSeller *bool
	Sort         string
	Order        string
	Limit        int
	Offset       int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int, error)
	Featured(ctx context.Context, limit int) ([]model.Product, error)
	Categories(ctx context.Context) ([]model.CategoryCount, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetRating(ctx context.Context, id uuid.UUID, rating float64, reviewCount int) error
	DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error
}

const productFields = `id, sku, name, display_name, category, description, details, images,
	price, original_price, last_price, stock, rating, review_count,
	is_new, is_best_seller, features, benefits, skin_types, scent_family, tags,
	created_at, updated_at`

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{}
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.DisplayName, &p.Category, &p.Description, &p.Details, &p.Images,
		&p.Price, &p.OriginalPrice, &p.LastPrice, &p.Stock, &p.Rating, &p.ReviewCount,
		&p.IsNew, &p.IsBestSeller, &p.Features, &p.Benefits, &p.SkinTypes, &p.ScentFamily, &p.Tags,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create allocates the next SKU and inserts the product in one
// transaction; the SKU is immutable afterwards.
func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	seq, err := nextSequence(ctx, tx, "products")
	if err != nil {
		return err
	}
	product.ID = uuid.New()
	product.SKU = fmt.Sprintf("PRD%04d", seq)

	query := `INSERT INTO products
		(id, sku, name, display_name, category, description, details, images,
		 price, original_price, last_price, stock, rating, review_count,
		 is_new, is_best_seller, features, benefits, skin_types, scent_family, tags,
		 created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,0,0,$13,$14,$15,$16,$17,$18,$19,NOW(),NOW())
		RETURNING created_at, updated_at`
	err = tx.QueryRow(ctx, query,
		product.ID, product.SKU, product.Name, product.DisplayName, product.Category,
		product.Description, product.Details, product.Images,
		product.Price, product.OriginalPrice, product.LastPrice, product.Stock,
		product.IsNew, product.IsBestSeller,
		product.Features, product.Benefits, product.SkinTypes, product.ScentFamily, product.Tags,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *pgProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productFields+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+productFields+` FROM products WHERE sku = $1`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int, error) {
	allowedSorts := map[string]bool{
		"last_price": true, "rating": true, "created_at": true, "is_best_seller": true,
	}
	sort := filter.Sort
	if !allowedSorts[sort] {
		sort = "created_at"
	}
	order := filter.Order
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	conds := []string{"TRUE"}
	args := []any{}
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Category != "" && filter.Category != model.CategoryAll {
		add("category = $%d", filter.Category)
	}
	if filter.Search != "" {
		args = append(args, filter.Search)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(sku ILIKE '%%' || $%d || '%%' OR name ILIKE '%%' || $%d || '%%'
			  OR display_name ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%'
			  OR EXISTS (SELECT 1 FROM unnest(tags) t WHERE t ILIKE '%%' || $%d || '%%'))`,
			n, n, n, n, n))
	}
	if filter.MinPrice != nil {
		add("last_price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		add("last_price <= $%d", *filter.MaxPrice)
	}
	if len(filter.Benefits) > 0 {
		add("benefits && $%d", filter.Benefits)
	}
	if len(filter.SkinTypes) > 0 {
		add("skin_types && $%d", filter.SkinTypes)
	}
	if len(filter.ScentFamily) > 0 {
		add("scent_family && $%d", filter.ScentFamily)
	}
	if filter.IsNew != nil {
		add("is_new = $%d", *filter.IsNew)
	}
	if filter.IsBestSeller != nil {
		add("is_best_seller = $%d", *filter.IsBestSeller)
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		productFields, where, sort, order, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, nil
}

func (r *pgProductRepo) Featured(ctx context.Context, limit int) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productFields+` FROM products
		 WHERE is_best_seller OR is_new OR rating >= 4.5
		 ORDER BY rating DESC, created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("featured products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, nil
}

func (r *pgProductRepo) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, COUNT(*) FROM products GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}
	defer rows.Close()

	var counts []model.CategoryCount
	total := 0
	for rows.Next() {
		var c model.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		total += c.Count
		counts = append(counts, c)
	}
	return append([]model.CategoryCount{{Category: model.CategoryAll, Count: total}}, counts...), nil
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	// sku is deliberately absent from the SET list.
	err := r.pool.QueryRow(ctx,
		`UPDATE products SET name=$2, display_name=$3, category=$4, description=$5, details=$6,
			images=$7, price=$8, original_price=$9, last_price=$10, stock=$11,
			is_new=$12, is_best_seller=$13, features=$14, benefits=$15,
			skin_types=$16, scent_family=$17, tags=$18, updated_at=NOW()
		 WHERE id=$1 RETURNING updated_at`,
		product.ID, product.Name, product.DisplayName, product.Category, product.Description,
		product.Details, product.Images, product.Price, product.OriginalPrice, product.LastPrice,
		product.Stock, product.IsNew, product.IsBestSeller, product.Features, product.Benefits,
		product.SkinTypes, product.ScentFamily, product.Tags,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *pgProductRepo) SetRating(ctx context.Context, id uuid.UUID, rating float64, reviewCount int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE products SET rating=$2, review_count=$3, updated_at=NOW() WHERE id=$1`,
		id, rating, reviewCount)
	if err != nil {
		return fmt.Errorf("set rating: %w", err)
	}
	return nil
}

func (r *pgProductRepo) DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	ct, err := tx.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = NOW() WHERE id = $1 AND stock >= $2`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("insufficient stock for product %s", productID)
	}
	return nil
}
