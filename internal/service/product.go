package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/glowmart/beauty-shop-api/internal/dto"
	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidCategory = errors.New("invalid category")
)

const productCacheTTL = 60 * time.Second

type ProductService struct {
	productRepo repository.ProductRepository
	redisClient *redis.Client
}

func NewProductService(productRepo repository.ProductRepository, redisClient *redis.Client) *ProductService {
	return &ProductService{productRepo: productRepo, redisClient: redisClient}
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	if !model.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	lastPrice := req.Price
	if req.LastPrice != nil {
		lastPrice = *req.LastPrice
	}
	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Name
	}

	product := &model.Product{
		Name:          req.Name,
		DisplayName:   displayName,
		Category:      req.Category,
		Description:   req.Description,
		Details:       req.Details,
		Images:        emptyIfNil(req.Images),
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		LastPrice:     lastPrice,
		Stock:         req.Stock,
		IsNew:         req.IsNew,
		IsBestSeller:  req.IsBestSeller,
		Features:      emptyIfNil(req.Features),
		Benefits:      emptyIfNil(req.Benefits),
		SkinTypes:     emptyIfNil(req.SkinTypes),
		ScentFamily:   emptyIfNil(req.ScentFamily),
		Tags:          emptyIfNil(req.Tags),
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// GetByRef resolves a product by either its storage UUID or its
// human-readable SKU, consulting the Redis cache first.
func (s *ProductService) GetByRef(ctx context.Context, ref string) (*model.Product, error) {
	cacheKey := "product:" + ref

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var p model.Product
			if json.Unmarshal([]byte(cached), &p) == nil {
				return &p, nil
			}
		}
	}

	product, err := s.lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if s.redisClient != nil {
		if data, err := json.Marshal(product); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}
	return product, nil
}

func (s *ProductService) lookup(ctx context.Context, ref string) (*model.Product, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.productRepo.GetByID(ctx, id)
	}
	return s.productRepo.GetBySKU(ctx, ref)
}

func (s *ProductService) List(ctx context.Context, req dto.ListProductsRequest) ([]model.Product, int, error) {
	sort, order := mapSortKey(req.SortBy, req.SortOrder)
	filter := repository.ProductFilter{
		Category:     req.Category,
		Search:       req.Search,
		MinPrice:     req.MinPrice,
		MaxPrice:     req.MaxPrice,
		Benefits:     splitCSV(req.Benefits),
		SkinTypes:    splitCSV(req.SkinType),
		ScentFamily:  splitCSV(req.ScentFamily),
		IsNew:        req.IsNew,
		IsBestSeller: req.IsBestSeller,
		Sort:         sort,
		Order:        order,
		Limit:        req.Limit,
		Offset:       (req.Page - 1) * req.Limit,
	}
	return s.productRepo.List(ctx, filter)
}

func (s *ProductService) Featured(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.Featured(ctx, 8)
}

func (s *ProductService) Categories(ctx context.Context) ([]model.CategoryCount, error) {
	return s.productRepo.Categories(ctx)
}

func (s *ProductService) Update(ctx context.Context, ref string, req dto.UpdateProductRequest) (*model.Product, error) {
	product, err := s.lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.Category != nil {
		if !model.ValidCategory(*req.Category) {
			return nil, ErrInvalidCategory
		}
		product.Category = *req.Category
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.DisplayName != nil {
		product.DisplayName = *req.DisplayName
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Details != nil {
		product.Details = *req.Details
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		product.OriginalPrice = req.OriginalPrice
	}
	if req.LastPrice != nil {
		product.LastPrice = *req.LastPrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsNew != nil {
		product.IsNew = *req.IsNew
	}
	if req.IsBestSeller != nil {
		product.IsBestSeller = *req.IsBestSeller
	}
	if req.Features != nil {
		product.Features = *req.Features
	}
	if req.Benefits != nil {
		product.Benefits = *req.Benefits
	}
	if req.SkinTypes != nil {
		product.SkinTypes = *req.SkinTypes
	}
	if req.ScentFamily != nil {
		product.ScentFamily = *req.ScentFamily
	}
	if req.Tags != nil {
		product.Tags = *req.Tags
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidateCache(ctx, product)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, ref string) error {
	product, err := s.lookup(ctx, ref)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if err := s.productRepo.Delete(ctx, product.ID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCache(ctx, product)
	return nil
}

// RefreshRating recomputes the aggregate over approved, visible reviews
// and stores it on the product. Called by the review service on every
// moderation change.
func (s *ProductService) RefreshRating(ctx context.Context, productID uuid.UUID, agg *repository.RatingAggregate) error {
	rating := 0.0
	if agg.Count > 0 {
		// one decimal, matching the published rating format
		rating = float64(int(agg.Average*10+0.5)) / 10
	}
	if err := s.productRepo.SetRating(ctx, productID, rating, agg.Count); err != nil {
		return err
	}
	if product, err := s.productRepo.GetByID(ctx, productID); err == nil && product != nil {
		s.invalidateCache(ctx, product)
	}
	return nil
}

func (s *ProductService) invalidateCache(ctx context.Context, product *model.Product) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, "product:"+product.ID.String(), "product:"+product.SKU)
	}
}

func mapSortKey(sortBy, sortOrder string) (column, order string) {
	order = sortOrder
	switch sortBy {
	case "price-low":
		return "last_price", "asc"
	case "price-high":
		return "last_price", "desc"
	case "featured":
		return "is_best_seller", order
	case "rating":
		return "rating", order
	case "newest":
		return "created_at", order
	default:
		return "created_at", order
	}
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
