package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/repository"
)

var (
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// resolveProduct accepts either the internal UUID or the public sequential
// id (PRD0001) and returns the live catalog row.
func resolveProduct(ctx context.Context, repo repository.ProductRepository, ref string) (*model.Product, error) {
	var (
		product *model.Product
		err     error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		product, err = repo.GetByID(ctx, id)
	} else {
		product, err = repo.GetBySKU(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.cartRepo.GetWithItems(ctx, cart.ID)
}

// AddItem snapshots the product into the cart. Adding a product that is
// already in the cart bumps its quantity; the combined quantity must stay
// within the current stock.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, productRef string, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := resolveProduct(ctx, s.productRepo, productRef)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	cart, err = s.cartRepo.GetWithItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	existing := 0
	for _, item := range cart.Items {
		if item.ProductID == product.ID {
			existing = item.Quantity
			break
		}
	}
	if existing+quantity > product.Stock {
		return nil, ErrInsufficientStock
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	item := &model.CartItem{
		CartID:        cart.ID,
		ProductID:     product.ID,
		Quantity:      quantity,
		Price:         product.LastPrice,
		Name:          product.DisplayName,
		Image:         image,
		Category:      product.Category,
		OriginalPrice: &product.Price,
	}
	if err := s.cartRepo.AddItem(ctx, item); err != nil {
		return nil, fmt.Errorf("add item: %w", err)
	}

	return s.cartRepo.GetWithItems(ctx, cart.ID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CartID != cart.ID {
		return nil, ErrCartItemNotFound
	}

	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		// The snapshot line outlived the catalog entry; don't let the
		// quantity grow against a product that can no longer ship.
		return nil, ErrProductNotFound
	}
	if quantity > product.Stock {
		return nil, ErrInsufficientStock
	}

	if err := s.cartRepo.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return s.cartRepo.GetWithItems(ctx, cart.ID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.CartID != cart.ID {
		return nil, ErrCartItemNotFound
	}

	if err := s.cartRepo.DeleteItem(ctx, itemID); err != nil {
		return nil, fmt.Errorf("remove item: %w", err)
	}
	return s.cartRepo.GetWithItems(ctx, cart.ID)
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.cartRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.cartRepo.Clear(ctx, cart.ID)
}
