package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/repository"
)

var (
	ErrAlreadyInWishlist    = errors.New("product already in wishlist")
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
)

type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	products     *ProductService
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, products *ProductService) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, products: products}
}

func (s *WishlistService) List(ctx context.Context, userID uuid.UUID) ([]model.WishlistEntry, error) {
	return s.wishlistRepo.List(ctx, userID)
}

func (s *WishlistService) Add(ctx context.Context, userID uuid.UUID, productRef string) error {
	product, err := s.products.GetByRef(ctx, productRef)
	if err != nil {
		return err
	}
	if err := s.wishlistRepo.Add(ctx, userID, product.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrAlreadyInWishlist
		}
		return fmt.Errorf("add to wishlist: %w", err)
	}
	return nil
}

func (s *WishlistService) Remove(ctx context.Context, userID uuid.UUID, productRef string) error {
	product, err := s.products.GetByRef(ctx, productRef)
	if err != nil {
		return err
	}
	if err := s.wishlistRepo.Remove(ctx, userID, product.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrWishlistItemNotFound
		}
		return fmt.Errorf("remove from wishlist: %w", err)
	}
	return nil
}

func (s *WishlistService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.wishlistRepo.Clear(ctx, userID)
}

func (s *WishlistService) Contains(ctx context.Context, userID uuid.UUID, productRef string) (bool, error) {
	product, err := s.products.GetByRef(ctx, productRef)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return false, nil
		}
		return false, err
	}
	return s.wishlistRepo.Contains(ctx, userID, product.ID)
}

func (s *WishlistService) Count(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.wishlistRepo.Count(ctx, userID)
}
