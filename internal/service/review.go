package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/glowmart/beauty-shop-api/internal/dto"
	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/repository"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrDuplicateReview     = errors.New("review already submitted for this product")
	ErrInvalidReviewStatus = errors.New("invalid review status")
)

type ReviewService struct {
	reviewRepo repository.ReviewRepository
	products   *ProductService
}

func NewReviewService(reviewRepo repository.ReviewRepository, products *ProductService) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, products: products}
}

// Submit files a review for moderation. One review per (product, reviewer);
// a second submission is rejected, not merged.
func (s *ReviewService) Submit(ctx context.Context, productRef, email string, req dto.SubmitReviewRequest) (*model.Review, error) {
	product, err := s.products.GetByRef(ctx, productRef)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		ProductID: product.ID,
		Email:     email,
		UserName:  req.UserName,
		Body:      req.Review,
		Rating:    req.Rating,
		Status:    model.ReviewStatusPending,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// ListPublic returns the approved, visible reviews for a product together
// with the rating histogram over the same set.
func (s *ReviewService) ListPublic(ctx context.Context, productRef string, page, limit int) ([]model.Review, int, map[int]int, *repository.RatingAggregate, error) {
	product, err := s.products.GetByRef(ctx, productRef)
	if err != nil {
		return nil, 0, nil, nil, err
	}

	reviews, total, err := s.reviewRepo.ListPublic(ctx, product.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, nil, nil, err
	}
	dist, agg, err := s.reviewRepo.Distribution(ctx, product.ID)
	if err != nil {
		return nil, 0, nil, nil, err
	}
	return reviews, total, dist, agg, nil
}

// CheckMine reports whether the caller already reviewed the product, and if
// so returns that review regardless of its moderation state.
func (s *ReviewService) CheckMine(ctx context.Context, productRef, email string) (*model.Review, error) {
	product, err := s.products.GetByRef(ctx, productRef)
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.GetByProductAndEmail(ctx, product.ID, email)
}

func (s *ReviewService) ListAdmin(ctx context.Context, req dto.AdminListReviewsRequest) ([]model.Review, int, error) {
	filter := repository.ReviewFilter{
		Search: req.Search,
		Limit:  req.Limit,
		Offset: (req.Page - 1) * req.Limit,
	}
	if req.Status != "" && req.Status != "all" {
		status := model.ReviewStatus(req.Status)
		if !model.ValidReviewStatus(status) {
			return nil, 0, ErrInvalidReviewStatus
		}
		filter.Status = status
	}
	if req.ProductID != "" {
		product, err := s.products.GetByRef(ctx, req.ProductID)
		if err != nil {
			return nil, 0, err
		}
		filter.ProductID = &product.ID
	}
	return s.reviewRepo.ListAdmin(ctx, filter)
}

// Moderate approves or rejects a review. Whenever a review enters or leaves
// the approved state the product's published rating is recomputed.
func (s *ReviewService) Moderate(ctx context.Context, id uuid.UUID, status model.ReviewStatus, adminComment string) (*model.Review, error) {
	if !model.ValidReviewStatus(status) {
		return nil, ErrInvalidReviewStatus
	}

	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}

	var commentPtr *string
	if adminComment != "" {
		commentPtr = &adminComment
	}
	if err := s.reviewRepo.UpdateStatus(ctx, id, status, commentPtr); err != nil {
		return nil, fmt.Errorf("update review status: %w", err)
	}

	if review.Status == model.ReviewStatusApproved || status == model.ReviewStatusApproved {
		if err := s.refreshRating(ctx, review.ProductID); err != nil {
			return nil, err
		}
	}
	return s.reviewRepo.GetByID(ctx, id)
}

// SetHidden toggles a review's visibility without touching its moderation
// verdict. Hiding an approved review pulls it out of the aggregate.
func (s *ReviewService) SetHidden(ctx context.Context, id uuid.UUID, hidden bool) (*model.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}

	if err := s.reviewRepo.SetHidden(ctx, id, hidden); err != nil {
		return nil, fmt.Errorf("set review visibility: %w", err)
	}

	if review.Status == model.ReviewStatusApproved {
		if err := s.refreshRating(ctx, review.ProductID); err != nil {
			return nil, err
		}
	}
	return s.reviewRepo.GetByID(ctx, id)
}

func (s *ReviewService) Delete(ctx context.Context, id uuid.UUID) error {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	if review.Status == model.ReviewStatusApproved {
		return s.refreshRating(ctx, review.ProductID)
	}
	return nil
}

func (s *ReviewService) refreshRating(ctx context.Context, productID uuid.UUID) error {
	agg, err := s.reviewRepo.AggregateApproved(ctx, productID)
	if err != nil {
		return fmt.Errorf("aggregate rating: %w", err)
	}
	return s.products.RefreshRating(ctx, productID, agg)
}
