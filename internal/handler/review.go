package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glowmart/beauty-shop-api/internal/config"
	"github.com/glowmart/beauty-shop-api/internal/dto"
	"github.com/glowmart/beauty-shop-api/internal/middleware"
	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/service"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
	api           config.APIConfig
}

func NewReviewHandler(reviewService *service.ReviewService, api config.APIConfig) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, api: api}
}

func (h *ReviewHandler) Submit(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserName == "" {
		req.UserName = identity.Name
	}

	review, err := h.reviewService.Submit(c.Request.Context(), c.Param("id"), identity.Email, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			fail(c, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrDuplicateReview):
			fail(c, http.StatusConflict, "you have already reviewed this product")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "review submitted for moderation",
		"review":  dto.ToReviewResponse(review),
	})
}

// ListPublic returns approved, visible reviews plus the rating histogram.
func (h *ReviewHandler) ListPublic(c *gin.Context) {
	var req dto.ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}
	h.api.NormalizePaging(&req.Page, &req.Limit)

	reviews, total, dist, agg, err := h.reviewService.ListPublic(c.Request.Context(), c.Param("id"), req.Page, req.Limit)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, dto.ToPublicReviewResponse(&reviews[i]))
	}

	c.JSON(http.StatusOK, dto.ReviewListResponse{
		Envelope:           dto.Envelope{Success: true},
		Reviews:            items,
		Pagination:         paginate(req.Page, req.Limit, total),
		RatingDistribution: dist,
		AverageRating:      agg.Average,
		TotalReviews:       agg.Count,
	})
}

// CheckMine tells the caller whether they already reviewed this product.
func (h *ReviewHandler) CheckMine(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	review, err := h.reviewService.CheckMine(c.Request.Context(), c.Param("id"), identity.Email)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	if review == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "hasReviewed": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"hasReviewed": true,
		"review":      dto.ToReviewResponse(review),
	})
}

func (h *ReviewHandler) ListAdmin(c *gin.Context) {
	var req dto.AdminListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}
	h.api.NormalizePaging(&req.Page, &req.Limit)

	reviews, total, err := h.reviewService.ListAdmin(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidReviewStatus):
			fail(c, http.StatusBadRequest, "invalid review status")
		case errors.Is(err, service.ErrProductNotFound):
			fail(c, http.StatusNotFound, "product not found")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	items := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, dto.ToReviewResponse(&reviews[i]))
	}

	c.JSON(http.StatusOK, dto.ReviewListResponse{
		Envelope:   dto.Envelope{Success: true},
		Reviews:    items,
		Pagination: paginate(req.Page, req.Limit, total),
	})
}

func (h *ReviewHandler) Moderate(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid review id")
		return
	}

	var req dto.UpdateReviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewService.Moderate(c.Request.Context(), reviewID, model.ReviewStatus(req.Status), req.AdminComment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			fail(c, http.StatusNotFound, "review not found")
		case errors.Is(err, service.ErrInvalidReviewStatus):
			fail(c, http.StatusBadRequest, "invalid review status")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "review updated", "review": dto.ToReviewResponse(review)})
}

func (h *ReviewHandler) SetVisibility(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid review id")
		return
	}

	var req dto.SetReviewVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewService.SetHidden(c.Request.Context(), reviewID, *req.Hidden)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			fail(c, http.StatusNotFound, "review not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "review visibility updated", "review": dto.ToReviewResponse(review)})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid review id")
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), reviewID); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			fail(c, http.StatusNotFound, "review not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "review deleted"})
}
