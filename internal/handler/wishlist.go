package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glowmart/beauty-shop-api/internal/dto"
	"github.com/glowmart/beauty-shop-api/internal/middleware"
	"github.com/glowmart/beauty-shop-api/internal/service"
)

type WishlistHandler struct {
	wishlistService *service.WishlistService
}

func NewWishlistHandler(wishlistService *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

func (h *WishlistHandler) List(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	entries, err := h.wishlistService.List(c.Request.Context(), identity.UserID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]dto.WishlistEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.WishlistEntryResponse{
			Product: dto.ToProductResponse(&entries[i].Product),
			AddedAt: entries[i].Item.AddedAt,
		})
	}

	c.JSON(http.StatusOK, dto.WishlistResponse{
		Envelope: dto.Envelope{Success: true},
		Items:    items,
	})
}

func (h *WishlistHandler) Add(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req dto.AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.wishlistService.Add(c.Request.Context(), identity.UserID, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			fail(c, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrAlreadyInWishlist):
			fail(c, http.StatusConflict, "product already in wishlist")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.Envelope{Success: true, Message: "added to wishlist"})
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	err := h.wishlistService.Remove(c.Request.Context(), identity.UserID, c.Param("productId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			fail(c, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrWishlistItemNotFound):
			fail(c, http.StatusNotFound, "product not in wishlist")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "removed from wishlist"})
}

func (h *WishlistHandler) Clear(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	if err := h.wishlistService.Clear(c.Request.Context(), identity.UserID); err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "wishlist cleared"})
}

func (h *WishlistHandler) Contains(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	inList, err := h.wishlistService.Contains(c.Request.Context(), identity.UserID, c.Param("productId"))
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "inWishlist": inList})
}

func (h *WishlistHandler) Count(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	count, err := h.wishlistService.Count(c.Request.Context(), identity.UserID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}
