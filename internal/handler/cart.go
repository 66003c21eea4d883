package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glowmart/beauty-shop-api/internal/dto"
	"github.com/glowmart/beauty-shop-api/internal/middleware"
	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/service"
)

type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) Get(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	cart, err := h.cartService.Get(c.Request.Context(), identity.UserID)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respond(c, http.StatusOK, "", cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), identity.UserID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			fail(c, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrInsufficientStock):
			fail(c, http.StatusBadRequest, "not enough stock")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.respond(c, http.StatusOK, "item added to cart", cart)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid item id")
		return
	}

	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.cartService.UpdateItem(c.Request.Context(), identity.UserID, itemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			fail(c, http.StatusNotFound, "cart item not found")
		case errors.Is(err, service.ErrProductNotFound):
			fail(c, http.StatusNotFound, "product no longer available")
		case errors.Is(err, service.ErrInsufficientStock):
			fail(c, http.StatusBadRequest, "not enough stock")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.respond(c, http.StatusOK, "cart updated", cart)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid item id")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), identity.UserID, itemID)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			fail(c, http.StatusNotFound, "cart item not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respond(c, http.StatusOK, "item removed", cart)
}

func (h *CartHandler) Clear(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	if err := h.cartService.Clear(c.Request.Context(), identity.UserID); err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "cart cleared"})
}

func (h *CartHandler) respond(c *gin.Context, status int, message string, cart *model.Cart) {
	resp := dto.ToCartResponse(cart)
	resp.Success = true
	resp.Message = message
	c.JSON(status, resp)
}
