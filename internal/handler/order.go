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

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Create(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), identity.UserID, identity.Email, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			fail(c, http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrInsufficientStock):
			fail(c, http.StatusBadRequest, "not enough stock")
		case errors.Is(err, service.ErrInvalidPaymentMethod):
			fail(c, http.StatusBadRequest, "invalid payment method")
		case errors.Is(err, service.ErrInvalidDeliveryMethod):
			fail(c, http.StatusBadRequest, "invalid delivery method")
		case errors.Is(err, service.ErrNegativeAmount):
			fail(c, http.StatusBadRequest, "amounts must not be negative")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	resp := dto.ToOrderResponse(order)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "order placed", "order": resp})
}

// Quote prices a basket without creating an order. Public: checkout pages
// call it before the buyer signs in.
func (h *OrderHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.orderService.Quote(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			fail(c, http.StatusNotFound, "product not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	resp.Success = true
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	orders, err := h.orderService.ListForUser(c.Request.Context(), identity.UserID, identity.Email)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondList(c, orders)
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.orderService.ListAll(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	h.respondList(c, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}

	isAdmin := identity.Role == model.RoleAdmin
	order, err := h.orderService.Get(c.Request.Context(), orderID, identity.UserID, identity.Email, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			fail(c, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrOrderAccessDenied):
			fail(c, http.StatusForbidden, "access denied")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": dto.ToOrderResponse(order)})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, model.OrderStatus(req.Status), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			fail(c, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrInvalidOrderStatus):
			fail(c, http.StatusBadRequest, "invalid order status")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "status updated", "order": dto.ToOrderResponse(order)})
}

func (h *OrderHandler) MarkPaid(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.MarkPaid(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			fail(c, http.StatusNotFound, "order not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "order marked as paid", "order": dto.ToOrderResponse(order)})
}

func (h *OrderHandler) respondList(c *gin.Context, orders []model.Order) {
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, dto.ToOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, dto.OrderListResponse{
		Envelope: dto.Envelope{Success: true},
		Count:    len(items),
		Orders:   items,
	})
}
