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

type UserHandler struct {
	userService *service.UserService
	api         config.APIConfig
}

func NewUserHandler(userService *service.UserService, api config.APIConfig) *UserHandler {
	return &UserHandler{userService: userService, api: api}
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := h.userService.UpdateProfile(c.Request.Context(), identity.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			fail(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrEmailTaken):
			fail(c, http.StatusConflict, "email is already in use")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "profile updated",
		"user":    dto.ToUserResponse(user),
		"token":   token,
	})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), identity.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			fail(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrWrongPassword):
			fail(c, http.StatusBadRequest, "current password is incorrect")
		case errors.Is(err, service.ErrSamePassword):
			fail(c, http.StatusBadRequest, "new password must differ from the current one")
		case errors.Is(err, service.ErrPasswordMismatch):
			fail(c, http.StatusBadRequest, "passwords do not match")
		case errors.Is(err, service.ErrPasswordTooShort):
			fail(c, http.StatusBadRequest, "password is too short")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "password changed"})
}

// --- Admin: customer management ---

func (h *UserHandler) ListCustomers(c *gin.Context) {
	h.listByRole(c, model.RoleCustomer)
}

func (h *UserHandler) ListAdmins(c *gin.Context) {
	h.listByRole(c, model.RoleAdmin)
}

func (h *UserHandler) listByRole(c *gin.Context, role string) {
	var req dto.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid query parameters")
		return
	}
	h.api.NormalizePaging(&req.Page, &req.Limit)

	users, total, stats, err := h.userService.ListByRole(c.Request.Context(), role, req)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.ToUserResponse(&users[i]))
	}

	c.JSON(http.StatusOK, dto.UserListResponse{
		Envelope:   dto.Envelope{Success: true},
		Users:      items,
		Pagination: paginate(req.Page, req.Limit, total),
		Stats: dto.UserStats{
			Total:   stats.Total,
			Active:  stats.Active,
			Blocked: stats.Blocked,
			Super:   stats.Super,
		},
	})
}

func (h *UserHandler) GetCustomer(c *gin.Context) {
	h.getByRole(c, model.RoleCustomer)
}

func (h *UserHandler) GetAdmin(c *gin.Context) {
	h.getByRole(c, model.RoleAdmin)
}

func (h *UserHandler) getByRole(c *gin.Context, role string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userService.GetByRole(c.Request.Context(), id, role)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": dto.ToUserResponse(user)})
}

// SetCustomerStatus blocks or unblocks a customer account, recording the
// reason in the account's audit trail.
func (h *UserHandler) SetCustomerStatus(c *gin.Context) {
	h.setStatus(c, model.RoleCustomer)
}

func (h *UserHandler) SetAdminStatus(c *gin.Context) {
	h.setStatus(c, model.RoleAdmin)
}

func (h *UserHandler) setStatus(c *gin.Context, role string) {
	identity := middleware.GetIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.SetBlocked(c.Request.Context(), identity.UserID, id, role, *req.IsBlocked, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			fail(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrSelfBlock):
			fail(c, http.StatusForbidden, "you cannot block your own account")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "status updated", "user": dto.ToUserResponse(user)})
}

func (h *UserHandler) ResetCustomerPassword(c *gin.Context) {
	h.resetPassword(c, model.RoleCustomer)
}

func (h *UserHandler) ResetAdminPassword(c *gin.Context) {
	h.resetPassword(c, model.RoleAdmin)
}

func (h *UserHandler) resetPassword(c *gin.Context, role string) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.userService.ResetPassword(c.Request.Context(), id, role, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			fail(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrPasswordTooShort):
			fail(c, http.StatusBadRequest, "password is too short")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "password reset"})
}

func (h *UserHandler) DeleteCustomer(c *gin.Context) {
	h.deleteByRole(c, model.RoleCustomer)
}

func (h *UserHandler) DeleteAdmin(c *gin.Context) {
	h.deleteByRole(c, model.RoleAdmin)
}

func (h *UserHandler) deleteByRole(c *gin.Context, role string) {
	identity := middleware.GetIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	err = h.userService.Delete(c.Request.Context(), identity.UserID, id, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			fail(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrSelfDelete):
			fail(c, http.StatusForbidden, "you cannot delete your own account")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "account deleted"})
}

// --- Admin: admin management ---

func (h *UserHandler) CreateAdmin(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req dto.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.CreateAdmin(c.Request.Context(), identity.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			fail(c, http.StatusConflict, "an account with this email already exists")
		case errors.Is(err, service.ErrInvalidPermission):
			fail(c, http.StatusBadRequest, "unknown permission")
		case errors.Is(err, service.ErrPasswordTooShort):
			fail(c, http.StatusBadRequest, "password is too short")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "admin created", "user": dto.ToUserResponse(user)})
}

func (h *UserHandler) UpdateAdmin(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var req dto.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateAdmin(c.Request.Context(), identity.UserID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			fail(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrEmailTaken):
			fail(c, http.StatusConflict, "email is already in use")
		case errors.Is(err, service.ErrInvalidPermission):
			fail(c, http.StatusBadRequest, "unknown permission")
		case errors.Is(err, service.ErrSelfSuperAdmin):
			fail(c, http.StatusForbidden, "you cannot change your own super admin status")
		default:
			fail(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "admin updated", "user": dto.ToUserResponse(user)})
}
