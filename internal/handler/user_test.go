package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/glowmart/beauty-shop-api/internal/config"
	"github.com/glowmart/beauty-shop-api/internal/middleware"
	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/service"
)

// newAdminTestRouter registers the account-management routes with the same
// middleware chain the API binary uses.
func newAdminTestRouter(userRepo *mockUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	authSvc := service.NewAuthService(userRepo, testSecret, time.Hour, bcrypt.MinCost, 6)
	userSvc := service.NewUserService(userRepo, authSvc, bcrypt.MinCost, 6)
	userH := NewUserHandler(userSvc, config.APIConfig{DefaultPageSize: 12, MaxPageSize: 100})

	authed := middleware.Auth(testSecret)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	router := gin.New()
	admin := router.Group("/api/v1/admin", authed, adminOnly)
	admin.GET("/customers", userH.ListCustomers)
	admin.PATCH("/customers/:id/status", userH.SetCustomerStatus)
	admin.DELETE("/customers/:id", userH.DeleteCustomer)

	super := admin.Group("/admins")
	super.POST("", userH.CreateAdmin)
	super.PATCH("/:id", userH.UpdateAdmin)
	super.PATCH("/:id/status", userH.SetAdminStatus)
	super.DELETE("/:id", userH.DeleteAdmin)
	return router
}

func seedAdmin(repo *mockUserRepo, email string) *model.User {
	return repo.add(&model.User{
		Email: email, FirstName: "Ada", LastName: "Admin", Role: model.RoleAdmin,
	})
}

func adminRequest(t *testing.T, router *gin.Engine, actor *model.User, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, actor))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminRoutes_CreateAdminDuplicateEmail(t *testing.T) {
	userRepo := newMockUserRepo()
	router := newAdminTestRouter(userRepo)
	actor := seedAdmin(userRepo, "boss@example.com")
	seedAdmin(userRepo, "taken@example.com")

	body := `{"email":"taken@example.com","password":"secret1","firstName":"New","lastName":"Admin"}`
	w := adminRequest(t, router, actor, http.MethodPost, "/api/v1/admin/admins", body)

	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestAdminRoutes_SelfBlockForbidden(t *testing.T) {
	userRepo := newMockUserRepo()
	router := newAdminTestRouter(userRepo)
	actor := seedAdmin(userRepo, "boss@example.com")

	w := adminRequest(t, router, actor, http.MethodPatch,
		"/api/v1/admin/admins/"+actor.ID.String()+"/status",
		`{"isBlocked":true,"reason":"no"}`)

	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "your own account")
}

func TestAdminRoutes_SelfDeleteForbidden(t *testing.T) {
	userRepo := newMockUserRepo()
	router := newAdminTestRouter(userRepo)
	actor := seedAdmin(userRepo, "boss@example.com")

	w := adminRequest(t, router, actor, http.MethodDelete,
		"/api/v1/admin/admins/"+actor.ID.String(), "")

	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	assert.False(t, userRepo.users[actor.ID].IsDeleted)
}

func TestAdminRoutes_SelfSuperAdminChangeForbidden(t *testing.T) {
	userRepo := newMockUserRepo()
	router := newAdminTestRouter(userRepo)
	actor := seedAdmin(userRepo, "boss@example.com")

	w := adminRequest(t, router, actor, http.MethodPatch,
		"/api/v1/admin/admins/"+actor.ID.String(),
		`{"isSuperAdmin":true}`)

	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	assert.False(t, userRepo.users[actor.ID].IsSuperAdmin)
}

func TestAdminRoutes_RejectNonAdminRoles(t *testing.T) {
	userRepo := newMockUserRepo()
	router := newAdminTestRouter(userRepo)

	staff := userRepo.add(&model.User{Email: "staff@example.com", FirstName: "Sam", LastName: "Staff", Role: model.RoleStaff})
	customer := userRepo.add(&model.User{Email: "cust@example.com", FirstName: "Cara", LastName: "Customer", Role: model.RoleCustomer})

	for _, actor := range []*model.User{staff, customer} {
		w := adminRequest(t, router, actor, http.MethodGet, "/api/v1/admin/customers", "")
		assert.Equal(t, http.StatusForbidden, w.Code, "role %s should be rejected", actor.Role)
	}
}
