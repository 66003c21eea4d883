package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowmart/beauty-shop-api/internal/config"
	"github.com/glowmart/beauty-shop-api/internal/middleware"
	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/service"
)

// newReviewTestRouter registers the review routes the way the API binary
// does, so the tests exercise the real path parameter wiring.
func newReviewTestRouter(productRepo *mockProductRepo, reviewRepo *mockReviewRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	productSvc := service.NewProductService(productRepo, nil)
	reviewSvc := service.NewReviewService(reviewRepo, productSvc)
	reviewH := NewReviewHandler(reviewSvc, config.APIConfig{DefaultPageSize: 12, MaxPageSize: 100})
	authed := middleware.Auth(testSecret)

	router := gin.New()
	products := router.Group("/api/v1/products")
	products.GET("/:id/reviews", reviewH.ListPublic)
	products.POST("/:id/reviews", authed, reviewH.Submit)
	products.GET("/:id/reviews/mine", authed, reviewH.CheckMine)
	return router
}

func seedReviewProduct(t *testing.T, repo *mockProductRepo) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:      "Rose Serum",
		Category:  model.CategorySkincare,
		Price:     decimal.NewFromInt(25),
		LastPrice: decimal.NewFromInt(25),
		Stock:     10,
	}
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}

func TestReviewRoutes_ListPublicResolvesProductFromPath(t *testing.T) {
	productRepo := newMockProductRepo()
	reviewRepo := newMockReviewRepo()
	router := newReviewTestRouter(productRepo, reviewRepo)

	product := seedReviewProduct(t, productRepo)
	require.NoError(t, reviewRepo.Create(context.Background(), &model.Review{
		ProductID: product.ID, Email: "jane@example.com", UserName: "Jane",
		Body: "lovely", Rating: 5, Status: model.ReviewStatusApproved,
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+product.SKU+"/reviews", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), `"lovely"`)
}

func TestReviewRoutes_ListPublicAppliesConfiguredPaging(t *testing.T) {
	productRepo := newMockProductRepo()
	reviewRepo := newMockReviewRepo()
	router := newReviewTestRouter(productRepo, reviewRepo)
	product := seedReviewProduct(t, productRepo)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+product.SKU+"/reviews", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 12, reviewRepo.lastPublicLimit)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+product.SKU+"/reviews?limit=500", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, reviewRepo.lastPublicLimit)
}

func TestReviewRoutes_SubmitFilesReviewForPathProduct(t *testing.T) {
	productRepo := newMockProductRepo()
	reviewRepo := newMockReviewRepo()
	router := newReviewTestRouter(productRepo, reviewRepo)
	product := seedReviewProduct(t, productRepo)

	reviewer := &model.User{ID: uuid.New(), Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Role: model.RoleCustomer}
	token := signTestToken(t, reviewer)

	body := `{"rating":5,"review":"lovely"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+product.SKU+"/reviews", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	stored, err := reviewRepo.GetByProductAndEmail(context.Background(), product.ID, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, model.ReviewStatusPending, stored.Status)

	// Same reviewer, same product: conflict.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/products/"+product.SKU+"/reviews", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestReviewRoutes_CheckMine(t *testing.T) {
	productRepo := newMockProductRepo()
	reviewRepo := newMockReviewRepo()
	router := newReviewTestRouter(productRepo, reviewRepo)
	product := seedReviewProduct(t, productRepo)

	reviewer := &model.User{ID: uuid.New(), Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Role: model.RoleCustomer}
	token := signTestToken(t, reviewer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+product.SKU+"/reviews/mine", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hasReviewed":false`)

	require.NoError(t, reviewRepo.Create(context.Background(), &model.Review{
		ProductID: product.ID, Email: "jane@example.com", UserName: "Jane",
		Body: "lovely", Rating: 4, Status: model.ReviewStatusPending,
	}))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/"+product.SKU+"/reviews/mine", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hasReviewed":true`)
	assert.Contains(t, w.Body.String(), `"pending"`)
}
