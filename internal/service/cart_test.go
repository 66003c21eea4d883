package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowmart/beauty-shop-api/internal/dto"
	"github.com/glowmart/beauty-shop-api/internal/model"
)

func seedProduct(t *testing.T, repo *mockProductRepo, price int64, stock int) *model.Product {
	t.Helper()
	svc := NewProductService(repo, nil)
	product, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:        "Rose Water Toner",
		Category:    model.CategorySkincare,
		Description: "desc",
		Price:       decimal.NewFromInt(price),
		Stock:       stock,
	})
	require.NoError(t, err)
	return product
}

func TestCartService_AddItem_SnapshotsPrice(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := NewCartService(cartRepo, productRepo)
	product := seedProduct(t, productRepo, 30, 10)
	userID := uuid.New()

	cart, err := svc.AddItem(context.Background(), userID, product.ID.String(), 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(30)))

	// A later catalog price change must not touch the cart line.
	productRepo.products[product.ID].LastPrice = decimal.NewFromInt(50)

	cart, err = svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(30)))
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(60)))
}

func TestCartService_AddItem_MergesSameProduct(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := NewCartService(cartRepo, productRepo)
	product := seedProduct(t, productRepo, 30, 10)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, product.ID.String(), 2)
	require.NoError(t, err)
	cart, err := svc.AddItem(context.Background(), userID, product.ID.String(), 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartService_AddItem_StockBound(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := NewCartService(cartRepo, productRepo)
	product := seedProduct(t, productRepo, 30, 3)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, product.ID.String(), 2)
	require.NoError(t, err)

	// 2 already in the cart; another 2 would exceed the stock of 3.
	_, err = svc.AddItem(context.Background(), userID, product.ID.String(), 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	svc := NewCartService(newMockCartRepo(), newMockProductRepo())

	_, err := svc.AddItem(context.Background(), uuid.New(), "PRD9999", 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_UpdateItem(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := NewCartService(cartRepo, productRepo)
	product := seedProduct(t, productRepo, 30, 10)
	userID := uuid.New()

	cart, err := svc.AddItem(context.Background(), userID, product.ID.String(), 1)
	require.NoError(t, err)

	cart, err = svc.UpdateItem(context.Background(), userID, cart.Items[0].ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	_, err = svc.UpdateItem(context.Background(), userID, cart.Items[0].ID, 11)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestCartService_UpdateItem_OtherUsersItem(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := NewCartService(cartRepo, productRepo)
	product := seedProduct(t, productRepo, 30, 10)
	owner := uuid.New()

	cart, err := svc.AddItem(context.Background(), owner, product.ID.String(), 1)
	require.NoError(t, err)

	_, err = svc.UpdateItem(context.Background(), uuid.New(), cart.Items[0].ID, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_UpdateItem_ProductRemovedFromCatalog(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := NewCartService(cartRepo, productRepo)
	product := seedProduct(t, productRepo, 30, 10)
	userID := uuid.New()

	cart, err := svc.AddItem(context.Background(), userID, product.ID.String(), 1)
	require.NoError(t, err)

	delete(productRepo.products, product.ID)

	_, err = svc.UpdateItem(context.Background(), userID, cart.Items[0].ID, 3)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := NewCartService(cartRepo, productRepo)
	product := seedProduct(t, productRepo, 30, 10)
	userID := uuid.New()

	cart, err := svc.AddItem(context.Background(), userID, product.ID.String(), 1)
	require.NoError(t, err)

	cart, err = svc.RemoveItem(context.Background(), userID, cart.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_Clear(t *testing.T) {
	productRepo := newMockProductRepo()
	cartRepo := newMockCartRepo()
	svc := NewCartService(cartRepo, productRepo)
	product := seedProduct(t, productRepo, 30, 10)
	userID := uuid.New()

	_, err := svc.AddItem(context.Background(), userID, product.ID.String(), 2)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), userID))

	cart, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total().Equal(decimal.Zero))
}
