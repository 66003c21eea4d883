package handler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/repository"
)

const testSecret = "handler-test-secret"

func signTestToken(t *testing.T, user *model.User) string {
	t.Helper()
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     user.ID.String(),
		"email":   user.Email,
		"name":    user.FirstName + " " + user.LastName,
		"role":    user.Role,
		"blocked": user.IsBlocked,
		"exp":     now.Add(time.Hour).Unix(),
		"iat":     now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// --- products ---

type mockProductRepo struct {
	products map[uuid.UUID]*model.Product
	seq      int64
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, product *model.Product) error {
	m.seq++
	product.ID = uuid.New()
	product.SKU = fmt.Sprintf("PRD%04d", m.seq)
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	return m.products[id], nil
}

func (m *mockProductRepo) GetBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range m.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockProductRepo) List(_ context.Context, _ repository.ProductFilter) ([]model.Product, int, error) {
	var out []model.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockProductRepo) Featured(_ context.Context, _ int) ([]model.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) Categories(_ context.Context) ([]model.CategoryCount, error) {
	return nil, nil
}

func (m *mockProductRepo) Update(_ context.Context, product *model.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) SetRating(_ context.Context, id uuid.UUID, rating float64, reviewCount int) error {
	if p, ok := m.products[id]; ok {
		p.Rating = rating
		p.ReviewCount = reviewCount
	}
	return nil
}

func (m *mockProductRepo) DecrementStock(_ context.Context, _ pgx.Tx, _ uuid.UUID, _ int) error {
	return nil
}

// --- reviews ---

type mockReviewRepo struct {
	reviews map[uuid.UUID]*model.Review

	lastPublicLimit  int
	lastPublicOffset int
}

func newMockReviewRepo() *mockReviewRepo {
	return &mockReviewRepo{reviews: make(map[uuid.UUID]*model.Review)}
}

func (m *mockReviewRepo) Create(_ context.Context, review *model.Review) error {
	for _, r := range m.reviews {
		if r.ProductID == review.ProductID && r.Email == review.Email {
			return repository.ErrDuplicate
		}
	}
	review.ID = uuid.New()
	m.reviews[review.ID] = review
	return nil
}

func (m *mockReviewRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	return m.reviews[id], nil
}

func (m *mockReviewRepo) GetByProductAndEmail(_ context.Context, productID uuid.UUID, email string) (*model.Review, error) {
	for _, r := range m.reviews {
		if r.ProductID == productID && r.Email == email {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockReviewRepo) public(productID uuid.UUID) []model.Review {
	var out []model.Review
	for _, r := range m.reviews {
		if r.ProductID == productID && r.Status == model.ReviewStatusApproved && !r.Hidden {
			out = append(out, *r)
		}
	}
	return out
}

func (m *mockReviewRepo) ListPublic(_ context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, int, error) {
	m.lastPublicLimit = limit
	m.lastPublicOffset = offset
	out := m.public(productID)
	return out, len(out), nil
}

func (m *mockReviewRepo) Distribution(_ context.Context, productID uuid.UUID) (map[int]int, *repository.RatingAggregate, error) {
	dist := make(map[int]int)
	agg := &repository.RatingAggregate{}
	sum := 0
	for _, r := range m.public(productID) {
		dist[r.Rating]++
		agg.Count++
		sum += r.Rating
	}
	if agg.Count > 0 {
		agg.Average = float64(sum) / float64(agg.Count)
	}
	return dist, agg, nil
}

func (m *mockReviewRepo) ListAdmin(_ context.Context, _ repository.ReviewFilter) ([]model.Review, int, error) {
	var out []model.Review
	for _, r := range m.reviews {
		out = append(out, *r)
	}
	return out, len(out), nil
}

func (m *mockReviewRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.ReviewStatus, adminComment *string) error {
	r, ok := m.reviews[id]
	if !ok {
		return pgx.ErrNoRows
	}
	r.Status = status
	if adminComment != nil {
		r.AdminComment = *adminComment
	}
	return nil
}

func (m *mockReviewRepo) SetHidden(_ context.Context, id uuid.UUID, hidden bool) error {
	r, ok := m.reviews[id]
	if !ok {
		return pgx.ErrNoRows
	}
	r.Hidden = hidden
	return nil
}

func (m *mockReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.reviews[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.reviews, id)
	return nil
}

func (m *mockReviewRepo) AggregateApproved(ctx context.Context, productID uuid.UUID) (*repository.RatingAggregate, error) {
	_, agg, err := m.Distribution(ctx, productID)
	return agg, err
}

// --- users ---

type mockUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) add(user *model.User) *model.User {
	user.ID = uuid.New()
	m.users[user.ID] = user
	return user
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	m.add(user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter) ([]model.User, int, error) {
	var out []model.User
	for _, u := range m.users {
		if u.Role == filter.Role && !u.IsDeleted {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

func (m *mockUserRepo) Stats(_ context.Context, _ string) (*repository.UserStats, error) {
	return &repository.UserStats{}, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) UpdateAdmin(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}

func (m *mockUserRepo) SetBlocked(_ context.Context, id uuid.UUID, blocked bool) error {
	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.IsBlocked = blocked
	return nil
}

func (m *mockUserRepo) AddStatusNote(_ context.Context, note *model.StatusNote) error {
	note.ID = uuid.New()
	return nil
}

func (m *mockUserRepo) SetLastLogin(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (m *mockUserRepo) SoftDelete(_ context.Context, id, deletedBy uuid.UUID) error {
	u, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.IsDeleted = true
	u.DeletedBy = &deletedBy
	return nil
}
