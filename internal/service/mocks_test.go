package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/repository"
)

// --- users ---

type mockUserRepo struct {
	users map[string]*model.User
	byID  map[uuid.UUID]*model.User
	notes []model.StatusNote
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), byID: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrDuplicate
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	m.users[user.Email] = user
	m.byID[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	return m.byID[id], nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.users[email], nil
}

func (m *mockUserRepo) List(_ context.Context, filter repository.UserFilter) ([]model.User, int, error) {
	var users []model.User
	for _, u := range m.byID {
		if u.Role == filter.Role && !u.IsDeleted {
			users = append(users, *u)
		}
	}
	return users, len(users), nil
}

func (m *mockUserRepo) Stats(_ context.Context, role string) (*repository.UserStats, error) {
	stats := &repository.UserStats{}
	for _, u := range m.byID {
		if u.Role != role || u.IsDeleted {
			continue
		}
		stats.Total++
		if u.IsBlocked {
			stats.Blocked++
		} else {
			stats.Active++
		}
		if u.IsSuperAdmin {
			stats.Super++
		}
	}
	return stats, nil
}

func (m *mockUserRepo) UpdateProfile(_ context.Context, user *model.User) error {
	stored, ok := m.byID[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, stored.Email)
	*stored = *user
	m.users[user.Email] = stored
	return nil
}

func (m *mockUserRepo) UpdateAdmin(_ context.Context, user *model.User) error {
	return m.UpdateProfile(context.Background(), user)
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Password = hash
	return nil
}

func (m *mockUserRepo) SetBlocked(_ context.Context, id uuid.UUID, blocked bool) error {
	u, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.IsBlocked = blocked
	return nil
}

func (m *mockUserRepo) AddStatusNote(_ context.Context, note *model.StatusNote) error {
	note.ID = uuid.New()
	m.notes = append(m.notes, *note)
	return nil
}

func (m *mockUserRepo) SetLastLogin(_ context.Context, id uuid.UUID) error {
	if u, ok := m.byID[id]; ok {
		now := time.Now()
		u.LastLogin = &now
	}
	return nil
}

func (m *mockUserRepo) SoftDelete(_ context.Context, id, deletedBy uuid.UUID) error {
	u, ok := m.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	u.IsDeleted = true
	u.DeletedAt = &now
	u.DeletedBy = &deletedBy
	return nil
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
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) GetBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range m.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]model.Product, int, error) {
	var products []model.Product
	for _, p := range m.products {
		if filter.Category != "" && filter.Category != model.CategoryAll && p.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}
		products = append(products, *p)
	}
	return products, len(products), nil
}

func (m *mockProductRepo) Featured(_ context.Context, limit int) ([]model.Product, error) {
	var products []model.Product
	for _, p := range m.products {
		if p.IsBestSeller || p.IsNew || p.Rating >= 4.5 {
			products = append(products, *p)
		}
		if len(products) == limit {
			break
		}
	}
	return products, nil
}

func (m *mockProductRepo) Categories(_ context.Context) ([]model.CategoryCount, error) {
	counts := map[string]int{}
	for _, p := range m.products {
		counts[p.Category]++
	}
	result := []model.CategoryCount{{Category: model.CategoryAll, Count: len(m.products)}}
	for cat, n := range counts {
		result = append(result, model.CategoryCount{Category: cat, Count: n})
	}
	return result, nil
}

func (m *mockProductRepo) Update(_ context.Context, product *model.Product) error {
	stored, ok := m.products[product.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	sku := stored.SKU
	*stored = *product
	stored.SKU = sku
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) SetRating(_ context.Context, id uuid.UUID, rating float64, reviewCount int) error {
	p, ok := m.products[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Rating = rating
	p.ReviewCount = reviewCount
	return nil
}

func (m *mockProductRepo) DecrementStock(_ context.Context, _ pgx.Tx, productID uuid.UUID, quantity int) error {
	p, ok := m.products[productID]
	if !ok || p.Stock < quantity {
		return pgx.ErrNoRows
	}
	p.Stock -= quantity
	return nil
}

// --- carts ---

type mockCartRepo struct {
	carts map[uuid.UUID]*model.Cart // keyed by user id
	items map[uuid.UUID]*model.CartItem
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[uuid.UUID]*model.Cart), items: make(map[uuid.UUID]*model.CartItem)}
}

func (m *mockCartRepo) GetOrCreate(_ context.Context, userID uuid.UUID) (*model.Cart, error) {
	if cart, ok := m.carts[userID]; ok {
		return &model.Cart{ID: cart.ID, UserID: cart.UserID}, nil
	}
	cart := &model.Cart{ID: uuid.New(), UserID: userID, CreatedAt: time.Now()}
	m.carts[userID] = cart
	return &model.Cart{ID: cart.ID, UserID: cart.UserID}, nil
}

func (m *mockCartRepo) GetWithItems(_ context.Context, cartID uuid.UUID) (*model.Cart, error) {
	for _, cart := range m.carts {
		if cart.ID == cartID {
			out := &model.Cart{ID: cart.ID, UserID: cart.UserID}
			for _, item := range m.items {
				if item.CartID == cartID {
					out.Items = append(out.Items, *item)
				}
			}
			return out, nil
		}
	}
	return nil, nil
}

func (m *mockCartRepo) AddItem(_ context.Context, item *model.CartItem) error {
	for _, existing := range m.items {
		if existing.CartID == item.CartID && existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			item.ID = existing.ID
			item.Quantity = existing.Quantity
			return nil
		}
	}
	item.ID = uuid.New()
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *mockCartRepo) GetItem(_ context.Context, itemID uuid.UUID) (*model.CartItem, error) {
	item, ok := m.items[itemID]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (m *mockCartRepo) UpdateItemQuantity(_ context.Context, itemID uuid.UUID, quantity int) error {
	item, ok := m.items[itemID]
	if !ok {
		return pgx.ErrNoRows
	}
	item.Quantity = quantity
	return nil
}

func (m *mockCartRepo) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	if _, ok := m.items[itemID]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.items, itemID)
	return nil
}

func (m *mockCartRepo) Clear(_ context.Context, cartID uuid.UUID) error {
	for id, item := range m.items {
		if item.CartID == cartID {
			delete(m.items, id)
		}
	}
	return nil
}

// --- orders ---

type mockOrderRepo struct {
	orders   map[uuid.UUID]*model.Order
	seq      int64
	cartRepo *mockCartRepo
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (m *mockOrderRepo) Place(_ context.Context, order *model.Order, clearCartID *uuid.UUID) error {
	m.seq++
	order.ID = uuid.New()
	order.Number = fmt.Sprintf("ORD%04d", m.seq)
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
	}
	cp := *order
	m.orders[order.ID] = &cp
	if clearCartID != nil && m.cartRepo != nil {
		_ = m.cartRepo.Clear(context.Background(), *clearCartID)
	}
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID uuid.UUID, email string) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		if o.UserID == userID || o.Email == email {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OrderStatus, notes *string, markPaid bool, paidAt *time.Time) error {
	o, ok := m.orders[id]
	if !ok {
		return pgx.ErrNoRows
	}
	o.Status = status
	if notes != nil {
		o.Notes = *notes
	}
	if markPaid {
		o.IsPaid = true
	}
	if o.PaidAt == nil {
		o.PaidAt = paidAt
	}
	o.UpdatedAt = time.Now()
	return nil
}

func (m *mockOrderRepo) BeginTx(_ context.Context) (pgx.Tx, error) { return nil, nil }

// --- reviews ---

type mockReviewRepo struct {
	reviews map[uuid.UUID]*model.Review
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
	review.CreatedAt = time.Now()
	cp := *review
	m.reviews[review.ID] = &cp
	return nil
}

func (m *mockReviewRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *mockReviewRepo) GetByProductAndEmail(_ context.Context, productID uuid.UUID, email string) (*model.Review, error) {
	for _, r := range m.reviews {
		if r.ProductID == productID && r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockReviewRepo) ListPublic(_ context.Context, productID uuid.UUID, limit, offset int) ([]model.Review, int, error) {
	var reviews []model.Review
	for _, r := range m.reviews {
		if r.ProductID == productID && r.Status == model.ReviewStatusApproved && !r.Hidden {
			reviews = append(reviews, *r)
		}
	}
	return reviews, len(reviews), nil
}

func (m *mockReviewRepo) Distribution(_ context.Context, productID uuid.UUID) (map[int]int, *repository.RatingAggregate, error) {
	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	agg := &repository.RatingAggregate{}
	sum := 0
	for _, r := range m.reviews {
		if r.ProductID == productID && r.Status == model.ReviewStatusApproved && !r.Hidden {
			dist[r.Rating]++
			sum += r.Rating
			agg.Count++
		}
	}
	if agg.Count > 0 {
		agg.Average = float64(sum) / float64(agg.Count)
	}
	return dist, agg, nil
}

func (m *mockReviewRepo) ListAdmin(_ context.Context, filter repository.ReviewFilter) ([]model.Review, int, error) {
	var reviews []model.Review
	for _, r := range m.reviews {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.ProductID != nil && r.ProductID != *filter.ProductID {
			continue
		}
		reviews = append(reviews, *r)
	}
	return reviews, len(reviews), nil
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

func (m *mockReviewRepo) AggregateApproved(_ context.Context, productID uuid.UUID) (*repository.RatingAggregate, error) {
	_, agg, _ := m.Distribution(context.Background(), productID)
	return agg, nil
}

// --- wishlist ---

type mockWishlistRepo struct {
	items    map[uuid.UUID]*model.WishlistItem
	products *mockProductRepo
}

func newMockWishlistRepo(products *mockProductRepo) *mockWishlistRepo {
	return &mockWishlistRepo{items: make(map[uuid.UUID]*model.WishlistItem), products: products}
}

func (m *mockWishlistRepo) List(_ context.Context, userID uuid.UUID) ([]model.WishlistEntry, error) {
	var entries []model.WishlistEntry
	for _, item := range m.items {
		if item.UserID != userID {
			continue
		}
		product, ok := m.products.products[item.ProductID]
		if !ok {
			continue
		}
		entries = append(entries, model.WishlistEntry{Item: *item, Product: *product})
	}
	return entries, nil
}

func (m *mockWishlistRepo) Add(_ context.Context, userID, productID uuid.UUID) error {
	for _, item := range m.items {
		if item.UserID == userID && item.ProductID == productID {
			return repository.ErrDuplicate
		}
	}
	id := uuid.New()
	m.items[id] = &model.WishlistItem{ID: id, UserID: userID, ProductID: productID, AddedAt: time.Now()}
	return nil
}

func (m *mockWishlistRepo) Remove(_ context.Context, userID, productID uuid.UUID) error {
	for id, item := range m.items {
		if item.UserID == userID && item.ProductID == productID {
			delete(m.items, id)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockWishlistRepo) Clear(_ context.Context, userID uuid.UUID) error {
	for id, item := range m.items {
		if item.UserID == userID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockWishlistRepo) Contains(_ context.Context, userID, productID uuid.UUID) (bool, error) {
	for _, item := range m.items {
		if item.UserID == userID && item.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockWishlistRepo) Count(_ context.Context, userID uuid.UUID) (int, error) {
	n := 0
	for _, item := range m.items {
		if item.UserID == userID {
			n++
		}
	}
	return n, nil
}
