package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowmart/beauty-shop-api/internal/model"
)

// --- Envelope ---

// Every payload embeds Envelope so responses uniformly carry
// success and message.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNextPage"`
	HasPrev    bool `json:"hasPrevPage"`
}

// --- Auth ---

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Envelope
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Role         string     `json:"role"`
	ProfilePic   string     `json:"profilePic,omitempty"`
	IsBlocked    bool       `json:"isBlocked"`
	IsSuperAdmin bool       `json:"isSuperAdmin,omitempty"`
	Permissions  []string   `json:"permissions,omitempty"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func ToUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		ProfilePic:   u.ProfilePic,
		IsBlocked:    u.IsBlocked,
		IsSuperAdmin: u.IsSuperAdmin,
		Permissions:  u.Permissions,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt,
	}
}

// --- Users ---

type UpdateProfileRequest struct {
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	ProfilePic string `json:"profilePic"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type CreateAdminRequest struct {
	Email        string   `json:"email" binding:"required,email"`
	Password     string   `json:"password" binding:"required"`
	FirstName    string   `json:"firstName" binding:"required"`
	LastName     string   `json:"lastName" binding:"required"`
	Permissions  []string `json:"permissions"`
	IsSuperAdmin bool     `json:"isSuperAdmin"`
}

type UpdateAdminRequest struct {
	FirstName    *string   `json:"firstName"`
	LastName     *string   `json:"lastName"`
	Email        *string   `json:"email"`
	Permissions  *[]string `json:"permissions"`
	IsSuperAdmin *bool     `json:"isSuperAdmin"`
}

type UpdateStatusRequest struct {
	IsBlocked *bool  `json:"isBlocked" binding:"required"`
	Reason    string `json:"reason"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required"`
}

type ListUsersRequest struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
	Search string `form:"search"`
	Status string `form:"status,default=all" binding:"oneof=all active blocked"`
}

type UserStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Blocked int `json:"blocked"`
	Super   int `json:"superAdmins,omitempty"`
}

type UserListResponse struct {
	Envelope
	Users      []UserResponse `json:"users"`
	Pagination Pagination     `json:"pagination"`
	Stats      UserStats      `json:"stats"`
}

// --- Products ---

type CreateProductRequest struct {
	Name          string           `json:"productName" binding:"required"`
	DisplayName   string           `json:"name"`
	Category      string           `json:"category" binding:"required"`
	Description   string           `json:"description" binding:"required"`
	Details       string           `json:"detailedDescription"`
	Images        []string         `json:"images"`
	Price         decimal.Decimal  `json:"price" binding:"required"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	LastPrice     *decimal.Decimal `json:"lastPrice"`
	Stock         int              `json:"stock" binding:"min=0"`
	IsNew         bool             `json:"isNew"`
	IsBestSeller  bool             `json:"isBestSeller"`
	Features      []string         `json:"features"`
	Benefits      []string         `json:"benefits"`
	SkinTypes     []string         `json:"skinType"`
	ScentFamily   []string         `json:"scentFamily"`
	Tags          []string         `json:"tags"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"productName"`
	DisplayName   *string          `json:"name"`
	Category      *string          `json:"category"`
	Description   *string          `json:"description"`
	Details       *string          `json:"detailedDescription"`
	Images        *[]string        `json:"images"`
	Price         *decimal.Decimal `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice"`
	LastPrice     *decimal.Decimal `json:"lastPrice"`
	Stock         *int             `json:"stock"`
	IsNew         *bool            `json:"isNew"`
	IsBestSeller  *bool            `json:"isBestSeller"`
	Features      *[]string        `json:"features"`
	Benefits      *[]string        `json:"benefits"`
	SkinTypes     *[]string        `json:"skinType"`
	ScentFamily   *[]string        `json:"scentFamily"`
	Tags          *[]string        `json:"tags"`
}

type ListProductsRequest struct {
	Page         int      `form:"page" binding:"omitempty,min=1"`
	Limit        int      `form:"limit" binding:"omitempty,min=1"`
	Category     string   `form:"category"`
	Search       string   `form:"search"`
	MinPrice     *float64 `form:"minPrice"`
	MaxPrice     *float64 `form:"maxPrice"`
	Benefits     string   `form:"benefits"`
	SkinType     string   `form:"skinType"`
	ScentFamily  string   `form:"scentFamily"`
	IsNew        *bool    `form:"isNew"`
	IsBestSeller *bool    `form:"isBestSeller"`
	SortBy       string   `form:"sortBy,default=newest"`
	SortOrder    string   `form:"sortOrder,default=desc" binding:"oneof=asc desc"`
}

type ProductResponse struct {
	ID            uuid.UUID        `json:"id"`
	SKU           string           `json:"productId"`
	Name          string           `json:"productName"`
	DisplayName   string           `json:"name"`
	Category      string           `json:"category"`
	Description   string           `json:"description"`
	Details       string           `json:"detailedDescription,omitempty"`
	Images        []string         `json:"images"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	LastPrice     decimal.Decimal  `json:"lastPrice"`
	Stock         int              `json:"stock"`
	Rating        float64          `json:"rating"`
	ReviewCount   int              `json:"reviewCount"`
	IsNew         bool             `json:"isNew"`
	IsBestSeller  bool             `json:"isBestSeller"`
	Features      []string         `json:"features,omitempty"`
	Benefits      []string         `json:"benefits,omitempty"`
	SkinTypes     []string         `json:"skinType,omitempty"`
	ScentFamily   []string         `json:"scentFamily,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func ToProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		DisplayName:   p.DisplayName,
		Category:      p.Category,
		Description:   p.Description,
		Details:       p.Details,
		Images:        p.Images,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		LastPrice:     p.LastPrice,
		Stock:         p.Stock,
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
		IsNew:         p.IsNew,
		IsBestSeller:  p.IsBestSeller,
		Features:      p.Features,
		Benefits:      p.Benefits,
		SkinTypes:     p.SkinTypes,
		ScentFamily:   p.ScentFamily,
		Tags:          p.Tags,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type ProductListResponse struct {
	Envelope
	Products   []ProductResponse `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

type CategoryCountResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// --- Cart ---

type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity,default=1" binding:"min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartItemResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProductID     uuid.UUID        `json:"productId"`
	Name          string           `json:"name"`
	Image         string           `json:"image"`
	Category      string           `json:"category,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Quantity      int              `json:"quantity"`
}

type CartResponse struct {
	Envelope
	ID        uuid.UUID          `json:"id"`
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"itemCount"`
	Total     decimal.Decimal    `json:"total"`
}

func ToCartResponse(c *model.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Name:          item.Name,
			Image:         item.Image,
			Category:      item.Category,
			Price:         item.Price,
			OriginalPrice: item.OriginalPrice,
			Quantity:      item.Quantity,
		})
	}
	return CartResponse{ID: c.ID, Items: items, ItemCount: c.ItemCount(), Total: c.Total()}
}

// --- Orders ---

type ShippingInfoRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Address   string `json:"address" binding:"required"`
	Apartment string `json:"apartment"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	ZipCode   string `json:"zipCode" binding:"required"`
	Country   string `json:"country"`
}

type OrderItemRequest struct {
	ProductID string           `json:"productId" binding:"required"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	Name      string           `json:"name"`
	Image     string           `json:"image"`
	Price     *decimal.Decimal `json:"price"`
}

type CreateOrderRequest struct {
	ShippingInfo   ShippingInfoRequest `json:"shippingInfo" binding:"required"`
	Items          []OrderItemRequest  `json:"items" binding:"required,min=1,dive"`
	PaymentMethod  string              `json:"paymentMethod" binding:"required"`
	DeliveryMethod string              `json:"deliveryMethod" binding:"required"`
	GiftMessage    string              `json:"giftMessage"`
	OrderNotes     string              `json:"orderNotes"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	Shipping       decimal.Decimal     `json:"shipping"`
	Tax            decimal.Decimal     `json:"tax"`
	Discount       decimal.Decimal     `json:"discount"`
	CODFee         decimal.Decimal     `json:"codFee"`
	Total          decimal.Decimal     `json:"total"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	Number         string              `json:"orderId"`
	Email          string              `json:"email"`
	Items          []OrderItemResponse `json:"orderedItems"`
	ShippingInfo   ShippingInfoRequest `json:"shippingInfo"`
	PaymentMethod  string              `json:"paymentMethod"`
	DeliveryMethod string              `json:"deliveryMethod"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	Shipping       decimal.Decimal     `json:"shipping"`
	Tax            decimal.Decimal     `json:"tax"`
	Discount       decimal.Decimal     `json:"discount"`
	CODFee         decimal.Decimal     `json:"codFee"`
	Total          decimal.Decimal     `json:"total"`
	Status         model.OrderStatus   `json:"status"`
	Notes          string              `json:"notes,omitempty"`
	GiftMessage    string              `json:"giftMessage,omitempty"`
	IsPaid         bool                `json:"isPaid"`
	PaidAt         *time.Time          `json:"paidAt,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func ToOrderResponse(o *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return OrderResponse{
		ID:     o.ID,
		Number: o.Number,
		Email:  o.Email,
		Items:  items,
		ShippingInfo: ShippingInfoRequest{
			FirstName: o.Shipping.FirstName,
			LastName:  o.Shipping.LastName,
			Email:     o.Shipping.Email,
			Phone:     o.Shipping.Phone,
			Address:   o.Shipping.Address,
			Apartment: o.Shipping.Apartment,
			City:      o.Shipping.City,
			State:     o.Shipping.State,
			ZipCode:   o.Shipping.ZipCode,
			Country:   o.Shipping.Country,
		},
		PaymentMethod:  o.PaymentMethod,
		DeliveryMethod: o.DeliveryMethod,
		Subtotal:       o.Subtotal,
		Shipping:       o.ShippingFee,
		Tax:            o.Tax,
		Discount:       o.Discount,
		CODFee:         o.CODFee,
		Total:          o.Total,
		Status:         o.Status,
		Notes:          o.Notes,
		GiftMessage:    o.GiftMessage,
		IsPaid:         o.IsPaid,
		PaidAt:         o.PaidAt,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

type OrderListResponse struct {
	Envelope
	Count  int             `json:"count"`
	Orders []OrderResponse `json:"orders"`
}

// --- Quote ---

type QuoteRequest struct {
	Items []QuoteItemRequest `json:"items" binding:"required,min=1,dive"`
}

type QuoteItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"min=0"`
}

type QuoteItemResponse struct {
	ProductID  uuid.UUID       `json:"productId"`
	Name       string          `json:"name"`
	Image      string          `json:"image"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	LabelPrice decimal.Decimal `json:"labelPrice"`
}

type QuoteResponse struct {
	Envelope
	Items      []QuoteItemResponse `json:"orderedItems"`
	Total      decimal.Decimal     `json:"total"`
	LabelTotal decimal.Decimal     `json:"labelTotal"`
}

// --- Reviews ---

type SubmitReviewRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Review   string `json:"review" binding:"required"`
	UserName string `json:"userName"`
}

type UpdateReviewStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	AdminComment string `json:"adminComment"`
}

type SetReviewVisibilityRequest struct {
	Hidden *bool `json:"hidden" binding:"required"`
}

type ListReviewsRequest struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

type AdminListReviewsRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1"`
	Status    string `form:"status"`
	ProductID string `form:"productId"`
	Search    string `form:"search"`
}

type ReviewResponse struct {
	ID           uuid.UUID          `json:"id"`
	ProductID    uuid.UUID          `json:"productId"`
	Email        string             `json:"email,omitempty"`
	UserName     string             `json:"userName"`
	Review       string             `json:"review"`
	Rating       int                `json:"rating"`
	Status       model.ReviewStatus `json:"status,omitempty"`
	Hidden       *bool              `json:"hidden,omitempty"`
	AdminComment string             `json:"adminComment,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// ToReviewResponse renders a review for admin consumers; moderation
// fields are included.
func ToReviewResponse(r *model.Review) ReviewResponse {
	hidden := r.Hidden
	return ReviewResponse{
		ID:           r.ID,
		ProductID:    r.ProductID,
		Email:        r.Email,
		UserName:     r.UserName,
		Review:       r.Body,
		Rating:       r.Rating,
		Status:       r.Status,
		Hidden:       &hidden,
		AdminComment: r.AdminComment,
		CreatedAt:    r.CreatedAt,
	}
}

// ToPublicReviewResponse omits moderation fields and the reviewer's email.
func ToPublicReviewResponse(r *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserName:  r.UserName,
		Review:    r.Body,
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt,
	}
}

type ReviewListResponse struct {
	Envelope
	Reviews            []ReviewResponse `json:"reviews"`
	Pagination         Pagination       `json:"pagination"`
	RatingDistribution map[int]int      `json:"ratingDistribution,omitempty"`
	AverageRating      float64          `json:"averageRating,omitempty"`
	TotalReviews       int              `json:"totalReviews,omitempty"`
}

// --- Wishlist ---

type AddWishlistItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type WishlistEntryResponse struct {
	Product ProductResponse `json:"product"`
	AddedAt time.Time       `json:"addedAt"`
}

type WishlistResponse struct {
	Envelope
	Items []WishlistEntryResponse `json:"items"`
}
