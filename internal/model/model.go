package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Accounts ---

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
)

// AdminPermissions is the closed set of grantable admin capabilities.
var AdminPermissions = []string{
	"manage_products",
	"manage_orders",
	"manage_customers",
	"manage_admins",
	"manage_reviews",
	"view_analytics",
	"manage_settings",
	"manage_promotions",
	"manage_categories",
}

type User struct {
	ID           uuid.UUID
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Role         string
	ProfilePic   string
	IsBlocked    bool
	IsSuperAdmin bool
	Permissions  []string
	CreatedBy    *uuid.UUID
	LastLogin    *time.Time
	IsDeleted    bool
	DeletedAt    *time.Time
	DeletedBy    *uuid.UUID
	StatusNotes  []StatusNote
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StatusNote is one entry in an account's block/unblock audit trail.
type StatusNote struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Date        time.Time
	Action      string
	Reason      string
	PerformedBy uuid.UUID
}

// --- Catalog ---

const (
	CategoryPerfumes = "perfumes"
	CategorySkincare = "skincare"
	CategoryMakeup   = "makeup"
	CategoryTools    = "tools"
	CategoryAll      = "all"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryPerfumes, CategorySkincare, CategoryMakeup, CategoryTools, CategoryAll:
		return true
	}
	return false
}

type Product struct {
	ID            uuid.UUID
	SKU           string // human-readable sequential id (PRD0001), immutable
	Name          string
	DisplayName   string
	Category      string
	Description   string
	Details       string
	Images        []string
	Price         decimal.Decimal // list price
	OriginalPrice *decimal.Decimal
	LastPrice     decimal.Decimal // effective selling price
	Stock         int
	Rating        float64 // derived from approved, visible reviews
	ReviewCount   int
	IsNew         bool
	IsBestSeller  bool
	Features      []string
	Benefits      []string
	SkinTypes     []string
	ScentFamily   []string
	Tags          []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CategoryCount struct {
	Category string
	Count    int
}

// --- Cart ---

type Cart struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is a snapshot of the product at add-time plus a quantity.
type CartItem struct {
	ID            uuid.UUID
	CartID        uuid.UUID
	ProductID     uuid.UUID
	Quantity      int
	Price         decimal.Decimal
	Name          string
	Image         string
	Category      string
	OriginalPrice *decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Total is always recomputed from the items, never stored.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// --- Orders ---

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusRefunded       OrderStatus = "refunded"
)

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPendingPayment, OrderStatusPreparing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

const (
	PaymentMethodCard   = "card"
	PaymentMethodPaypal = "paypal"
	PaymentMethodCOD    = "cod"
)

func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCard || m == PaymentMethodPaypal || m == PaymentMethodCOD
}

const (
	DeliveryStandard  = "standard"
	DeliveryExpress   = "express"
	DeliveryOvernight = "overnight"
	DeliveryFree      = "free"
)

func ValidDeliveryMethod(m string) bool {
	switch m {
	case DeliveryStandard, DeliveryExpress, DeliveryOvernight, DeliveryFree:
		return true
	}
	return false
}

type ShippingInfo struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	Apartment string
	City      string
	State     string
	ZipCode   string
	Country   string
}

type Order struct {
	ID             uuid.UUID
	Number         string // human-readable sequential id (ORD0001)
	UserID         uuid.UUID
	Email          string
	Items          []OrderItem
	Shipping       ShippingInfo
	PaymentMethod  string
	DeliveryMethod string
	Subtotal       decimal.Decimal
	ShippingFee    decimal.Decimal
	Tax            decimal.Decimal
	Discount       decimal.Decimal
	CODFee         decimal.Decimal
	Total          decimal.Decimal
	Status         OrderStatus
	Notes          string
	GiftMessage    string
	IsPaid         bool
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OrderItem is copied from the catalog at order time, not a live reference.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	Image     string
	Quantity  int
	Price     decimal.Decimal
}

// OrderPlacedMessage is published to the fulfilment queue after checkout.
type OrderPlacedMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}

// --- Reviews ---

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

func ValidReviewStatus(s ReviewStatus) bool {
	return s == ReviewStatusPending || s == ReviewStatusApproved || s == ReviewStatusRejected
}

// Review is unique per (product, email). Hidden is orthogonal to Status;
// only approved and not hidden reviews count towards the product rating.
type Review struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	Email        string
	UserName     string
	Body         string
	Rating       int
	Status       ReviewStatus
	Hidden       bool
	AdminComment string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// --- Wishlist ---

type WishlistItem struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	AddedAt   time.Time
}

// WishlistEntry is a wishlist item resolved against the live product record.
type WishlistEntry struct {
	Item    WishlistItem
	Product Product
}
