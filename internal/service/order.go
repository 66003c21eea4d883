package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"github.com/glowmart/beauty-shop-api/internal/dto"
	"github.com/glowmart/beauty-shop-api/internal/model"
	"github.com/glowmart/beauty-shop-api/internal/repository"
)

var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAccessDenied     = errors.New("order access denied")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrInvalidDeliveryMethod = errors.New("invalid delivery method")
	ErrInvalidOrderStatus    = errors.New("invalid order status")
	ErrNegativeAmount        = errors.New("amount must not be negative")
)

type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	amqpCh      *amqp.Channel
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	amqpCh *amqp.Channel,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		amqpCh:      amqpCh,
	}
}

// Create places an order. Cash-on-delivery orders start unpaid in
// pending_payment; every other payment method is captured up front, so the
// order starts paid and goes straight to preparing. The buyer's cart is
// cleared in the same transaction that writes the order.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, email string, req dto.CreateOrderRequest) (*model.Order, error) {
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}
	if !model.ValidDeliveryMethod(req.DeliveryMethod) {
		return nil, ErrInvalidDeliveryMethod
	}
	for _, amount := range []decimal.Decimal{req.Subtotal, req.Shipping, req.Tax, req.Discount, req.CODFee, req.Total} {
		if amount.IsNegative() {
			return nil, ErrNegativeAmount
		}
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, err := resolveProduct(ctx, s.productRepo, line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.Quantity > product.Stock {
			return nil, ErrInsufficientStock
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Name:      product.DisplayName,
			Image:     image,
			Quantity:  line.Quantity,
			Price:     product.LastPrice,
		})
	}

	codFee := req.CODFee
	if req.PaymentMethod != model.PaymentMethodCOD {
		codFee = decimal.Zero
	}

	order := &model.Order{
		UserID: userID,
		Email:  email,
		Items:  items,
		Shipping: model.ShippingInfo{
			FirstName: req.ShippingInfo.FirstName,
			LastName:  req.ShippingInfo.LastName,
			Email:     req.ShippingInfo.Email,
			Phone:     req.ShippingInfo.Phone,
			Address:   req.ShippingInfo.Address,
			Apartment: req.ShippingInfo.Apartment,
			City:      req.ShippingInfo.City,
			State:     req.ShippingInfo.State,
			ZipCode:   req.ShippingInfo.ZipCode,
			Country:   req.ShippingInfo.Country,
		},
		PaymentMethod:  req.PaymentMethod,
		DeliveryMethod: req.DeliveryMethod,
		Subtotal:       req.Subtotal,
		ShippingFee:    req.Shipping,
		Tax:            req.Tax,
		Discount:       req.Discount,
		CODFee:         codFee,
		Total:          req.Total,
		Notes:          req.OrderNotes,
		GiftMessage:    req.GiftMessage,
	}

	if req.PaymentMethod == model.PaymentMethodCOD {
		order.Status = model.OrderStatusPendingPayment
		order.IsPaid = false
	} else {
		order.Status = model.OrderStatusPreparing
		order.IsPaid = true
		now := time.Now()
		order.PaidAt = &now
	}

	var clearCartID *uuid.UUID
	if cart, err := s.cartRepo.GetOrCreate(ctx, userID); err == nil {
		clearCartID = &cart.ID
	}

	if err := s.orderRepo.Place(ctx, order, clearCartID); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.publishPlaced(ctx, order)
	return order, nil
}

// publishPlaced hands the order to the fulfilment queue. A publish failure
// is logged by the caller's middleware via the request log; the order itself
// is already committed.
func (s *OrderService) publishPlaced(ctx context.Context, order *model.Order) {
	if s.amqpCh == nil {
		return
	}
	body, err := json.Marshal(model.OrderPlacedMessage{OrderID: order.ID, UserID: order.UserID})
	if err != nil {
		return
	}
	_ = s.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
}

// Quote prices a basket server-side: the effective selling price per line
// plus the label price for showing savings. No order is created.
func (s *OrderService) Quote(ctx context.Context, req dto.QuoteRequest) (*dto.QuoteResponse, error) {
	resp := &dto.QuoteResponse{
		Items:      make([]dto.QuoteItemResponse, 0, len(req.Items)),
		Total:      decimal.Zero,
		LabelTotal: decimal.Zero,
	}
	for _, line := range req.Items {
		product, err := resolveProduct(ctx, s.productRepo, line.ProductID)
		if err != nil {
			return nil, err
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		resp.Items = append(resp.Items, dto.QuoteItemResponse{
			ProductID:  product.ID,
			Name:       product.DisplayName,
			Image:      image,
			Quantity:   qty,
			Price:      product.LastPrice,
			LabelPrice: product.Price,
		})
		n := decimal.NewFromInt(int64(qty))
		resp.Total = resp.Total.Add(product.LastPrice.Mul(n))
		resp.LabelTotal = resp.LabelTotal.Add(product.Price.Mul(n))
	}
	return resp, nil
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID, userID uuid.UUID, email string, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isAdmin && order.UserID != userID && order.Email != email {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, email string) ([]model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID, email)
}

func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// UpdateStatus moves an order through its lifecycle. Two transitions settle
// payment as a side effect: delivered always implies paid, and moving an
// unpaid cash-on-delivery order to preparing records the cash collection.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, notes string) (*model.Order, error) {
	if !model.ValidOrderStatus(status) {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	markPaid := false
	switch {
	case status == model.OrderStatusDelivered && !order.IsPaid:
		markPaid = true
	case status == model.OrderStatusPreparing && order.PaymentMethod == model.PaymentMethodCOD && !order.IsPaid:
		markPaid = true
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}
	var paidAt *time.Time
	if markPaid {
		now := time.Now()
		paidAt = &now
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status, notesPtr, markPaid, paidAt); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	return s.orderRepo.GetByID(ctx, id)
}

// MarkPaid settles payment out of band (the courier collected cash) and
// releases the order into preparing.
func (s *OrderService) MarkPaid(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	if err := s.orderRepo.UpdateStatus(ctx, id, model.OrderStatusPreparing, nil, true, &now); err != nil {
		return nil, fmt.Errorf("mark paid: %w", err)
	}
	return s.orderRepo.GetByID(ctx, id)
}
