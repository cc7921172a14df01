package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/storefront/internal/domain/aggregate"
	"github.com/example/storefront/internal/domain/lineset"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateType = "Order"

// EditWindow is the period after placement during which an order's products
// may be edited and the order cancelled.
const EditWindow = 48 * time.Hour

type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "Pending"
	StatusInTransit DeliveryStatus = "In Transit"
	StatusDelivered DeliveryStatus = "Delivered"
	StatusCancelled DeliveryStatus = "Cancelled"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPending PaymentStatus = "Pending"
	PaymentFailed  PaymentStatus = "Failed"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyOrder        = errors.New("order must have at least one product")
	ErrEditWindowClosed  = errors.New("order changes are only allowed within 2 days of purchase")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrProductNotInOrder = errors.New("product is not part of the order")
	ErrInvalidStatus     = errors.New("invalid delivery status transition")
)

// validTransitions defines the allowed delivery status moves.
var validTransitions = map[DeliveryStatus][]DeliveryStatus{
	StatusPending:   {StatusInTransit, StatusDelivered, StatusCancelled},
	StatusInTransit: {StatusDelivered, StatusCancelled},
	StatusDelivered: {}, // terminal
	StatusCancelled: {}, // terminal
}

// Address is a shipping address.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// Product is a line within an order. TotalPrice is always price times
// quantity; WithQuantity keeps it in sync on edits.
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Thumbnail  string          `json:"thumbnail"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func (p Product) LineID() string    { return p.ID }
func (p Product) LineQuantity() int { return p.Quantity }
func (p Product) WithQuantity(n int) Product {
	p.Quantity = n
	p.TotalPrice = p.Price.Mul(decimal.NewFromInt(int64(n)))
	return p
}

// Order is the order state container. Orders are created externally to the
// storefront core; locally only delivery status and product quantities
// change, and only within the edit window.
type Order struct {
	ID                string                        `json:"id"`
	UserID            string                        `json:"user_id"`
	OrderDate         time.Time                     `json:"order_date"`
	EstimatedDelivery time.Time                     `json:"estimated_delivery"`
	ShippingAddress   Address                       `json:"shipping_address"`
	DeliveryStatus    DeliveryStatus                `json:"delivery_status"`
	Products          *lineset.Set[string, Product] `json:"products"`
	PaymentMethod     string                        `json:"payment_method"`
	PaymentStatus     PaymentStatus                 `json:"payment_status"`
	TotalAmount       decimal.Decimal               `json:"total_amount"`
	Version           int                           `json:"version"`
}

func NewOrder() *Order {
	return &Order{Products: lineset.New[string, Product]()}
}

func (o *Order) GetID() string   { return o.ID }
func (o *Order) GetVersion() int { return o.Version }

// CanEdit reports whether local changes are still allowed: within the edit
// window and not in a terminal status.
func (o *Order) CanEdit(now time.Time) bool {
	if o.DeliveryStatus == StatusDelivered || o.DeliveryStatus == StatusCancelled {
		return false
	}
	return now.Sub(o.OrderDate) <= EditWindow
}

// CanTransitionTo checks a delivery status move.
func (o *Order) CanTransitionTo(target DeliveryStatus) bool {
	allowed, exists := validTransitions[o.DeliveryStatus]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

func (o *Order) ensureProducts() {
	if o.Products == nil {
		o.Products = lineset.New[string, Product]()
	}
}

// recomputeTotal sets TotalAmount to the exact sum of line totals.
func (o *Order) recomputeTotal() {
	total := decimal.Zero
	for _, p := range o.Products.Lines() {
		total = total.Add(p.TotalPrice)
	}
	o.TotalAmount = total
}

// ApplyEvent reduces a single event into the order state.
func (o *Order) ApplyEvent(event store.Event) error {
	o.ensureProducts()

	switch event.EventType {
	case EventOrderPlaced:
		var data OrderPlaced
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.ID = data.OrderID
		o.UserID = data.UserID
		o.OrderDate = data.PlacedAt
		o.EstimatedDelivery = data.EstimatedDelivery
		o.ShippingAddress = data.ShippingAddress
		o.DeliveryStatus = StatusPending
		o.PaymentMethod = data.PaymentMethod
		o.PaymentStatus = data.PaymentStatus
		o.Products = lineset.New[string, Product]()
		for _, p := range data.Products {
			o.Products.UpsertIncrement(p)
			if err := o.Products.SetQuantity(p.ID, p.Quantity); err != nil {
				return err
			}
		}
		o.recomputeTotal()

	case EventProductQuantityChanged:
		var data OrderProductQuantityChanged
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if err := o.Products.SetQuantity(data.ProductID, data.Quantity); err != nil {
			return err
		}
		o.recomputeTotal()

	case EventOrderCancelled:
		var data OrderCancelled
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.DeliveryStatus = StatusCancelled

	case EventDeliveryStatusUpdated:
		var data OrderDeliveryStatusUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.DeliveryStatus = data.Status
	}
	o.Version = event.Version
	return nil
}

// Service exposes order placement and the bounded local edit flow.
type Service struct {
	eventStore store.EventStoreInterface
	now        func() time.Time
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es, now: time.Now}
}

// WithClock overrides the service clock; tests use this to move around the
// edit window.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) load(ctx context.Context, orderID string) (*Order, error) {
	o, found, err := aggregate.Load(ctx, s.eventStore, orderID, NewOrder)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

// Get returns the current order state.
func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.load(ctx, orderID)
}

// Place records a new order. Product line totals and the order total are
// computed here; the estimated delivery defaults to five days out.
func (s *Service) Place(ctx context.Context, userID string, products []Product, address Address, paymentMethod string, paymentStatus PaymentStatus) (*Order, error) {
	if len(products) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, p := range products {
		if p.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	orderID := "ORD-" + uuid.New().String()
	placedAt := s.now()

	total := decimal.Zero
	lines := make([]Product, 0, len(products))
	for _, p := range products {
		line := p.WithQuantity(p.Quantity) // normalizes TotalPrice
		lines = append(lines, line)
		total = total.Add(line.TotalPrice)
	}

	event := OrderPlaced{
		OrderID:           orderID,
		UserID:            userID,
		Products:          lines,
		ShippingAddress:   address,
		PaymentMethod:     paymentMethod,
		PaymentStatus:     paymentStatus,
		TotalAmount:       total,
		EstimatedDelivery: placedAt.Add(5 * 24 * time.Hour),
		PlacedAt:          placedAt,
	}

	storedEvent, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderPlaced, event)
	if err != nil {
		return nil, err
	}

	o := NewOrder()
	if storedEvent != nil {
		if err := o.ApplyEvent(*storedEvent); err != nil {
			return nil, err
		}
	}

	if err := aggregate.MaybeSnapshot(ctx, s.eventStore, o, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", o.ID, err)
	}
	return o, nil
}

// ChangeProductQuantity edits a product line within the edit window. The
// line total and order total are recomputed; rejected edits leave the order
// untouched.
func (s *Service) ChangeProductQuantity(ctx context.Context, orderID, productID string, quantity int) error {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	if !o.CanEdit(s.now()) {
		return ErrEditWindowClosed
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if _, ok := o.Products.Get(productID); !ok {
		return ErrProductNotInOrder
	}

	event := OrderProductQuantityChanged{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		ChangedAt: s.now(),
	}
	return s.append(ctx, o, EventProductQuantityChanged, event)
}

// Cancel cancels the order, guarded by the same edit window as quantity
// edits.
func (s *Service) Cancel(ctx context.Context, orderID, reason string) error {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	if !o.CanEdit(s.now()) {
		return ErrEditWindowClosed
	}

	event := OrderCancelled{
		OrderID:     orderID,
		Reason:      reason,
		CancelledAt: s.now(),
	}
	return s.append(ctx, o, EventOrderCancelled, event)
}

// UpdateDeliveryStatus records a carrier-side status change. These are
// external facts, so the edit window does not apply, but terminal statuses
// stay terminal.
func (s *Service) UpdateDeliveryStatus(ctx context.Context, orderID string, status DeliveryStatus) error {
	o, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	if !o.CanTransitionTo(status) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidStatus, o.DeliveryStatus, status)
	}

	event := OrderDeliveryStatusUpdated{
		OrderID:   orderID,
		Status:    status,
		UpdatedAt: s.now(),
	}
	return s.append(ctx, o, EventDeliveryStatusUpdated, event)
}

func (s *Service) append(ctx context.Context, o *Order, eventType string, data any) error {
	storedEvent, err := s.eventStore.Append(ctx, o.ID, AggregateType, eventType, data)
	if err != nil {
		return err
	}
	if storedEvent != nil {
		if err := o.ApplyEvent(*storedEvent); err != nil {
			return err
		}
	}
	if err := aggregate.MaybeSnapshot(ctx, s.eventStore, o, AggregateType); err != nil {
		log.Printf("[Order] Failed to create snapshot for order %s: %v", o.ID, err)
	}
	return nil
}
