package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced            = "OrderPlaced"
	EventProductQuantityChanged = "OrderProductQuantityChanged"
	EventOrderCancelled         = "OrderCancelled"
	EventDeliveryStatusUpdated  = "OrderDeliveryStatusUpdated"
)

type OrderPlaced struct {
	OrderID           string          `json:"order_id"`
	UserID            string          `json:"user_id"`
	Products          []Product       `json:"products"`
	ShippingAddress   Address         `json:"shipping_address"`
	PaymentMethod     string          `json:"payment_method"`
	PaymentStatus     PaymentStatus   `json:"payment_status"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	PlacedAt          time.Time       `json:"placed_at"`
}

type OrderProductQuantityChanged struct {
	OrderID   string    `json:"order_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	ChangedAt time.Time `json:"changed_at"`
}

type OrderCancelled struct {
	OrderID     string    `json:"order_id"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelled_at"`
}

type OrderDeliveryStatusUpdated struct {
	OrderID   string         `json:"order_id"`
	Status    DeliveryStatus `json:"status"`
	UpdatedAt time.Time      `json:"updated_at"`
}
