package readmodel

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLineReadModel is a single cart line.
type CartLineReadModel struct {
	ItemID    int64           `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

// CartReadModel is the read model for a user's cart.
type CartReadModel struct {
	ID       string              `json:"id"`
	UserID   string              `json:"user_id"`
	Lines    []CartLineReadModel `json:"lines"`
	Subtotal decimal.Decimal     `json:"subtotal"`
}

// WishlistLineReadModel is a single wishlist line. AddedDate is the first
// insertion time and never changes afterwards.
type WishlistLineReadModel struct {
	ItemID    int64           `json:"item_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	AddedDate time.Time       `json:"added_date"`
}

// WishlistReadModel is the read model for a user's wishlist.
type WishlistReadModel struct {
	ID     string                  `json:"id"`
	UserID string                  `json:"user_id"`
	Lines  []WishlistLineReadModel `json:"lines"`
}

// AddressReadModel is a shipping address.
type AddressReadModel struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// OrderProductReadModel is a product line within an order. TotalPrice is
// price times quantity, kept in sync by the projector.
type OrderProductReadModel struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Thumbnail  string          `json:"thumbnail"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderReadModel is the read model served to the order-history view.
type OrderReadModel struct {
	ID                string                  `json:"id"`
	UserID            string                  `json:"user_id"`
	OrderDate         time.Time               `json:"order_date"`
	EstimatedDelivery time.Time               `json:"estimated_delivery"`
	ShippingAddress   AddressReadModel        `json:"shipping_address"`
	DeliveryStatus    string                  `json:"delivery_status"`
	Products          []OrderProductReadModel `json:"products"`
	PaymentMethod     string                  `json:"payment_method"`
	PaymentStatus     string                  `json:"payment_status"`
	TotalAmount       decimal.Decimal         `json:"total_amount"`
}

// NotificationReadModel is a user-facing notification produced from order
// events (the toasts of the orders view).
type NotificationReadModel struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      string    `json:"kind"` // success, error, info
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
