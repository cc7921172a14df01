package command

import (
	"github.com/example/storefront/internal/domain/order"
	"github.com/shopspring/decimal"
)

// Cart Commands
type AddToCart struct {
	UserID    string          `json:"user_id"`
	ItemID    int64           `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image"`
}

type IncreaseCartQuantity struct {
	UserID string `json:"user_id"`
	ItemID int64  `json:"item_id"`
}

type DecreaseCartQuantity struct {
	UserID string `json:"user_id"`
	ItemID int64  `json:"item_id"`
}

type RemoveFromCart struct {
	UserID string `json:"user_id"`
	ItemID int64  `json:"item_id"`
}

type ClearCart struct {
	UserID string `json:"user_id"`
}

// Wishlist Commands
type AddToWishlist struct {
	UserID string          `json:"user_id"`
	ItemID int64           `json:"item_id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Image  string          `json:"image"`
}

type DecrementWishlistItem struct {
	UserID string `json:"user_id"`
	ItemID int64  `json:"item_id"`
}

type RemoveFromWishlist struct {
	UserID string `json:"user_id"`
	ItemID int64  `json:"item_id"`
}

type ClearWishlist struct {
	UserID string `json:"user_id"`
}

// Order Commands
type PlaceOrder struct {
	UserID          string        `json:"user_id"`
	ShippingAddress order.Address `json:"shipping_address"`
	PaymentMethod   string        `json:"payment_method"`
}

type ChangeOrderQuantity struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CancelOrder struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

type UpdateDeliveryStatus struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
