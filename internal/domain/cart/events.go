package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventItemAdded         = "ItemAddedToCart"
	EventQuantityIncreased = "CartQuantityIncreased"
	EventQuantityDecreased = "CartQuantityDecreased"
	EventItemRemoved       = "ItemRemovedFromCart"
	EventCartCleared       = "CartCleared"
)

type ItemAddedToCart struct {
	CartID    string          `json:"cart_id"`
	UserID    string          `json:"user_id"`
	ItemID    int64           `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image"`
	AddedAt   time.Time       `json:"added_at"`
}

type CartQuantityIncreased struct {
	CartID      string    `json:"cart_id"`
	ItemID      int64     `json:"item_id"`
	IncreasedAt time.Time `json:"increased_at"`
}

type CartQuantityDecreased struct {
	CartID      string    `json:"cart_id"`
	ItemID      int64     `json:"item_id"`
	DecreasedAt time.Time `json:"decreased_at"`
}

type ItemRemovedFromCart struct {
	CartID    string    `json:"cart_id"`
	ItemID    int64     `json:"item_id"`
	RemovedAt time.Time `json:"removed_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id"`
	ClearedAt time.Time `json:"cleared_at"`
}
