package wishlist

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventItemAdded       = "ItemAddedToWishlist"
	EventItemDecremented = "WishlistItemDecremented"
	EventItemRemoved     = "ItemRemovedFromWishlist"
	EventWishlistCleared = "WishlistCleared"
)

type ItemAddedToWishlist struct {
	WishlistID string          `json:"wishlist_id"`
	UserID     string          `json:"user_id"`
	ItemID     int64           `json:"item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image"`
	AddedAt    time.Time       `json:"added_at"`
}

type WishlistItemDecremented struct {
	WishlistID    string    `json:"wishlist_id"`
	ItemID        int64     `json:"item_id"`
	DecrementedAt time.Time `json:"decremented_at"`
}

type ItemRemovedFromWishlist struct {
	WishlistID string    `json:"wishlist_id"`
	ItemID     int64     `json:"item_id"`
	RemovedAt  time.Time `json:"removed_at"`
}

type WishlistCleared struct {
	WishlistID string    `json:"wishlist_id"`
	UserID     string    `json:"user_id"`
	ClearedAt  time.Time `json:"cleared_at"`
}
