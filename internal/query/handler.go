package query

import (
	"log"
	"sort"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/wishlist"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/readmodel"
)

type Handler struct {
	readStore store.ReadStoreInterface
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore}
}

// Cart
func (h *Handler) GetCart(userID string) (*readmodel.CartReadModel, bool) {
	cartID := cart.CartID(userID)
	data, ok, err := h.readStore.Get("carts", cartID)
	if err != nil {
		log.Printf("[Query] Error getting cart %s: %v", cartID, err)
		return nil, false
	}
	if !ok {
		// Return empty cart
		return &readmodel.CartReadModel{
			ID:     cartID,
			UserID: userID,
			Lines:  []readmodel.CartLineReadModel{},
		}, true
	}
	return data.(*readmodel.CartReadModel), true
}

// Wishlist
func (h *Handler) GetWishlist(userID string) (*readmodel.WishlistReadModel, bool) {
	wishlistID := wishlist.WishlistID(userID)
	data, ok, err := h.readStore.Get("wishlists", wishlistID)
	if err != nil {
		log.Printf("[Query] Error getting wishlist %s: %v", wishlistID, err)
		return nil, false
	}
	if !ok {
		return &readmodel.WishlistReadModel{
			ID:     wishlistID,
			UserID: userID,
			Lines:  []readmodel.WishlistLineReadModel{},
		}, true
	}
	return data.(*readmodel.WishlistReadModel), true
}

// Orders
func (h *Handler) GetOrder(id string) (*readmodel.OrderReadModel, bool) {
	data, ok, err := h.readStore.Get("orders", id)
	if err != nil {
		log.Printf("[Query] Error getting order %s: %v", id, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return data.(*readmodel.OrderReadModel), true
}

func (h *Handler) ListOrdersByUser(userID string) []*readmodel.OrderReadModel {
	items, err := h.readStore.GetAll("orders")
	if err != nil {
		log.Printf("[Query] Error listing orders: %v", err)
		return nil
	}
	orders := make([]*readmodel.OrderReadModel, 0)
	for _, item := range items {
		o := item.(*readmodel.OrderReadModel)
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders
}

// SearchOrders applies the order-history filter, search, and sort over a
// user's orders.
func (h *Handler) SearchOrders(userID string, status StatusFilter, searchTerm string, sortKey SortKey) []*readmodel.OrderReadModel {
	return QueryOrders(h.ListOrdersByUser(userID), status, searchTerm, sortKey)
}

// Notifications
func (h *Handler) ListNotificationsByUser(userID string) []*readmodel.NotificationReadModel {
	items, err := h.readStore.GetAll("notifications")
	if err != nil {
		log.Printf("[Query] Error listing notifications: %v", err)
		return nil
	}
	notes := make([]*readmodel.NotificationReadModel, 0)
	for _, item := range items {
		n := item.(*readmodel.NotificationReadModel)
		if n.UserID == userID {
			notes = append(notes, n)
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes
}
