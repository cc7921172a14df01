package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/readmodel"
	"github.com/google/uuid"
)

// Handler turns order events into user-facing notification records. The
// orders view drains them as toasts.
type Handler struct {
	readStore store.ReadStoreInterface
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if event.AggregateType != order.AggregateType {
		return nil
	}

	switch event.EventType {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return h.record(e.UserID, "success",
			fmt.Sprintf("Order %s placed successfully.", e.OrderID))

	case order.EventProductQuantityChanged:
		var e order.OrderProductQuantityChanged
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return h.record(h.orderOwner(e.OrderID), "success",
			fmt.Sprintf("Order %s updated.", e.OrderID))

	case order.EventOrderCancelled:
		var e order.OrderCancelled
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return h.record(h.orderOwner(e.OrderID), "info",
			fmt.Sprintf("Order %s has been cancelled.", e.OrderID))

	case order.EventDeliveryStatusUpdated:
		var e order.OrderDeliveryStatusUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		return h.record(h.orderOwner(e.OrderID), "info",
			fmt.Sprintf("Order %s is now %s.", e.OrderID, e.Status))
	}

	return nil
}

// orderOwner resolves the user behind an order from the read model. Empty
// when the projection has not caught up yet.
func (h *Handler) orderOwner(orderID string) string {
	data, ok, err := h.readStore.Get("orders", orderID)
	if err != nil || !ok {
		log.Printf("[Notifier] Order not found in read store: %s", orderID)
		return ""
	}
	return data.(*readmodel.OrderReadModel).UserID
}

func (h *Handler) record(userID, kind, message string) error {
	if userID == "" {
		return nil
	}

	n := &readmodel.NotificationReadModel{
		ID:        uuid.New().String(),
		UserID:    userID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}

	log.Printf("[Notifier] %s: %s", userID, message)
	return h.readStore.Set("notifications", n.ID, n)
}
