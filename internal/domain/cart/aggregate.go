package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/example/storefront/internal/domain/aggregate"
	"github.com/example/storefront/internal/domain/lineset"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/shopspring/decimal"
)

const AggregateType = "Cart"

var (
	ErrInvalidItem = errors.New("item id must be positive")
)

// Line is a cart line. Quantity changes never drop below 1; a line is
// removed instead.
type Line struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

func (l Line) LineID() int64     { return l.ID }
func (l Line) LineQuantity() int { return l.Quantity }
func (l Line) WithQuantity(n int) Line {
	l.Quantity = n
	return l
}

// Cart is the cart state container, reduced from its event stream.
type Cart struct {
	ID      string                    `json:"id"`
	UserID  string                    `json:"user_id"`
	Lines   *lineset.Set[int64, Line] `json:"lines"`
	Version int                       `json:"version"`
}

func NewCart() *Cart {
	return &Cart{Lines: lineset.New[int64, Line]()}
}

func (c *Cart) GetID() string   { return c.ID }
func (c *Cart) GetVersion() int { return c.Version }

// CartID returns the cart aggregate id for a user.
func CartID(userID string) string {
	return "cart-" + userID
}

func (c *Cart) ensureLines() {
	if c.Lines == nil {
		c.Lines = lineset.New[int64, Line]()
	}
}

// ApplyEvent reduces a single event into the cart state.
func (c *Cart) ApplyEvent(event store.Event) error {
	c.ensureLines()

	switch event.EventType {
	case EventItemAdded:
		var data ItemAddedToCart
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.ID = data.CartID
		c.UserID = data.UserID
		c.Lines.UpsertIncrement(Line{
			ID:        data.ItemID,
			Name:      data.Name,
			UnitPrice: data.UnitPrice,
			Image:     data.Image,
		})

	case EventQuantityIncreased:
		var data CartQuantityIncreased
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Lines.Increment(data.ItemID)

	case EventQuantityDecreased:
		var data CartQuantityDecreased
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Lines.DecrementOrRemove(data.ItemID)

	case EventItemRemoved:
		var data ItemRemovedFromCart
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Lines.Remove(data.ItemID)

	case EventCartCleared:
		var data CartCleared
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Lines.Clear()
	}
	c.Version = event.Version
	return nil
}

// Subtotal is the sum of unit price times quantity over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines.Lines() {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Service exposes the cart mutations. Every mutation appends an event; the
// resulting state is the only observable effect.
type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Get returns the current cart for a user, empty when no events exist.
func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	cartID := CartID(userID)
	cart, found, err := aggregate.Load(ctx, s.eventStore, cartID, NewCart)
	if err != nil {
		return nil, err
	}
	if !found {
		empty := NewCart()
		empty.ID = cartID
		empty.UserID = userID
		return empty, nil
	}
	return cart, nil
}

// AddItem upserts a line: a new item enters with quantity 1, an existing one
// is incremented and keeps its first-insert fields.
func (s *Service) AddItem(ctx context.Context, userID string, item Line) error {
	if item.ID <= 0 {
		return ErrInvalidItem
	}

	cartID := CartID(userID)
	event := ItemAddedToCart{
		CartID:    cartID,
		UserID:    userID,
		ItemID:    item.ID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Image:     item.Image,
		AddedAt:   time.Now(),
	}
	return s.append(ctx, userID, cartID, EventItemAdded, event)
}

// IncreaseQuantity increments a line by 1. Unknown ids are a no-op.
func (s *Service) IncreaseQuantity(ctx context.Context, userID string, itemID int64) error {
	cartID := CartID(userID)
	event := CartQuantityIncreased{
		CartID:      cartID,
		ItemID:      itemID,
		IncreasedAt: time.Now(),
	}
	return s.append(ctx, userID, cartID, EventQuantityIncreased, event)
}

// DecreaseQuantity decrements a line by 1, removing it at quantity 1.
func (s *Service) DecreaseQuantity(ctx context.Context, userID string, itemID int64) error {
	cartID := CartID(userID)
	event := CartQuantityDecreased{
		CartID:      cartID,
		ItemID:      itemID,
		DecreasedAt: time.Now(),
	}
	return s.append(ctx, userID, cartID, EventQuantityDecreased, event)
}

// RemoveItem deletes a line regardless of quantity.
func (s *Service) RemoveItem(ctx context.Context, userID string, itemID int64) error {
	cartID := CartID(userID)
	event := ItemRemovedFromCart{
		CartID:    cartID,
		ItemID:    itemID,
		RemovedAt: time.Now(),
	}
	return s.append(ctx, userID, cartID, EventItemRemoved, event)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	cartID := CartID(userID)
	event := CartCleared{
		CartID:    cartID,
		UserID:    userID,
		ClearedAt: time.Now(),
	}
	return s.append(ctx, userID, cartID, EventCartCleared, event)
}

func (s *Service) append(ctx context.Context, userID, cartID, eventType string, data any) error {
	cart, found, err := aggregate.Load(ctx, s.eventStore, cartID, NewCart)
	if err != nil {
		return err
	}
	if !found {
		cart = NewCart()
		cart.ID = cartID
		cart.UserID = userID
	}

	storedEvent, err := s.eventStore.Append(ctx, cartID, AggregateType, eventType, data)
	if err != nil {
		return err
	}

	// Reduce the new event into the loaded state so snapshots are current.
	if storedEvent != nil {
		if err := cart.ApplyEvent(*storedEvent); err != nil {
			return err
		}
	}

	if err := aggregate.MaybeSnapshot(ctx, s.eventStore, cart, AggregateType); err != nil {
		log.Printf("[Cart] Failed to create snapshot for cart %s: %v", cart.ID, err)
	}
	return nil
}
