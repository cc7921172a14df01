package wishlist

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

const AggregateType = "Wishlist"

var (
	ErrInvalidItem = errors.New("item id must be positive")
)

// Line is a wishlist line. AddedDate records the first insertion and never
// changes: later adds only increment the quantity.
type Line struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	AddedDate time.Time       `json:"added_date"`
}

func (l Line) LineID() int64     { return l.ID }
func (l Line) LineQuantity() int { return l.Quantity }
func (l Line) WithQuantity(n int) Line {
	l.Quantity = n
	return l
}

// Wishlist is the wishlist state container.
type Wishlist struct {
	ID      string                    `json:"id"`
	UserID  string                    `json:"user_id"`
	Lines   *lineset.Set[int64, Line] `json:"lines"`
	Version int                       `json:"version"`
}

func NewWishlist() *Wishlist {
	return &Wishlist{Lines: lineset.New[int64, Line]()}
}

func (w *Wishlist) GetID() string   { return w.ID }
func (w *Wishlist) GetVersion() int { return w.Version }

// WishlistID returns the wishlist aggregate id for a user.
func WishlistID(userID string) string {
	return "wishlist-" + userID
}

func (w *Wishlist) ensureLines() {
	if w.Lines == nil {
		w.Lines = lineset.New[int64, Line]()
	}
}

// ApplyEvent reduces a single event into the wishlist state.
func (w *Wishlist) ApplyEvent(event store.Event) error {
	w.ensureLines()

	switch event.EventType {
	case EventItemAdded:
		var data ItemAddedToWishlist
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		w.ID = data.WishlistID
		w.UserID = data.UserID
		// UpsertIncrement keeps the stored line on increment, so AddedDate
		// stays at the first insertion.
		w.Lines.UpsertIncrement(Line{
			ID:        data.ItemID,
			Name:      data.Name,
			Price:     data.Price,
			Image:     data.Image,
			AddedDate: data.AddedAt,
		})

	case EventItemDecremented:
		var data WishlistItemDecremented
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		w.Lines.DecrementOrRemove(data.ItemID)

	case EventItemRemoved:
		var data ItemRemovedFromWishlist
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		w.Lines.Remove(data.ItemID)

	case EventWishlistCleared:
		var data WishlistCleared
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		w.Lines.Clear()
	}
	w.Version = event.Version
	return nil
}

// NewestFirst returns the lines ordered by AddedDate, newest first. Ties
// keep insertion order.
func (w *Wishlist) NewestFirst() []Line {
	lines := w.Lines.Lines()
	// Insertion sort keeps the order stable for equal dates.
	for i := 1; i < len(lines); i++ {
		for j := i; j > 0 && lines[j].AddedDate.After(lines[j-1].AddedDate); j-- {
			lines[j], lines[j-1] = lines[j-1], lines[j]
		}
	}
	return lines
}

// Service exposes the wishlist mutations.
type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Get returns the current wishlist for a user, empty when no events exist.
func (s *Service) Get(ctx context.Context, userID string) (*Wishlist, error) {
	wishlistID := WishlistID(userID)
	w, found, err := aggregate.Load(ctx, s.eventStore, wishlistID, NewWishlist)
	if err != nil {
		return nil, err
	}
	if !found {
		empty := NewWishlist()
		empty.ID = wishlistID
		empty.UserID = userID
		return empty, nil
	}
	return w, nil
}

// AddItem adds a line with quantity 1, or increments an existing one without
// touching its AddedDate.
func (s *Service) AddItem(ctx context.Context, userID string, item Line) error {
	if item.ID <= 0 {
		return ErrInvalidItem
	}

	wishlistID := WishlistID(userID)
	event := ItemAddedToWishlist{
		WishlistID: wishlistID,
		UserID:     userID,
		ItemID:     item.ID,
		Name:       item.Name,
		Price:      item.Price,
		Image:      item.Image,
		AddedAt:    time.Now(),
	}
	return s.append(ctx, userID, wishlistID, EventItemAdded, event)
}

// DecrementItem steps a line's quantity down by 1, removing it at 1.
func (s *Service) DecrementItem(ctx context.Context, userID string, itemID int64) error {
	wishlistID := WishlistID(userID)
	event := WishlistItemDecremented{
		WishlistID:    wishlistID,
		ItemID:        itemID,
		DecrementedAt: time.Now(),
	}
	return s.append(ctx, userID, wishlistID, EventItemDecremented, event)
}

// RemoveItem deletes a line regardless of quantity.
func (s *Service) RemoveItem(ctx context.Context, userID string, itemID int64) error {
	wishlistID := WishlistID(userID)
	event := ItemRemovedFromWishlist{
		WishlistID: wishlistID,
		ItemID:     itemID,
		RemovedAt:  time.Now(),
	}
	return s.append(ctx, userID, wishlistID, EventItemRemoved, event)
}

// Clear empties the wishlist.
func (s *Service) Clear(ctx context.Context, userID string) error {
	wishlistID := WishlistID(userID)
	event := WishlistCleared{
		WishlistID: wishlistID,
		UserID:     userID,
		ClearedAt:  time.Now(),
	}
	return s.append(ctx, userID, wishlistID, EventWishlistCleared, event)
}

func (s *Service) append(ctx context.Context, userID, wishlistID, eventType string, data any) error {
	w, found, err := aggregate.Load(ctx, s.eventStore, wishlistID, NewWishlist)
	if err != nil {
		return err
	}
	if !found {
		w = NewWishlist()
		w.ID = wishlistID
		w.UserID = userID
	}

	storedEvent, err := s.eventStore.Append(ctx, wishlistID, AggregateType, eventType, data)
	if err != nil {
		return err
	}

	if storedEvent != nil {
		if err := w.ApplyEvent(*storedEvent); err != nil {
			return err
		}
	}

	if err := aggregate.MaybeSnapshot(ctx, s.eventStore, w, AggregateType); err != nil {
		log.Printf("[Wishlist] Failed to create snapshot for wishlist %s: %v", w.ID, err)
	}
	return nil
}
