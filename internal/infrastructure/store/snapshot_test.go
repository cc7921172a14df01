package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_JSONRoundTrip(t *testing.T) {
	state, err := json.Marshal(map[string]any{
		"id":      "cart-user-1",
		"user_id": "user-1",
		"lines":   []any{},
	})
	require.NoError(t, err)

	original := Snapshot{
		AggregateID:   "cart-user-1",
		AggregateType: "Cart",
		Version:       10,
		State:         state,
		CreatedAt:     time.Now().Truncate(time.Second),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored Snapshot
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, original.AggregateID, restored.AggregateID)
	assert.Equal(t, original.AggregateType, restored.AggregateType)
	assert.Equal(t, original.Version, restored.Version)
	assert.JSONEq(t, string(original.State), string(restored.State))
}

func TestEventStore_AppendAssignsSequentialVersions(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	first, err := es.Append(ctx, "cart-user-1", "Cart", "ItemAddedToCart", map[string]int{"item_id": 1})
	require.NoError(t, err)
	second, err := es.Append(ctx, "cart-user-1", "Cart", "ItemAddedToCart", map[string]int{"item_id": 2})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
	assert.Len(t, es.GetEvents("cart-user-1"), 2)
}

func TestEventStore_GetEventsFromVersion(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := es.Append(ctx, "cart-user-1", "Cart", "ItemAddedToCart", map[string]int{"item_id": i})
		require.NoError(t, err)
	}

	events := es.GetEventsFromVersion(ctx, "cart-user-1", 3)

	require.Len(t, events, 2)
	assert.Equal(t, 4, events[0].Version)
	assert.Equal(t, 5, events[1].Version)
}

func TestEventStore_SnapshotSaveAndGet(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	got, err := es.GetSnapshot(ctx, "cart-user-1")
	require.NoError(t, err)
	assert.Nil(t, got, "no snapshot yet")

	snap := &Snapshot{
		AggregateID:   "cart-user-1",
		AggregateType: "Cart",
		Version:       10,
		State:         json.RawMessage(`{"id":"cart-user-1"}`),
		CreatedAt:     time.Now(),
	}
	require.NoError(t, es.SaveSnapshot(ctx, snap))

	got, err = es.GetSnapshot(ctx, "cart-user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Version)
}

type recordingSnapshotStore struct {
	saved map[string]*Snapshot
}

func (r *recordingSnapshotStore) GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error) {
	return r.saved[aggregateID], nil
}

func (r *recordingSnapshotStore) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	r.saved[snapshot.AggregateID] = snapshot
	return nil
}

func TestEventStore_DelegatesToExternalSnapshotStore(t *testing.T) {
	external := &recordingSnapshotStore{saved: make(map[string]*Snapshot)}
	es := NewEventStoreWithSnapshots(nil, external)
	ctx := context.Background()

	snap := &Snapshot{AggregateID: "wishlist-user-1", AggregateType: "Wishlist", Version: 10}
	require.NoError(t, es.SaveSnapshot(ctx, snap))

	assert.Contains(t, external.saved, "wishlist-user-1")

	got, err := es.GetSnapshot(ctx, "wishlist-user-1")
	require.NoError(t, err)
	assert.Same(t, snap, got)
}
