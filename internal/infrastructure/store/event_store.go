package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/google/uuid"
)

// Event is a stored domain event.
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
}

// EventStore is an in-memory event store that publishes appended events to
// Kafka. Snapshots go to the configured SnapshotStore, or an internal map
// when none is given.
type EventStore struct {
	mu        sync.RWMutex
	events    map[string][]Event // aggregateID -> events
	snapshots map[string]*Snapshot
	producer  *kafka.Producer
	external  SnapshotStore
}

func NewEventStore(producer *kafka.Producer) *EventStore {
	return &EventStore{
		events:    make(map[string][]Event),
		snapshots: make(map[string]*Snapshot),
		producer:  producer,
	}
}

// NewEventStoreWithSnapshots returns an event store that delegates snapshot
// persistence to an external key-value store.
func NewEventStoreWithSnapshots(producer *kafka.Producer, snapshots SnapshotStore) *EventStore {
	es := NewEventStore(producer)
	es.external = snapshots
	return es
}

// Append stores an event and publishes it to Kafka.
func (es *EventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	es.mu.Lock()
	version := len(es.events[aggregateID]) + 1
	event := Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       version,
	}
	es.events[aggregateID] = append(es.events[aggregateID], event)
	es.mu.Unlock()

	if es.producer != nil {
		if err := es.producer.Publish(ctx, aggregateID, event); err != nil {
			return nil, err
		}
	}

	return &event, nil
}

// GetEvents returns all events for an aggregate.
func (es *EventStore) GetEvents(aggregateID string) []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()
	return es.events[aggregateID]
}

// GetEventsFromVersion returns events with version strictly greater than
// fromVersion.
func (es *EventStore) GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()

	all := es.events[aggregateID]
	var out []Event
	for _, e := range all {
		if e.Version > fromVersion {
			out = append(out, e)
		}
	}
	return out
}

// GetAllEvents returns every stored event.
func (es *EventStore) GetAllEvents() []Event {
	es.mu.RLock()
	defer es.mu.RUnlock()

	var all []Event
	for _, events := range es.events {
		all = append(all, events...)
	}
	return all
}

// GetSnapshot returns the latest snapshot for an aggregate, nil when none
// exists.
func (es *EventStore) GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error) {
	if es.external != nil {
		return es.external.GetSnapshot(ctx, aggregateID)
	}
	es.mu.RLock()
	defer es.mu.RUnlock()
	return es.snapshots[aggregateID], nil
}

// SaveSnapshot persists a snapshot, replacing any previous one.
func (es *EventStore) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	if es.external != nil {
		return es.external.SaveSnapshot(ctx, snapshot)
	}
	es.mu.Lock()
	defer es.mu.Unlock()
	es.snapshots[snapshot.AggregateID] = snapshot
	return nil
}
