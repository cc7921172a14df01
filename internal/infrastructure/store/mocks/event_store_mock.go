package mocks

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/google/uuid"
)

// MockEventStore is an EventStoreInterface implementation for tests.
type MockEventStore struct {
	mu        sync.RWMutex
	events    map[string][]store.Event
	snapshots map[string]*store.Snapshot

	// For tracking calls in tests
	AppendCalls    []AppendCall
	AppendErr      error
	AppendCallback func(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*store.Event, error)
	SnapshotErr    error
	SavedSnapshots []*store.Snapshot
}

// AppendCall records parameters passed to Append.
type AppendCall struct {
	AggregateID   string
	AggregateType string
	EventType     string
	Data          any
}

func NewMockEventStore() *MockEventStore {
	return &MockEventStore{
		events:      make(map[string][]store.Event),
		snapshots:   make(map[string]*store.Snapshot),
		AppendCalls: make([]AppendCall, 0),
	}
}

// Append stores an event in memory and records the call.
func (m *MockEventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*store.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls = append(m.AppendCalls, AppendCall{
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          data,
	})

	if m.AppendCallback != nil {
		return m.AppendCallback(ctx, aggregateID, aggregateType, eventType, data)
	}
	if m.AppendErr != nil {
		return nil, m.AppendErr
	}

	event, err := m.buildEvent(aggregateID, aggregateType, eventType, data)
	if err != nil {
		return nil, err
	}
	m.events[aggregateID] = append(m.events[aggregateID], *event)
	return event, nil
}

func (m *MockEventStore) buildEvent(aggregateID, aggregateType, eventType string, data any) (*store.Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &store.Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       len(m.events[aggregateID]) + 1,
	}, nil
}

func (m *MockEventStore) GetEvents(aggregateID string) []store.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.events[aggregateID]
}

func (m *MockEventStore) GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []store.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []store.Event
	for _, e := range m.events[aggregateID] {
		if e.Version > fromVersion {
			out = append(out, e)
		}
	}
	return out
}

func (m *MockEventStore) GetAllEvents() []store.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var all []store.Event
	for _, events := range m.events {
		all = append(all, events...)
	}
	return all
}

func (m *MockEventStore) GetSnapshot(ctx context.Context, aggregateID string) (*store.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.SnapshotErr != nil {
		return nil, m.SnapshotErr
	}
	return m.snapshots[aggregateID], nil
}

func (m *MockEventStore) SaveSnapshot(ctx context.Context, snapshot *store.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SnapshotErr != nil {
		return m.SnapshotErr
	}
	m.snapshots[snapshot.AggregateID] = snapshot
	m.SavedSnapshots = append(m.SavedSnapshots, snapshot)
	return nil
}

// Reset clears all stored state and recorded calls.
func (m *MockEventStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[string][]store.Event)
	m.snapshots = make(map[string]*store.Snapshot)
	m.AppendCalls = make([]AppendCall, 0)
	m.AppendErr = nil
	m.AppendCallback = nil
	m.SnapshotErr = nil
	m.SavedSnapshots = nil
}

// AddEvent seeds an event directly, bypassing call tracking.
func (m *MockEventStore) AddEvent(aggregateID, aggregateType, eventType string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	event, err := m.buildEvent(aggregateID, aggregateType, eventType, data)
	if err != nil {
		return err
	}
	m.events[aggregateID] = append(m.events[aggregateID], *event)
	return nil
}
