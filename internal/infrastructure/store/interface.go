package store

import "context"

// EventStoreInterface is the write-side contract: append-only event streams
// per aggregate with snapshot support.
type EventStoreInterface interface {
	Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error)
	GetEvents(aggregateID string) []Event
	GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []Event
	GetAllEvents() []Event

	GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
}

// SnapshotStore is a key-value store for serialized aggregate state, keyed
// by aggregate id. Event stores delegate snapshot persistence here so the
// snapshot backend (memory, DynamoDB) can vary independently of the event
// backend.
type SnapshotStore interface {
	GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
}
