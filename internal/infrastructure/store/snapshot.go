package store

import (
	"encoding/json"
	"time"
)

// SnapshotThreshold is the number of events after which aggregates persist a
// snapshot.
const SnapshotThreshold = 10

// Snapshot is a point-in-time serialization of an aggregate. State holds the
// aggregate's JSON form (cart and wishlist lines as ordered arrays, dates as
// RFC 3339 strings).
type Snapshot struct {
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int             `json:"version"`
	State         json.RawMessage `json:"state"`
	CreatedAt     time.Time       `json:"created_at"`
}
