package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// ConnectPostgres opens and pings a PostgreSQL connection.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// PostgresEventStore stores events and snapshots in PostgreSQL and publishes
// appended events to Kafka.
type PostgresEventStore struct {
	db        *sql.DB
	producer  *kafka.Producer
	snapshots SnapshotStore
}

func NewPostgresEventStore(db *sql.DB, producer *kafka.Producer) *PostgresEventStore {
	return &PostgresEventStore{
		db:       db,
		producer: producer,
	}
}

// NewPostgresEventStoreWithSnapshots stores events in PostgreSQL but keeps
// snapshots in an external key-value store (DynamoDB in production).
func NewPostgresEventStoreWithSnapshots(db *sql.DB, producer *kafka.Producer, snapshots SnapshotStore) *PostgresEventStore {
	return &PostgresEventStore{
		db:        db,
		producer:  producer,
		snapshots: snapshots,
	}
}

// Append stores an event and publishes it to Kafka.
func (es *PostgresEventStore) Append(ctx context.Context, aggregateID, aggregateType, eventType string, data any) (*Event, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var currentVersion int
	err = es.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM events WHERE aggregate_id = $1",
		aggregateID,
	).Scan(&currentVersion)
	if err != nil {
		return nil, err
	}

	event := Event{
		ID:            uuid.New().String(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     time.Now(),
		Version:       currentVersion + 1,
	}

	_, err = es.db.ExecContext(ctx,
		`INSERT INTO events (id, aggregate_id, aggregate_type, event_type, data, version, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID,
		event.AggregateID,
		event.AggregateType,
		event.EventType,
		event.Data,
		event.Version,
		event.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	if es.producer != nil {
		if err := es.producer.Publish(ctx, aggregateID, event); err != nil {
			return nil, err
		}
	}

	return &event, nil
}

// GetEvents returns all events for an aggregate in version order.
func (es *PostgresEventStore) GetEvents(aggregateID string) []Event {
	return es.queryEvents(context.Background(), aggregateID, 0)
}

// GetEventsFromVersion returns events with version greater than fromVersion.
func (es *PostgresEventStore) GetEventsFromVersion(ctx context.Context, aggregateID string, fromVersion int) []Event {
	return es.queryEvents(ctx, aggregateID, fromVersion)
}

func (es *PostgresEventStore) queryEvents(ctx context.Context, aggregateID string, fromVersion int) []Event {
	rows, err := es.db.QueryContext(ctx,
		`SELECT id, aggregate_id, aggregate_type, event_type, data, version, created_at
		 FROM events WHERE aggregate_id = $1 AND version > $2 ORDER BY version`,
		aggregateID, fromVersion,
	)
	if err != nil {
		log.Printf("[PostgresEventStore] Failed to query events for %s: %v", aggregateID, err)
		return nil
	}
	defer rows.Close()

	return scanEvents(rows)
}

// GetAllEvents returns every stored event in append order.
func (es *PostgresEventStore) GetAllEvents() []Event {
	rows, err := es.db.Query(
		`SELECT id, aggregate_id, aggregate_type, event_type, data, version, created_at
		 FROM events ORDER BY created_at`,
	)
	if err != nil {
		log.Printf("[PostgresEventStore] Failed to query all events: %v", err)
		return nil
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) []Event {
	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.Data, &e.Version, &e.Timestamp); err != nil {
			log.Printf("[PostgresEventStore] Failed to scan event: %v", err)
			continue
		}
		events = append(events, e)
	}
	return events
}

// GetSnapshot returns the latest snapshot for an aggregate, nil when none
// exists.
func (es *PostgresEventStore) GetSnapshot(ctx context.Context, aggregateID string) (*Snapshot, error) {
	if es.snapshots != nil {
		return es.snapshots.GetSnapshot(ctx, aggregateID)
	}

	var s Snapshot
	err := es.db.QueryRowContext(ctx,
		`SELECT aggregate_id, aggregate_type, version, state, created_at
		 FROM snapshots WHERE aggregate_id = $1`,
		aggregateID,
	).Scan(&s.AggregateID, &s.AggregateType, &s.Version, &s.State, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSnapshot upserts the snapshot for an aggregate.
func (es *PostgresEventStore) SaveSnapshot(ctx context.Context, snapshot *Snapshot) error {
	if es.snapshots != nil {
		return es.snapshots.SaveSnapshot(ctx, snapshot)
	}

	_, err := es.db.ExecContext(ctx,
		`INSERT INTO snapshots (aggregate_id, aggregate_type, version, state, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (aggregate_id) DO UPDATE
		 SET aggregate_type = EXCLUDED.aggregate_type,
		     version = EXCLUDED.version,
		     state = EXCLUDED.state,
		     created_at = EXCLUDED.created_at`,
		snapshot.AggregateID,
		snapshot.AggregateType,
		snapshot.Version,
		snapshot.State,
		snapshot.CreatedAt,
	)
	return err
}
