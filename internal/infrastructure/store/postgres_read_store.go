package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/storefront/internal/readmodel"
)

// readModelFactories maps a collection to a constructor for its model type,
// so JSONB rows deserialize into the concrete types callers assert on.
var readModelFactories = map[string]func() any{
	"carts":         func() any { return &readmodel.CartReadModel{} },
	"wishlists":     func() any { return &readmodel.WishlistReadModel{} },
	"orders":        func() any { return &readmodel.OrderReadModel{} },
	"notifications": func() any { return &readmodel.NotificationReadModel{} },
}

// PostgresReadStore implements ReadStoreInterface over per-collection JSONB
// tables (read_carts, read_wishlists, ...).
type PostgresReadStore struct {
	db *sql.DB
}

func NewPostgresReadStore(db *sql.DB) *PostgresReadStore {
	return &PostgresReadStore{db: db}
}

func tableFor(collection string) (string, error) {
	if _, ok := readModelFactories[collection]; !ok {
		return "", fmt.Errorf("unknown read model collection %q", collection)
	}
	return "read_" + collection, nil
}

func (rs *PostgresReadStore) Set(collection, id string, data any) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s/%s: %w", collection, id, err)
	}
	_, err = rs.db.Exec(
		fmt.Sprintf(`INSERT INTO %s (id, data) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, table),
		id, payload,
	)
	return err
}

func (rs *PostgresReadStore) Get(collection, id string) (any, bool, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, false, err
	}
	var payload []byte
	err = rs.db.QueryRow(fmt.Sprintf("SELECT data FROM %s WHERE id = $1", table), id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	model := readModelFactories[collection]()
	if err := json.Unmarshal(payload, model); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal %s/%s: %w", collection, id, err)
	}
	return model, true, nil
}

func (rs *PostgresReadStore) GetAll(collection string) ([]any, error) {
	table, err := tableFor(collection)
	if err != nil {
		return nil, err
	}
	rows, err := rs.db.Query(fmt.Sprintf("SELECT data FROM %s", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []any
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		model := readModelFactories[collection]()
		if err := json.Unmarshal(payload, model); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s row: %w", collection, err)
		}
		items = append(items, model)
	}
	return items, rows.Err()
}

func (rs *PostgresReadStore) Delete(collection, id string) error {
	table, err := tableFor(collection)
	if err != nil {
		return err
	}
	_, err = rs.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	return err
}

func (rs *PostgresReadStore) Update(collection, id string, fn func(current any) any) (bool, error) {
	current, ok, err := rs.Get(collection, id)
	if err != nil || !ok {
		return false, err
	}
	if err := rs.Set(collection, id, fn(current)); err != nil {
		return false, err
	}
	return true, nil
}
