package store

// ReadStoreInterface is the read-model storage contract. Collections are
// flat namespaces ("carts", "wishlists", "orders", "notifications").
type ReadStoreInterface interface {
	// Set stores a read model under collection/id.
	Set(collection, id string, data any) error

	// Get retrieves a read model; the bool reports presence.
	Get(collection, id string) (any, bool, error)

	// GetAll retrieves every item in a collection.
	GetAll(collection string) ([]any, error)

	// Delete removes a read model; missing ids are a no-op.
	Delete(collection, id string) error

	// Update applies fn to the stored model; returns false when absent.
	Update(collection, id string, fn func(current any) any) (bool, error)
}
