// Package store defines the record backend interface and implementations.
package store

// Document is a stored record together with its raw id.
type Document struct {
	ID   string
	Data map[string]any
}

// Store is the interface that all record backends must implement.
// It holds named collections, where each collection contains
// documents keyed by a string identifier.
//
// Implementations are not safe for concurrent use on their own; the kv
// engine serializes every call behind a single lock.
type Store interface {
	// HasCollection reports whether a collection has been created.
	// A collection whose last document was deleted still exists.
	HasCollection(collection string) (bool, error)

	// CreateCollection creates an empty collection. No-op if it exists.
	CreateCollection(collection string) error

	// GetAll returns every document in a collection in insertion order.
	GetAll(collection string) ([]Document, error)

	// Get returns a single document by id, or nil if not found.
	Get(collection, id string) (map[string]any, error)

	// Put inserts or replaces a document, creating the collection if
	// needed. Replacing keeps the document's original position.
	Put(collection, id string, data map[string]any) error

	// Delete removes a document. Returns true if it existed.
	Delete(collection, id string) (bool, error)

	// ListCollections returns collection names in creation order,
	// including empty collections.
	ListCollections() ([]string, error)

	// Count returns the number of documents across all collections.
	Count() (int, error)

	// Close releases any resources held by the backend.
	Close() error
}
