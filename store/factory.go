package store

import "fmt"

// New creates a Store based on the backend name.
//
// Supported backends:
//
//	"memory" - Go maps (default)
//	"sqlite" - SQLite database at dsn; an empty dsn opens ":memory:"
func New(backend, dsn string) (Store, error) {
	switch backend {
	case "memory", "":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSqliteStore(dsn)
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: memory, sqlite)", backend)
	}
}
