package storage

import "fmt"

// DefaultStoreKind is the store backend used when the caller does not
// pick one explicitly: the in-process memory store, so a build without
// the `sqlite` tag always has a usable default.
func DefaultStoreKind() string {
	return "memory"
}

// NewStore builds a Store for the named backend. "" and "memory" select
// the in-process MemoryStore; "sqlite" selects the sqlite-backed store,
// available only in builds tagged `sqlite` (see factory_nosqlite.go).
func NewStore(kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}
