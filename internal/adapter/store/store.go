// Package store provides the persistent vector index backends.
package store

import (
	"strings"

	"github.com/bigale/gitforai/internal/port"
)

// Open selects a backend from the index location: postgres:// URLs get the
// pgvector-backed store, anything else is treated as a SQLite file path.
func Open(location string, dimensions int) (port.CommitStore, error) {
	if strings.HasPrefix(location, "postgres://") || strings.HasPrefix(location, "postgresql://") {
		return NewPostgresStore(location, dimensions)
	}
	return NewSQLiteStore(location, dimensions)
}
