// Package sqlite provides the public API for the SQLite store backend.
// This package exposes the factory function for opening SQLite stores
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/mala/internal/sqlite"
	"github.com/mesh-intelligence/mala/pkg/types"
)

// Open creates a SQLite store rooted at dataDir and attaches it.
// The caller must Close the store.
//
// Example:
//
//	store, err := sqlite.Open("/home/me/.local/share/mala")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func Open(dataDir string) (types.Store, error) {
	b, err := sqlite.Open(types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}
