package types

import (
	"context"
	"time"
)

// HistoryEntry records one persisted mutation.
type HistoryEntry struct {
	HistoryID string    `json:"history_id"`
	Operation string    `json:"operation"`
	Count     int       `json:"count"`
	Cycle     int       `json:"cycle_count"`
	Completed int       `json:"completed_cycles"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists the counter snapshot and its mutation history.
type Store interface {
	// Load returns the saved snapshot.
	// Returns ErrSnapshotNotFound if nothing has been saved yet.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the snapshot and records op in the history.
	Save(ctx context.Context, s Snapshot, op string) error

	// History returns up to limit entries, newest first. A limit <= 0
	// returns every entry.
	History(ctx context.Context, limit int) ([]HistoryEntry, error)

	// Close flushes pending writes and releases resources. Idempotent.
	Close() error
}
