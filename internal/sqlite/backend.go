package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/mala/pkg/types"
)

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store using SQLite as the query engine and JSONL
// files as the source of truth.
type Backend struct {
	mu       sync.Mutex
	attached bool
	config   types.Config
	dataDir  string
	db       *sql.DB

	syncStrategy  string
	pendingWrites []pendingWrite
}

// pendingWrite represents a deferred JSONL write operation, used by the
// on_close sync strategy.
type pendingWrite struct {
	file    string
	persist func() error
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Open creates a backend and attaches it in one step.
func Open(config types.Config) (*Backend, error) {
	b := NewBackend()
	if err := b.Attach(config); err != nil {
		return nil, err
	}
	return b, nil
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, rebuilds the SQLite database and
// loads the JSONL files into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}
	if config.Backend != types.BackendSQLite {
		return types.ErrBackendUnknown
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The database is a cache of the JSONL files; start from a fresh schema.
	dbPath := filepath.Join(dataDir, dbFile)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	// A single connection serializes writers and keeps the file lock simple.
	db.SetMaxOpenConns(1)

	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	for _, name := range []string{counterFile, historyFile} {
		if err := ensureJSONLFile(filepath.Join(dataDir, name)); err != nil {
			db.Close()
			return err
		}
	}

	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.dataDir = dataDir
	b.syncStrategy = config.GetSyncStrategy()
	b.pendingWrites = nil
	b.attached = true
	return nil
}

// Detach flushes pending writes and closes the SQLite connection.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if err := b.flushPendingWritesLocked(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	return nil
}

// Close implements types.Store.
func (b *Backend) Close() error {
	return b.Detach()
}

// DataDir returns the directory holding the JSONL files.
func (b *Backend) DataDir() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dataDir
}

// Load returns the stored snapshot.
// Returns types.ErrSnapshotNotFound when nothing has been saved. A stored
// value that fails to decode yields the default snapshot and the decode
// error.
func (b *Backend) Load(ctx context.Context) (types.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.Snapshot{}, types.ErrStoreClosed
	}

	var value string
	err := b.db.QueryRowContext(ctx, "SELECT value FROM snapshots WHERE key = ?", types.SnapshotKey).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Snapshot{}, types.ErrSnapshotNotFound
		}
		return types.Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	return types.DecodeSnapshot([]byte(value))
}

// Save stores s under the snapshot key and records op in the history, then
// persists the JSONL files according to the sync strategy.
func (b *Backend) Save(ctx context.Context, s types.Snapshot, op string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreClosed
	}

	value, err := s.Encode()
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	now := time.Now().UTC().Format(timeLayout)
	hist := historyJSON{
		HistoryID:       generateUUID(),
		Operation:       op,
		Count:           s.Count,
		CycleCount:      s.CycleCount,
		CompletedCycles: s.CompletedCycles,
		CreatedAt:       now,
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		types.SnapshotKey, string(value), now,
	); err != nil {
		return fmt.Errorf("persisting snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO history (history_id, operation, count, cycle_count, completed_cycles, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		hist.HistoryID, hist.Operation, hist.Count, hist.CycleCount, hist.CompletedCycles, hist.CreatedAt,
	); err != nil {
		return fmt.Errorf("recording history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}

	snapRec, err := json.Marshal(snapshotJSON{Key: types.SnapshotKey, Value: value, UpdatedAt: now})
	if err != nil {
		return fmt.Errorf("marshaling snapshot record: %w", err)
	}
	histRec, err := json.Marshal(hist)
	if err != nil {
		return fmt.Errorf("marshaling history record: %w", err)
	}

	counterPath := filepath.Join(b.dataDir, counterFile)
	historyPath := filepath.Join(b.dataDir, historyFile)
	persistSnapshot := func() error { return writeJSONL(counterPath, []json.RawMessage{snapRec}) }
	persistHistory := func() error { return appendJSONL(historyPath, histRec) }

	if b.shouldPersistImmediately() {
		if err := persistSnapshot(); err != nil {
			return fmt.Errorf("persisting %s: %w", counterFile, err)
		}
		if err := persistHistory(); err != nil {
			return fmt.Errorf("appending %s: %w", historyFile, err)
		}
		return nil
	}

	b.queueWrite(counterFile, persistSnapshot)
	b.queueWrite(historyFile, persistHistory)
	return nil
}

// History returns up to limit history entries, newest first.
func (b *Backend) History(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreClosed
	}

	query := "SELECT history_id, operation, count, cycle_count, completed_cycles, created_at FROM history ORDER BY created_at DESC, rowid DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var e types.HistoryEntry
		var createdAt string
		if err := rows.Scan(&e.HistoryID, &e.Operation, &e.Count, &e.Cycle, &e.Completed, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		e.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Backend lifecycle errors.
var (
	ErrAlreadyAttached = errors.New("backend is already attached")
)

// generateUUID generates a new UUID v7 for history IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// shouldPersistImmediately returns true if JSONL writes should happen immediately.
func (b *Backend) shouldPersistImmediately() bool {
	return b.syncStrategy == types.SyncImmediate || b.syncStrategy == ""
}

// queueWrite adds a write operation to the pending queue. Snapshot writes
// replace any queued snapshot write since only the latest one matters.
// The caller must hold b.mu.
func (b *Backend) queueWrite(file string, persist func() error) {
	if file == counterFile {
		for i, pw := range b.pendingWrites {
			if pw.file == counterFile {
				b.pendingWrites[i].persist = persist
				return
			}
		}
	}
	b.pendingWrites = append(b.pendingWrites, pendingWrite{file: file, persist: persist})
}

// flushPendingWritesLocked executes all pending writes in order.
// The caller must hold b.mu.
func (b *Backend) flushPendingWritesLocked() error {
	for i, pw := range b.pendingWrites {
		if err := pw.persist(); err != nil {
			b.pendingWrites = b.pendingWrites[i:]
			return fmt.Errorf("flush %s: %w", pw.file, err)
		}
	}
	b.pendingWrites = nil
	return nil
}
