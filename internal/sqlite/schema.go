// Package sqlite implements the SQLite storage backend for the mala tally.
// JSONL files in the data directory are the source of truth; SQLite is the
// query engine, rebuilt from JSONL on every Attach.
package sqlite

// Schema DDL.
const (
	createSnapshots = `CREATE TABLE snapshots (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createHistory = `CREATE TABLE history (
    history_id TEXT PRIMARY KEY,
    operation TEXT NOT NULL,
    count INTEGER NOT NULL,
    cycle_count INTEGER NOT NULL,
    completed_cycles INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxHistoryCreated   = `CREATE INDEX idx_history_created ON history(created_at);`
	idxHistoryOperation = `CREATE INDEX idx_history_operation ON history(operation, created_at);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createSnapshots,
	createHistory,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxHistoryCreated,
	idxHistoryOperation,
}

// JSONL file names in the data directory.
const (
	counterFile = "counter.jsonl"
	historyFile = "history.jsonl"
	dbFile      = "mala.db"
)

// timeLayout is a fixed-width UTC layout so stored timestamps sort
// lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000Z"
