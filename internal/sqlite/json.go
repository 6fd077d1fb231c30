package sqlite

import "encoding/json"

// JSON record structures that mirror the JSONL file format.

// snapshotJSON represents the namespaced snapshot in counter.jsonl.
type snapshotJSON struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt string          `json:"updated_at"`
}

// historyJSON represents a mutation record in history.jsonl.
type historyJSON struct {
	HistoryID       string `json:"history_id"`
	Operation       string `json:"operation"`
	Count           int    `json:"count"`
	CycleCount      int    `json:"cycle_count"`
	CompletedCycles int    `json:"completed_cycles"`
	CreatedAt       string `json:"created_at"`
}
