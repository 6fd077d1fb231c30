// Package redis implements types.Store on Redis for tallies shared between
// machines.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"

	"github.com/mesh-intelligence/mala/pkg/types"
)

var _ types.Store = (*Store)(nil)

// Defaults for key layout and history retention.
const (
	DefaultPrefix     = "mala:"
	DefaultMaxHistory = 1000
)

// Store implements types.Store using Redis. The snapshot lives in a string
// key and history in a capped list, newest first.
type Store struct {
	client     *backend.Client
	prefix     string
	maxHistory int64
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithMaxHistory caps the number of history entries kept.
func WithMaxHistory(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxHistory = int64(n)
		}
	}
}

// New creates a Redis store from connection settings.
func New(cfg types.RedisConfig, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewFromClient(rdb, append([]Option{WithPrefix(cfg.Prefix)}, opts...)...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	s := &Store{
		client:     client,
		prefix:     DefaultPrefix,
		maxHistory: DefaultMaxHistory,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) snapshotKey() string {
	return s.prefix + types.SnapshotKey
}

func (s *Store) historyKey() string {
	return s.prefix + "history"
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Load retrieves the snapshot.
// Returns types.ErrSnapshotNotFound if the key does not exist.
func (s *Store) Load(ctx context.Context) (types.Snapshot, error) {
	val, err := s.client.Get(ctx, s.snapshotKey()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return types.Snapshot{}, types.ErrSnapshotNotFound
		}
		return types.Snapshot{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	return types.DecodeSnapshot(val)
}

// Save stores the snapshot and pushes a history entry in one pipeline.
func (s *Store) Save(ctx context.Context, snap types.Snapshot, op string) error {
	data, err := snap.Encode()
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generating history id: %w", err)
	}
	entry, err := json.Marshal(types.HistoryEntry{
		HistoryID: id.String(),
		Operation: op,
		Count:     snap.Count,
		Cycle:     snap.CycleCount,
		Completed: snap.CompletedCycles,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.snapshotKey(), data, 0)
	pipe.LPush(ctx, s.historyKey(), entry)
	pipe.LTrim(ctx, s.historyKey(), 0, s.maxHistory-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// History returns up to limit entries, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	vals, err := s.client.LRange(ctx, s.historyKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]types.HistoryEntry, 0, len(vals))
	for _, v := range vals {
		var e types.HistoryEntry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	err := s.client.Close()
	if errors.Is(err, backend.ErrClosed) {
		return nil
	}
	return err
}
