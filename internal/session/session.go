// Package session owns the single Counter of a running process, loads it
// from a Store, persists it after every mutation and serializes access from
// multiple input surfaces.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/mala/internal/logging"
	"github.com/mesh-intelligence/mala/pkg/types"
)

// Session wraps a Counter with persistence and locking.
type Session struct {
	mu      sync.Mutex
	counter *types.Counter
	store   types.Store
	log     *slog.Logger

	observers []types.Observer
	pending   []types.Event // notifications raised by the running command
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithObserver registers an additional observer (metrics, haptics).
func WithObserver(o types.Observer) Option {
	return func(s *Session) {
		s.observers = append(s.observers, o)
	}
}

// Open loads the counter from store. A missing or unreadable snapshot falls
// back to defaults; the condition is logged and never returned.
func Open(ctx context.Context, store types.Store, opts ...Option) *Session {
	s := &Session{
		counter: types.NewCounter(),
		store:   store,
		log:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := store.Load(ctx)
	switch {
	case err == nil:
		s.counter.Restore(snap)
	case errors.Is(err, types.ErrSnapshotNotFound):
		s.log.Debug("no saved snapshot, starting fresh")
	default:
		s.log.Warn("saved snapshot unreadable, starting fresh", "error", err)
	}

	s.counter.Subscribe(types.ObserverFunc(s.observe))
	for _, o := range s.observers {
		s.counter.Subscribe(o)
	}
	return s
}

// observe runs under s.mu: it persists on every change and collects
// cycle and goal notifications for the caller.
func (s *Session) observe(e types.Event) {
	switch e.Kind {
	case types.EventChanged:
		s.persist(e.State, e.Op)
	default:
		s.pending = append(s.pending, e)
	}
}

// persist is fire-and-forget: failures are logged, not surfaced.
func (s *Session) persist(snap types.Snapshot, op string) {
	if err := s.store.Save(context.Background(), snap, op); err != nil {
		s.log.Error("saving snapshot", "op", op, "error", err)
		return
	}
	s.log.Debug("snapshot saved", "op", op, "count", snap.Count)
}

// Snapshot returns the current state.
func (s *Session) Snapshot() types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter.Snapshot()
}

// Progress returns the current view model.
func (s *Session) Progress() types.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter.Progress()
}

// History reads the store's mutation history.
func (s *Session) History(ctx context.Context, limit int) ([]types.HistoryEntry, error) {
	return s.store.History(ctx, limit)
}

// Import replaces the counter state with snap and persists it.
func (s *Session) Import(snap types.Snapshot) types.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter.Restore(snap)
	restored := s.counter.Snapshot()
	s.persist(restored, types.OpImport)
	return restored
}

// Close releases the store.
func (s *Session) Close() error {
	return s.store.Close()
}
