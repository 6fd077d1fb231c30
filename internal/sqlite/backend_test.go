// Tests for the SQLite backend.
package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mala/pkg/types"
)

func newTestBackend(t *testing.T, dataDir string, strategy string) *Backend {
	t.Helper()
	b := NewBackend()
	err := b.Attach(types.Config{
		Backend:      types.BackendSQLite,
		DataDir:      dataDir,
		SyncStrategy: strategy,
	})
	require.NoError(t, err)
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()
	b := newTestBackend(t, tmpDir, "")

	for _, name := range []string{dbFile, counterFile, historyFile} {
		_, err := os.Stat(filepath.Join(tmpDir, name))
		assert.NoError(t, err, "%s not created", name)
	}

	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir})
	assert.ErrorIs(t, err, ErrAlreadyAttached)
}

func TestBackend_AttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendRedis, Redis: types.RedisConfig{Addr: "x:1"}}), types.ErrBackendUnknown)
}

func TestBackend_Detach(t *testing.T) {
	b := newTestBackend(t, t.TempDir(), "")

	require.NoError(t, b.Detach())
	assert.NoError(t, b.Detach(), "second Detach should not error")

	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	assert.ErrorIs(t, b.Save(context.Background(), types.DefaultSnapshot(), types.OpIncrement), types.ErrStoreClosed)
}

func TestBackend_LoadEmpty(t *testing.T) {
	b := newTestBackend(t, t.TempDir(), "")

	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, types.ErrSnapshotNotFound)
}

func TestBackend_SaveLoad(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t, t.TempDir(), "")

	snap := types.Snapshot{Mode: types.ModeMantra, Count: 120, CycleCount: 12, CompletedCycles: 1, CycleSize: 108, GoalCycles: 3}
	require.NoError(t, b.Save(ctx, snap, types.OpIncrement))

	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestBackend_PersistsAcrossAttach(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	b := NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}
	require.NoError(t, b.Attach(cfg))

	c := types.NewCounter()
	for i := 0; i < 5; i++ {
		c.Increment()
		require.NoError(t, b.Save(ctx, c.Snapshot(), types.OpIncrement))
	}
	require.NoError(t, b.Detach())

	b2 := newTestBackend(t, tmpDir, "")
	got, err := b2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Count)
	assert.Equal(t, 5, got.CycleCount)

	hist, err := b2.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, hist, 5)
}

func TestBackend_CounterJSONLHoldsOneRecord(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	b := newTestBackend(t, tmpDir, "")

	for i := 0; i < 3; i++ {
		require.NoError(t, b.Save(ctx, types.DefaultSnapshot(), types.OpIncrement))
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, counterFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"key":"divineCounterData"`)
	assert.Contains(t, lines[0], `"beadsPerCycle":100`)

	hist, err := os.ReadFile(filepath.Join(tmpDir, historyFile))
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(hist), "\n"))
}

func TestBackend_History(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t, t.TempDir(), "")

	c := types.NewCounter()
	c.Increment()
	require.NoError(t, b.Save(ctx, c.Snapshot(), types.OpIncrement))
	c.Increment()
	require.NoError(t, b.Save(ctx, c.Snapshot(), types.OpIncrement))
	c.Decrement()
	require.NoError(t, b.Save(ctx, c.Snapshot(), types.OpDecrement))

	hist, err := b.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, types.OpDecrement, hist[0].Operation)
	assert.Equal(t, 1, hist[0].Count)
	assert.Equal(t, types.OpIncrement, hist[1].Operation)
	assert.Equal(t, 2, hist[1].Count)
	assert.NotEmpty(t, hist[0].HistoryID)
	assert.False(t, hist[0].CreatedAt.IsZero())
}

func TestBackend_OnCloseDefersJSONL(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: tmpDir, SyncStrategy: types.SyncOnClose}))

	c := types.NewCounter()
	for i := 0; i < 3; i++ {
		c.Increment()
		require.NoError(t, b.Save(ctx, c.Snapshot(), types.OpIncrement))
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, counterFile))
	require.NoError(t, err)
	assert.Empty(t, data, "on_close must not write before Detach")
	assert.Len(t, b.pendingWrites, 4, "snapshot writes coalesce, history writes queue")

	require.NoError(t, b.Detach())

	b2 := newTestBackend(t, tmpDir, "")
	got, err := b2.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Count)
	hist, err := b2.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, hist, 3)
}

func TestBackend_CorruptSnapshotFallsBack(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	corrupt := `{"key":"divineCounterData","value":{"count":"lots"},"updated_at":"2026-01-01T00:00:00.000000Z"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, counterFile), []byte(corrupt), 0o644))

	b := newTestBackend(t, tmpDir, "")
	got, err := b.Load(ctx)
	assert.Error(t, err)
	assert.Equal(t, types.DefaultSnapshot(), got)
}

func TestBackend_MalformedLinesSkipped(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	content := "not json\n" +
		`{"key":"divineCounterData","value":{"count":9,"cycleCount":9},"updated_at":"2026-01-01T00:00:00.000000Z"}` + "\n" +
		"{broken\n"
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, counterFile), []byte(content), 0o644))

	b := newTestBackend(t, tmpDir, "")
	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Count)
	assert.Equal(t, types.DefaultCycleSize, got.CycleSize, "absent fields keep defaults")
}
