package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/EricA1019/godot-mcp-index/internal/ignore"
	"github.com/EricA1019/godot-mcp-index/internal/indexstore"
	"github.com/EricA1019/godot-mcp-index/pkg/types"
)

func newTestStore(t *testing.T) *indexstore.Store {
	t.Helper()
	store, err := indexstore.Open(filepath.Join(t.TempDir(), "index"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStartStop_Idempotent(t *testing.T) {
	root := t.TempDir()
	store := newTestStore(t)
	ig := ignore.NewSet(ignore.DefaultDirs, nil, "")
	mon := New(store, ig, root, 50*time.Millisecond)

	status, err := mon.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, "started", status)

	status, err = mon.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, "already_running", status)

	require.Equal(t, "stopped", mon.Stop())
	require.Equal(t, "not_running", mon.Stop())
}

func TestMonitor_CreateThenQuery(t *testing.T) {
	root := t.TempDir()
	store := newTestStore(t)
	ig := ignore.NewSet(ignore.DefaultDirs, nil, "")
	mon := New(store, ig, root, 50*time.Millisecond)

	_, err := mon.Start(context.Background())
	require.NoError(t, err)
	defer mon.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("hello godot"), 0o644))

	require.Eventually(t, func() bool {
		hits, err := store.Search(context.Background(), "godot", 5)
		return err == nil && len(hits) == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestMonitor_DeleteRemovesDocument(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "b.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn main(){}"), 0o644))

	store := newTestStore(t)
	ig := ignore.NewSet(ignore.DefaultDirs, nil, "")

	_, err := store.ApplyBatch(context.Background(), []indexstore.Op{
		indexstore.Upsert("./b.rs", "fn main(){}", "code", "seed"),
	})
	require.NoError(t, err)

	mon := New(store, ig, root, 50*time.Millisecond)
	_, err = mon.Start(context.Background())
	require.NoError(t, err)
	defer mon.Stop()

	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool {
		health, err := store.HealthCheck(context.Background())
		return err == nil && health.DocCount == 0
	}, 2*time.Second, 20*time.Millisecond)
}

func TestMonitor_ModifySameContentIsNoOp(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.md")
	require.NoError(t, os.WriteFile(path, []byte("hello godot"), 0o644))

	store := newTestStore(t)
	ig := ignore.NewSet(ignore.DefaultDirs, nil, "")

	n, err := indexstoreScan(store, ig, root)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	before, err := store.HealthCheck(context.Background())
	require.NoError(t, err)

	mon := New(store, ig, root, 50*time.Millisecond)
	_, err = mon.Start(context.Background())
	require.NoError(t, err)
	defer mon.Stop()

	// Rewrite with identical bytes; should not bump segment/doc counts.
	require.NoError(t, os.WriteFile(path, []byte("hello godot"), 0o644))
	time.Sleep(300 * time.Millisecond)

	after, err := store.HealthCheck(context.Background())
	require.NoError(t, err)
	require.Equal(t, before.DocCount, after.DocCount)
	require.Equal(t, before.SegmentCount, after.SegmentCount)
}

// indexstoreScan seeds the store directly with a.md's current content and
// its real digest, without going through the scanner package.
func indexstoreScan(store *indexstore.Store, ig *ignore.Set, root string) (int, error) {
	data, err := os.ReadFile(filepath.Join(root, "a.md"))
	if err != nil {
		return 0, err
	}
	return store.ApplyBatch(context.Background(), []indexstore.Op{
		indexstore.Upsert("./a.md", string(data), "md", types.HashContent(string(data))),
	})
}
