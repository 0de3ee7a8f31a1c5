package control

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/EricA1019/godot-mcp-index/internal/ignore"
	"github.com/EricA1019/godot-mcp-index/internal/indexstore"
)

func newTestSurface(t *testing.T) (*Surface, string) {
	t.Helper()
	root := t.TempDir()
	store, err := indexstore.Open(filepath.Join(t.TempDir(), "index"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ig := ignore.NewSet(ignore.DefaultDirs, nil, "")
	return New(store, ig, root, Options{Debounce: 50 * time.Millisecond}), root
}

func TestSurface_Health(t *testing.T) {
	s, _ := newTestSurface(t)
	require.Equal(t, "ok", s.Health(context.Background()).Status)
}

func TestSurface_ScanThenQuery(t *testing.T) {
	s, root := newTestSurface(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("scene validator notes"), 0o644))

	scanResult, err := s.Scan(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 1, scanResult.Indexed)

	queryResult, err := s.Query(context.Background(), "validator", nil)
	require.NoError(t, err)
	require.Len(t, queryResult.Hits, 1)
	require.Equal(t, "./notes.md", queryResult.Hits[0].Path)
}

func TestSurface_QueryLimitZeroIsEmpty(t *testing.T) {
	s, root := newTestSurface(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("scene validator notes"), 0o644))
	_, err := s.Scan(context.Background(), "")
	require.NoError(t, err)

	zero := 0
	result, err := s.Query(context.Background(), "validator", &zero)
	require.NoError(t, err)
	require.Empty(t, result.Hits)
}

func TestSurface_ReconcileRemovesDeletedFile(t *testing.T) {
	s, root := newTestSurface(t)
	path := filepath.Join(root, "stale.md")
	require.NoError(t, os.WriteFile(path, []byte("stale content"), 0o644))
	_, err := s.Scan(context.Background(), "")
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	_, err = s.Reconcile(context.Background(), "")
	require.NoError(t, err)

	result, err := s.Query(context.Background(), "stale", nil)
	require.NoError(t, err)
	require.Empty(t, result.Hits)
}

func TestSurface_BundleZeroCapIsEmpty(t *testing.T) {
	s, root := newTestSurface(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("hello godot"), 0o644))
	_, err := s.Scan(context.Background(), "")
	require.NoError(t, err)

	var zeroCap int64
	result, err := s.Bundle(context.Background(), BundleRequest{Query: "godot", CapBytes: &zeroCap})
	require.NoError(t, err)
	require.Empty(t, result.Items)
	require.Equal(t, 0, result.SizeBytes)
}

func TestSurface_BundleOmittedCapUsesDefault(t *testing.T) {
	s, root := newTestSurface(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("hello godot"), 0o644))
	_, err := s.Scan(context.Background(), "")
	require.NoError(t, err)

	result, err := s.Bundle(context.Background(), BundleRequest{Query: "godot"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Items)
}

func TestSurface_BundleCacheInvalidatedOnWrite(t *testing.T) {
	s, root := newTestSurface(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("hello godot"), 0o644))
	_, err := s.Scan(context.Background(), "")
	require.NoError(t, err)

	first, err := s.Bundle(context.Background(), BundleRequest{Query: "godot"})
	require.NoError(t, err)
	require.Len(t, first.Items, 1)

	require.NoError(t, os.WriteFile(filepath.Join(root, "b.md"), []byte("another godot file"), 0o644))
	_, err = s.Scan(context.Background(), "")
	require.NoError(t, err)

	second, err := s.Bundle(context.Background(), BundleRequest{Query: "godot"})
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
}

func TestSurface_WatchStartStopIdempotent(t *testing.T) {
	s, _ := newTestSurface(t)
	status, err := s.WatchStart(context.Background())
	require.NoError(t, err)
	require.Equal(t, "started", status)

	status, err = s.WatchStart(context.Background())
	require.NoError(t, err)
	require.Equal(t, "already_running", status)

	require.Equal(t, "stopped", s.WatchStop())
	require.Equal(t, "not_running", s.WatchStop())
}

func TestSurface_IndexHealth(t *testing.T) {
	s, root := newTestSurface(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("hello"), 0o644))
	_, err := s.Scan(context.Background(), "")
	require.NoError(t, err)

	health, err := s.IndexHealth(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, health.Docs)
}
