package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EricA1019/godot-mcp-index/internal/ignore"
	"github.com/EricA1019/godot-mcp-index/internal/indexstore"
)

func newTestStore(t *testing.T) *indexstore.Store {
	t.Helper()
	store, err := indexstore.Open(filepath.Join(t.TempDir(), "index"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestScan_IndexesSurvivingFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("hello godot"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.rs"), []byte("fn main(){}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte("ref: refs/heads/main"), 0o644))

	store := newTestStore(t)
	ig := ignore.NewSet(ignore.DefaultDirs, nil, "")

	n, err := Scan(context.Background(), store, ig, root)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	hits, err := store.Search(context.Background(), "godot", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "./a.md", hits[0].Path)
}

func TestScan_SkipsOversizedAndNonUTF8Files(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "ok.md"), []byte("small"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "binary.bin"), []byte{0xff, 0xfe, 0x00, 0x80}, 0o644))

	store := newTestStore(t)
	ig := ignore.NewSet(ignore.DefaultDirs, nil, "")

	n, err := (Options{MaxFileBytes: 3}).Scan(context.Background(), store, ig, root)
	require.NoError(t, err)
	require.Equal(t, 0, n) // "small" (5 bytes) exceeds the 3-byte cap, binary.bin isn't UTF-8
}

func TestScan_IsIdempotent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.md"), []byte("hello godot"), 0o644))

	store := newTestStore(t)
	ig := ignore.NewSet(ignore.DefaultDirs, nil, "")
	ctx := context.Background()

	_, err := Scan(ctx, store, ig, root)
	require.NoError(t, err)
	first, err := store.HealthCheck(ctx)
	require.NoError(t, err)

	_, err = Scan(ctx, store, ig, root)
	require.NoError(t, err)
	second, err := store.HealthCheck(ctx)
	require.NoError(t, err)

	require.Equal(t, first.DocCount, second.DocCount)
}

func TestReconcile_RemovesVanishedFiles(t *testing.T) {
	root := t.TempDir()
	aPath := filepath.Join(root, "a.md")
	bPath := filepath.Join(root, "b.rs")
	require.NoError(t, os.WriteFile(aPath, []byte("hello godot"), 0o644))
	require.NoError(t, os.WriteFile(bPath, []byte("fn main(){}"), 0o644))

	store := newTestStore(t)
	ig := ignore.NewSet(ignore.DefaultDirs, nil, "")
	ctx := context.Background()

	_, err := Scan(ctx, store, ig, root)
	require.NoError(t, err)

	require.NoError(t, os.Remove(bPath))

	n, err := Reconcile(ctx, store, ig, root)
	require.NoError(t, err)
	require.Equal(t, 2, n) // 1 delete + 1 re-applied upsert for a.md

	health, err := store.HealthCheck(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, health.DocCount)
}
