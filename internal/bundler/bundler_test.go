package bundler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

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

func seed(t *testing.T, root string, store *indexstore.Store, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	_, err := store.ApplyBatch(context.Background(), []indexstore.Op{
		indexstore.Upsert("./"+name, content, types.KindMarkdown, types.HashContent(content)),
	})
	require.NoError(t, err)
}

func TestBundle_CapEnforcement(t *testing.T) {
	root := t.TempDir()
	store := newTestStore(t)

	body := strings.Repeat("foo bar baz ", 2500) // ~30KiB
	seed(t, root, store, "one.md", body)
	seed(t, root, store, "two.md", body)
	seed(t, root, store, "three.md", body)

	result, err := Bundle(context.Background(), store, root, Request{
		Query: "foo", Limit: DefaultLimit, CapBytes: 65536,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.LessOrEqual(t, result.SizeBytes, 65536)
}

func TestBundle_ZeroCapReturnsEmpty(t *testing.T) {
	root := t.TempDir()
	store := newTestStore(t)
	seed(t, root, store, "a.md", "hello godot")

	result, err := Bundle(context.Background(), store, root, Request{
		Query: "godot", Limit: DefaultLimit, CapBytes: 0,
	})
	require.NoError(t, err)
	require.Empty(t, result.Items)
	require.Equal(t, 0, result.SizeBytes)
}

func TestBundle_FamilyDedup(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))
	store := newTestStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "x.md"), []byte("scene validator notes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "docs", "x.html"), []byte("scene validator notes rendered"), 0o644))
	_, err := store.ApplyBatch(context.Background(), []indexstore.Op{
		indexstore.Upsert("./docs/x.md", "scene validator notes", types.KindMarkdown, "h1"),
		indexstore.Upsert("./docs/x.html", "scene validator notes rendered", types.KindOther, "h2"),
	})
	require.NoError(t, err)

	result, err := Bundle(context.Background(), store, root, Request{
		Query: "scene validator", Limit: DefaultLimit, CapBytes: DefaultCapBytes,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, "./docs/x.md", result.Items[0].Path)
}

func TestBundle_Determinism(t *testing.T) {
	root := t.TempDir()
	store := newTestStore(t)
	seed(t, root, store, "a.md", "hello godot")
	seed(t, root, store, "b.md", "hello godot world")

	req := Request{Query: "godot", Limit: DefaultLimit, CapBytes: DefaultCapBytes}
	first, err := Bundle(context.Background(), store, root, req)
	require.NoError(t, err)
	second, err := Bundle(context.Background(), store, root, req)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
