package bundler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EricA1019/godot-mcp-index/internal/indexstore"
	"github.com/EricA1019/godot-mcp-index/pkg/types"
)

func TestBundleCached_HitAvoidsRestat(t *testing.T) {
	root := t.TempDir()
	store := newTestStore(t)
	seed(t, root, store, "a.md", "hello godot")

	cache := NewCache(8)
	req := Request{Query: "godot", Limit: DefaultLimit, CapBytes: DefaultCapBytes}

	first, err := BundleCached(context.Background(), store, root, req, cache)
	require.NoError(t, err)

	// Remove the file from disk; an uncached Bundle would now read zero
	// items, but the cached call must still return the memoized result.
	require.NoError(t, os.Remove(filepath.Join(root, "a.md")))

	second, err := BundleCached(context.Background(), store, root, req, cache)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestBundleCached_PurgeInvalidates(t *testing.T) {
	root := t.TempDir()
	store := newTestStore(t)
	seed(t, root, store, "a.md", "hello godot")

	cache := NewCache(8)
	req := Request{Query: "godot", Limit: DefaultLimit, CapBytes: DefaultCapBytes}

	_, err := BundleCached(context.Background(), store, root, req, cache)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "b.md"), []byte("another godot file"), 0o644))
	_, err = store.ApplyBatch(context.Background(), []indexstore.Op{
		indexstore.Upsert("./b.md", "another godot file", types.KindMarkdown, types.HashContent("another godot file")),
	})
	require.NoError(t, err)
	cache.Purge()

	result, err := BundleCached(context.Background(), store, root, req, cache)
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
}
