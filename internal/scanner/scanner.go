package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"github.com/charlievieth/fastwalk"
	"golang.org/x/sync/errgroup"

	"github.com/EricA1019/godot-mcp-index/internal/classify"
	"github.com/EricA1019/godot-mcp-index/internal/ignore"
	"github.com/EricA1019/godot-mcp-index/internal/indexstore"
	"github.com/EricA1019/godot-mcp-index/pkg/types"
)

// DefaultMaxFileBytes is used when Options.MaxFileBytes is zero.
const DefaultMaxFileBytes = 2 << 20 // 2 MiB

// Options tunes a single Scan or Reconcile call.
type Options struct {
	// MaxFileBytes is the largest file size that is read and indexed; files
	// one byte larger are silently skipped. Zero selects DefaultMaxFileBytes.
	MaxFileBytes int64
}

func (o Options) maxBytes() int64 {
	if o.MaxFileBytes > 0 {
		return o.MaxFileBytes
	}
	return DefaultMaxFileBytes
}

// Scan walks root (directories are traversed in parallel, in no fixed
// order), classifies and reads every surviving file,
// and submits one Upsert per file in a single apply_batch. It never
// deletes: a file that vanished since a previous scan is left alone (see
// Reconcile for a full sweep). Returns the number of upserts applied.
func (o Options) Scan(ctx context.Context, store *indexstore.Store, ig *ignore.Set, root string) (int, error) {
	ops, _, err := walkUpserts(ctx, ig, root, o.maxBytes())
	if err != nil {
		return 0, err
	}
	return store.ApplyBatch(ctx, ops)
}

// Scan is a package-level convenience wrapping Options{}.Scan.
func Scan(ctx context.Context, store *indexstore.Store, ig *ignore.Set, root string) (int, error) {
	return Options{}.Scan(ctx, store, ig, root)
}

// Reconcile performs a full sweep: every currently-live, non-ignored file
// under root is upserted exactly as in Scan, and every indexed path that no
// longer corresponds to a live file is deleted. This is the explicit
// full-sweep operation the plain Scan intentionally omits.
func (o Options) Reconcile(ctx context.Context, store *indexstore.Store, ig *ignore.Set, root string) (int, error) {
	// The filesystem walk and the existing-index listing touch unrelated
	// resources, so they run concurrently rather than back to back.
	var (
		ops  []indexstore.Op
		live map[string]struct{}
		idx  []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ops, live, err = walkUpserts(gctx, ig, root, o.maxBytes())
		return err
	})
	g.Go(func() error {
		var err error
		idx, err = store.ListPaths(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	indexed := idx

	deletes := make([]indexstore.Op, 0)
	for _, p := range indexed {
		if _, ok := live[p]; !ok {
			deletes = append(deletes, indexstore.Delete(p))
		}
	}

	// Deletes precede upserts within the batch (the same ordering rule the
	// Change Monitor follows), so a path that both vanished and reappeared
	// under a different case/normalization resolves correctly.
	batch := append(deletes, ops...)
	return store.ApplyBatch(ctx, batch)
}

// Reconcile is a package-level convenience wrapping Options{}.Reconcile.
func Reconcile(ctx context.Context, store *indexstore.Store, ig *ignore.Set, root string) (int, error) {
	return Options{}.Reconcile(ctx, store, ig, root)
}

// walkUpserts walks root and returns one Upsert op per surviving file,
// along with the set of normalized live paths observed (used by Reconcile
// to compute deletions). fastwalk parallelizes directory traversal across
// goroutines, so entries are accumulated under a mutex.
func walkUpserts(ctx context.Context, ig *ignore.Set, root string, maxBytes int64) ([]indexstore.Op, map[string]struct{}, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, fmt.Errorf("scanner: resolve root: %w", err)
	}

	var (
		mu   sync.Mutex
		ops  []indexstore.Op
		live = make(map[string]struct{})
	)

	conf := fastwalk.Config{Follow: false}
	walkErr := fastwalk.Walk(&conf, rootAbs, func(path string, d fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if walkErr != nil {
			return nil
		}

		rel, err := filepath.Rel(rootAbs, path)
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if rel != "." && ig.MatchDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if ig.MatchPath(rel) {
			return nil
		}

		op, ok := buildUpsert(path, rel, maxBytes)
		if !ok {
			return nil
		}

		mu.Lock()
		ops = append(ops, op)
		live[op.Path] = struct{}{}
		mu.Unlock()
		return nil
	})
	if walkErr != nil && ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}
	if walkErr != nil {
		return nil, nil, fmt.Errorf("scanner: walk %s: %w", rootAbs, walkErr)
	}

	return ops, live, nil
}

// buildUpsert reads path and classifies it into an Op. A file that exceeds
// maxBytes or is not valid UTF-8 is silently skipped, per the ignore
// discipline documents require for free-text indexing.
func buildUpsert(path, rel string, maxBytes int64) (indexstore.Op, bool) {
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxBytes {
		return indexstore.Op{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return indexstore.Op{}, false
	}
	if !utf8.Valid(data) {
		return indexstore.Op{}, false
	}

	content := string(data)
	normPath := types.NormalizePath(rel)
	kind := classify.Kind(normPath)
	hash := types.HashContent(content)

	return indexstore.Upsert(normPath, content, kind, hash), true
}
