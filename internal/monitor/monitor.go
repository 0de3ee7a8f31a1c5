package monitor

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"

	"github.com/EricA1019/godot-mcp-index/internal/classify"
	"github.com/EricA1019/godot-mcp-index/internal/ignore"
	"github.com/EricA1019/godot-mcp-index/internal/indexstore"
	"github.com/EricA1019/godot-mcp-index/pkg/types"
)

// DefaultDebounce is the coalescing window applied to a save storm before
// the accumulated events are applied as one batch.
const DefaultDebounce = 300 * time.Millisecond

// DefaultMaxFileBytes mirrors the Scanner's default so a file straddling
// the size limit is treated identically whether discovered by scan or by
// watch.
const DefaultMaxFileBytes = 2 << 20

// pendingKind is the coalesced intent for a path within the current
// debounce window.
type pendingKind int

const (
	pendingUpsert pendingKind = iota
	pendingDelete
)

type pendingEntry struct {
	kind     pendingKind
	hadCreate bool
}

// Monitor watches a directory tree and keeps an Index Store converging
// toward it. Exactly one watcher goroutine runs per Monitor at a time.
type Monitor struct {
	store        *indexstore.Store
	ignore       *ignore.Set
	root         string
	debounce     time.Duration
	maxFileBytes int64

	mu      sync.Mutex // serializes Start/Stop
	running atomic.Bool
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	wg      sync.WaitGroup

	evMu    sync.Mutex
	pending map[string]pendingEntry
}

// New builds a Monitor for root. debounce <= 0 selects DefaultDebounce.
func New(store *indexstore.Store, ig *ignore.Set, root string, debounce time.Duration) *Monitor {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Monitor{
		store:        store,
		ignore:       ig,
		root:         root,
		debounce:     debounce,
		maxFileBytes: DefaultMaxFileBytes,
		pending:      make(map[string]pendingEntry),
	}
}

// Start begins watching. Calling Start while already running returns
// "already_running" without creating a second watcher.
func (m *Monitor) Start(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running.Load() {
		return "already_running", nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return "", types.ErrIndexUnavailable
	}

	rootAbs, err := filepath.Abs(m.root)
	if err != nil {
		_ = w.Close()
		return "", err
	}

	if err := registerWatches(w, m.ignore, rootAbs); err != nil {
		_ = w.Close()
		return "", err
	}

	m.watcher = w
	m.stopCh = make(chan struct{})
	m.running.Store(true)

	m.wg.Add(1)
	go m.run(rootAbs)

	return "started", nil
}

// Stop signals the watcher to unwind and waits for it to finish. Calling
// Stop while not running returns "not_running".
func (m *Monitor) Stop() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running.Load() {
		return "not_running"
	}

	close(m.stopCh)
	m.wg.Wait()
	_ = m.watcher.Close()
	m.watcher = nil
	m.running.Store(false)

	return "stopped"
}

// Running reports whether the watcher goroutine is active.
func (m *Monitor) Running() bool {
	return m.running.Load()
}

// registerWatches walks root and adds an fsnotify watch on every directory
// that survives the ignore set, pruning ignored subtrees entirely.
func registerWatches(w *fsnotify.Watcher, ig *ignore.Set, rootAbs string) error {
	return filepath.WalkDir(rootAbs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(rootAbs, path)
		if relErr == nil && rel != "." && ig.MatchDir(d.Name()) {
			return filepath.SkipDir
		}
		_ = w.Add(path)
		return nil
	})
}

// run is the watcher goroutine: it drains fsnotify events into the
// pending map and flushes on a debounce timer.
func (m *Monitor) run(rootAbs string) {
	defer m.wg.Done()

	timer := time.NewTimer(m.debounce)
	defer timer.Stop()
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-m.stopCh:
			return

		case ev, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.handleEvent(rootAbs, ev)
			if !armed {
				timer.Reset(m.debounce)
				armed = true
			}

		case <-timer.C:
			armed = false
			m.flush(context.Background(), rootAbs)

		case _, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			// Per-file watcher errors are logged and do not stop the loop.
			log.Printf("monitor: watcher error on %s", rootAbs)
		}
	}
}

// handleEvent classifies one fsnotify event into create/modify/delete,
// drops ignored paths, and folds it into the pending map under the
// coalescing rules: create+delete within the window cancels;
// create+modify and repeated modifies collapse to a single upsert.
func (m *Monitor) handleEvent(rootAbs string, ev fsnotify.Event) {
	rel, err := filepath.Rel(rootAbs, ev.Name)
	if err != nil {
		return
	}
	if m.ignore.MatchPath(rel) {
		return
	}

	if ev.Has(fsnotify.Create) {
		if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
			_ = registerWatches(m.watcher, m.ignore, ev.Name)
		}
	}

	path := types.NormalizePath(rel)

	m.evMu.Lock()
	defer m.evMu.Unlock()
	entry := m.pending[path]

	switch {
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		if entry.hadCreate {
			delete(m.pending, path)
			return
		}
		entry.kind = pendingDelete
	case ev.Has(fsnotify.Create):
		entry.hadCreate = true
		entry.kind = pendingUpsert
	case ev.Has(fsnotify.Write):
		entry.kind = pendingUpsert
	default:
		return
	}
	m.pending[path] = entry
}

// flush builds ops from the accumulated pending map, re-reading files and
// demoting no-longer-readable or unchanged-hash upserts, then submits
// everything as one apply_batch with deletes ordered before upserts.
func (m *Monitor) flush(ctx context.Context, rootAbs string) {
	m.evMu.Lock()
	snapshot := m.pending
	m.pending = make(map[string]pendingEntry)
	m.evMu.Unlock()

	if len(snapshot) == 0 {
		return
	}

	var deletes, upserts []indexstore.Op
	for path, entry := range snapshot {
		if entry.kind == pendingDelete {
			deletes = append(deletes, indexstore.Delete(path))
			continue
		}

		op, keep := m.buildUpsert(ctx, rootAbs, path)
		switch {
		case !keep:
			// Unchanged hash: true no-op, nothing to apply.
		case op.Kind == indexstore.OpDelete:
			deletes = append(deletes, op)
		default:
			upserts = append(upserts, op)
		}
	}

	batch := append(deletes, upserts...)
	if len(batch) == 0 {
		return
	}
	if _, err := m.store.ApplyBatch(ctx, batch); err != nil {
		log.Printf("monitor: apply_batch failed: %v", err)
	}
}

// buildUpsert re-reads path from disk and classifies it. keep is false
// when the content hash is unchanged from the indexed copy (a true no-op).
// A read failure or oversized/non-UTF-8 file demotes the event to a
// Delete, since the file is effectively gone from the index's perspective.
func (m *Monitor) buildUpsert(ctx context.Context, rootAbs, path string) (indexstore.Op, bool) {
	full := filepath.Join(rootAbs, filepath.FromSlash(path[2:])) // strip "./"

	info, err := os.Stat(full)
	if err != nil || info.Size() > m.maxFileBytes {
		return indexstore.Delete(path), true
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return indexstore.Delete(path), true
	}
	if !utf8.Valid(data) {
		return indexstore.Delete(path), true
	}

	content := string(data)
	hash := types.HashContent(content)

	if existing, found, err := m.store.GetHash(ctx, path); err == nil && found && existing == hash {
		return indexstore.Op{}, false
	}

	kind := classify.Kind(path)
	return indexstore.Upsert(path, content, kind, hash), true
}
