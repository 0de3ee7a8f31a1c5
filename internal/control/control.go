package control

import (
	"context"
	"time"

	"github.com/EricA1019/godot-mcp-index/internal/bundler"
	"github.com/EricA1019/godot-mcp-index/internal/indexstore"
	"github.com/EricA1019/godot-mcp-index/internal/ignore"
	"github.com/EricA1019/godot-mcp-index/internal/monitor"
	"github.com/EricA1019/godot-mcp-index/internal/scanner"
	"github.com/EricA1019/godot-mcp-index/pkg/types"
)

// Default values filled in for optional request fields, the
// default-filling responsibility this package owns on behalf of every
// transport binding.
const (
	DefaultQueryLimit = 10
)

// Options tunes a Surface.
type Options struct {
	Debounce time.Duration
}

// Surface is the Control Surface: the sole externally visible entrypoint
// onto the core. It owns the IndexStore and a mutex-guarded Monitor
// handle; see monitor.Monitor for the actual start/stop serialization.
type Surface struct {
	store       *indexstore.Store
	ignore      *ignore.Set
	root        string
	mon         *monitor.Monitor
	bundleCache *bundler.Cache
}

// New builds a Surface over an already-open store. The bundle cache is
// wired to the store's write hook so any apply_batch — whether from Scan,
// Reconcile, or the Change Monitor — invalidates cached bundles before the
// call that triggered it returns.
func New(store *indexstore.Store, ig *ignore.Set, root string, opts Options) *Surface {
	s := &Surface{
		store:       store,
		ignore:      ig,
		root:        root,
		mon:         monitor.New(store, ig, root, opts.Debounce),
		bundleCache: bundler.NewCache(bundler.DefaultCacheSize),
	}
	store.OnWrite(s.bundleCache.Purge)
	return s
}

// HealthResult is the response to Health.
type HealthResult struct {
	Status string `json:"status"`
}

// Health reports that the Control Surface is reachable.
func (s *Surface) Health(ctx context.Context) HealthResult {
	return HealthResult{Status: "ok"}
}

// ScanResult is the response to Scan and Reconcile.
type ScanResult struct {
	Indexed int `json:"indexed"`
}

// Scan runs a one-shot additive scan. An empty path defaults to the
// configured scan root.
func (s *Surface) Scan(ctx context.Context, path string) (ScanResult, error) {
	root := s.resolveRoot(path)
	n, err := scanner.Scan(ctx, s.store, s.ignore, root)
	if err != nil {
		return ScanResult{}, err
	}
	return ScanResult{Indexed: n}, nil
}

// Reconcile runs a full sweep: every live file is upserted and every
// indexed path with no corresponding live file is deleted.
func (s *Surface) Reconcile(ctx context.Context, path string) (ScanResult, error) {
	root := s.resolveRoot(path)
	n, err := scanner.Reconcile(ctx, s.store, s.ignore, root)
	if err != nil {
		return ScanResult{}, err
	}
	return ScanResult{Indexed: n}, nil
}

// QueryHit is one entry of QueryResult.Hits.
type QueryHit struct {
	Score float64 `json:"score"`
	Path  string  `json:"path"`
}

// QueryResult is the response to Query.
type QueryResult struct {
	Hits []QueryHit `json:"hits"`
}

// Query runs a plain free-text search. A nil limit selects
// DefaultQueryLimit; an explicit zero is honored literally and returns no
// hits, per the omitted-vs-zero distinction the Control Surface owns.
func (s *Surface) Query(ctx context.Context, q string, limit *int) (QueryResult, error) {
	n := DefaultQueryLimit
	if limit != nil {
		n = *limit
	}
	hits, err := s.store.Search(ctx, q, n)
	if err != nil {
		return QueryResult{}, err
	}
	out := make([]QueryHit, len(hits))
	for i, h := range hits {
		out[i] = QueryHit{Score: h.Score, Path: h.Path}
	}
	return QueryResult{Hits: out}, nil
}

// AdvancedHit is one entry of an advanced query's result list.
type AdvancedHit struct {
	Score   float64 `json:"score"`
	Path    string  `json:"path"`
	Kind    string  `json:"kind"`
	Snippet string  `json:"snippet,omitempty"`
}

// QueryAdvancedRequest is the input to QueryAdvanced. A nil Limit selects
// DefaultQueryLimit; an explicit zero is honored literally (zero hits).
type QueryAdvancedRequest struct {
	Query   string
	Kind    string
	Limit   *int
	Snippet bool
}

// QueryAdvanced runs a kind-filtered search, optionally with snippets.
func (s *Surface) QueryAdvanced(ctx context.Context, req QueryAdvancedRequest) ([]AdvancedHit, error) {
	limit := DefaultQueryLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	hits, err := s.store.SearchAdvanced(ctx, req.Query, types.Kind(req.Kind), limit, req.Snippet)
	if err != nil {
		return nil, err
	}
	out := make([]AdvancedHit, len(hits))
	for i, h := range hits {
		out[i] = AdvancedHit{Score: h.Score, Path: h.Path, Kind: string(h.Kind), Snippet: h.Snippet}
	}
	return out, nil
}

// IndexHealthResult is the response to IndexHealth.
type IndexHealthResult struct {
	Docs     int `json:"docs"`
	Segments int `json:"segments"`
}

// IndexHealth reports index document and segment counts.
func (s *Surface) IndexHealth(ctx context.Context) (IndexHealthResult, error) {
	h, err := s.store.HealthCheck(ctx)
	if err != nil {
		return IndexHealthResult{}, err
	}
	return IndexHealthResult{Docs: h.DocCount, Segments: h.SegmentCount}, nil
}

// WatchStart starts the Change Monitor; idempotent (see monitor.Monitor).
func (s *Surface) WatchStart(ctx context.Context) (string, error) {
	return s.mon.Start(ctx)
}

// WatchStop stops the Change Monitor; idempotent (see monitor.Monitor).
func (s *Surface) WatchStop() string {
	return s.mon.Stop()
}

// AutoStartWatchers invokes WatchStart during startup when the
// configuration flag requesting it is set. Errors are returned to the
// caller (typically logged, not fatal) rather than panicking boot.
func (s *Surface) AutoStartWatchers(ctx context.Context) (string, error) {
	return s.WatchStart(ctx)
}

// BundleRequest is the input to Bundle. A nil Limit/CapBytes selects the
// package default (bundler.DefaultLimit / bundler.DefaultCapBytes); an
// explicit zero is honored literally — CapBytes == 0 returns an empty
// bundle. Filling in the omitted case is this layer's job, per the
// Control Surface's default-filling responsibility.
type BundleRequest struct {
	Query    string
	Limit    *int
	CapBytes *int64
	Kind     string
}

// Bundle assembles a ranked, deduplicated, byte-capped context bundle.
func (s *Surface) Bundle(ctx context.Context, req BundleRequest) (types.BundleResult, error) {
	limit := bundler.DefaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}
	capBytes := int64(bundler.DefaultCapBytes)
	if req.CapBytes != nil {
		capBytes = *req.CapBytes
	}
	return bundler.BundleCached(ctx, s.store, s.root, bundler.Request{
		Query:    req.Query,
		Limit:    limit,
		CapBytes: capBytes,
		Kind:     types.Kind(req.Kind),
	}, s.bundleCache)
}

func (s *Surface) resolveRoot(path string) string {
	if path == "" {
		return s.root
	}
	return path
}
