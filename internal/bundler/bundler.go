package bundler

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/EricA1019/godot-mcp-index/internal/indexstore"
	"github.com/EricA1019/godot-mcp-index/pkg/types"
)

// DefaultLimit is the number of underlying index hits considered before
// deduplication and capping, used when Request.Limit is zero.
const DefaultLimit = 32

// DefaultCapBytes is the maximum total size of returned content, used
// when Request.CapBytes is zero.
const DefaultCapBytes = 64 * 1024

// quantizeStep rounds scores to this precision so ordering is stable
// across runs despite floating-point jitter in the underlying engine. The
// step is fine enough to keep apart FTS5 bm25 scores, which are on the
// order of 1e-6 when a term occurs in at least half of the documents.
const quantizeStep = 1e9

// Request is the input to Bundle. Limit and CapBytes are taken literally
// — Limit == 0 considers no hits and CapBytes == 0 caps the bundle at
// zero bytes — so filling in DefaultLimit/DefaultCapBytes for an omitted
// field is the caller's job (the Control Surface does this, per its
// default-filling responsibility).
type Request struct {
	Query    string
	Limit    int
	CapBytes int64
	Kind     types.Kind
}

type candidate struct {
	hit            types.AdvancedHit
	quantizedScore float64
	mtimeUnix      int64
}

// BundleCached behaves exactly like Bundle but consults cache first and
// populates it on a miss. A nil cache behaves identically to Bundle.
func BundleCached(ctx context.Context, store *indexstore.Store, root string, req Request, cache *Cache) (types.BundleResult, error) {
	if cache == nil {
		return Bundle(ctx, store, root, req)
	}
	if cached, ok := cache.get(root, req); ok {
		return cached, nil
	}
	result, err := Bundle(ctx, store, root, req)
	if err != nil {
		return result, err
	}
	cache.put(root, req, result)
	return result, nil
}

// Bundle runs Request against store, deduplicates by file family, re-reads
// each surviving file from disk under root, and assembles a byte-capped
// result in deterministic order.
func Bundle(ctx context.Context, store *indexstore.Store, root string, req Request) (types.BundleResult, error) {
	result := types.BundleResult{Query: req.Query}

	hits, err := store.SearchAdvanced(ctx, req.Query, req.Kind, req.Limit, false)
	if err != nil {
		return types.BundleResult{}, err
	}
	if len(hits) == 0 {
		return result, nil
	}

	candidates := make([]candidate, 0, len(hits))
	for _, h := range hits {
		candidates = append(candidates, candidate{
			hit:            h,
			quantizedScore: quantize(h.Score),
			mtimeUnix:      statMTime(root, h.Path),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.quantizedScore != b.quantizedScore {
			return a.quantizedScore > b.quantizedScore
		}
		if a.mtimeUnix != b.mtimeUnix {
			return a.mtimeUnix > b.mtimeUnix
		}
		return a.hit.Path < b.hit.Path
	})

	deduped := dedupeByFamily(candidates)

	budget := req.CapBytes
	var total int64
	var items []types.BundleItem
	for _, c := range deduped {
		content, err := readFile(root, c.hit.Path)
		if err != nil {
			continue
		}
		size := int64(len(content))
		if total+size > budget {
			break
		}
		items = append(items, types.BundleItem{
			Path:    c.hit.Path,
			Kind:    c.hit.Kind,
			Score:   c.hit.Score,
			Content: content,
		})
		total += size
	}

	result.Items = items
	result.SizeBytes = int(total)
	return result, nil
}

func quantize(score float64) float64 {
	return math.Round(score*quantizeStep) / quantizeStep
}

// dedupeByFamily keeps only the first candidate (in sorted order) per
// (parent_directory, file_stem) pair, collapsing near-duplicate variants
// of the same logical document.
func dedupeByFamily(candidates []candidate) []candidate {
	seen := make(map[[2]string]struct{}, len(candidates))
	out := make([]candidate, 0, len(candidates))
	for _, c := range candidates {
		dir, stem := types.FamilyKey(c.hit.Path)
		key := [2]string{dir, stem}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// statMTime returns the Unix mtime of path under root, or 0 if it cannot
// be stat'd (so the file sorts last among its quantized-score peers
// rather than erroring the whole bundle).
func statMTime(root, path string) int64 {
	info, err := os.Stat(toAbs(root, path))
	if err != nil {
		return 0
	}
	return info.ModTime().Unix()
}

// readFile re-reads path from disk rather than trusting the indexed copy,
// so bundle contents always reflect current filesystem state.
func readFile(root, path string) (string, error) {
	data, err := os.ReadFile(toAbs(root, path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func toAbs(root, path string) string {
	rel := path
	if len(rel) >= 2 && rel[:2] == "./" {
		rel = rel[2:]
	}
	return filepath.Join(root, filepath.FromSlash(rel))
}
