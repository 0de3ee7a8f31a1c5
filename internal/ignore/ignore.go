package ignore

import (
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultDirs is the fixed set of directory names excluded from both
// initial scan and change monitoring (spec §3): version-control metadata,
// build output, archival/backup dirs, engine import caches, dependency
// caches, and the index store's own on-disk directory is added separately
// per Set.
var DefaultDirs = []string{
	".git",
	".svn",
	".hg",
	"node_modules",
	"vendor",
	"dist",
	"build",
	"out",
	".godot",
	".import",
	"backup",
	"backups",
	".bak",
}

// Set evaluates whether a relative path should be excluded from indexing
// and watching.
type Set struct {
	dirs    map[string]struct{}
	indexDir string
	extra   *gitignore.GitIgnore
}

// NewSet builds a Set from the fixed directory names, any additional
// gitignore-style patterns from configuration, and the index store's own
// directory (always excluded so the index never indexes itself).
func NewSet(dirs []string, extraPatterns []string, indexDir string) *Set {
	m := make(map[string]struct{}, len(dirs))
	for _, d := range dirs {
		m[d] = struct{}{}
	}

	s := &Set{dirs: m, indexDir: normalizeSlash(indexDir)}
	if len(extraPatterns) > 0 {
		s.extra = gitignore.CompileIgnoreLines(extraPatterns...)
	}
	return s
}

// MatchPath reports whether p (slash- or OS-separated, relative to the scan
// root) should be ignored: any path component equals a fixed directory
// name, the path falls under the index store's own directory, or it
// matches an extra gitignore-style pattern.
func (s *Set) MatchPath(p string) bool {
	rel := normalizeSlash(p)
	rel = strings.TrimPrefix(rel, "./")

	for _, comp := range strings.Split(rel, "/") {
		if comp == "" {
			continue
		}
		if _, ok := s.dirs[comp]; ok {
			return true
		}
	}

	if s.indexDir != "" && (rel == s.indexDir || strings.HasPrefix(rel, s.indexDir+"/")) {
		return true
	}

	if s.extra != nil && s.extra.MatchesPath(rel) {
		return true
	}

	return false
}

// MatchDir reports whether a directory named name should be pruned from a
// walk entirely. It is a component-only check, cheaper than MatchPath.
func (s *Set) MatchDir(name string) bool {
	_, ok := s.dirs[name]
	return ok
}

func normalizeSlash(p string) string {
	return strings.ReplaceAll(filepath.ToSlash(p), "//", "/")
}
