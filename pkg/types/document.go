package types

import (
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"
)

// Kind classifies an indexed file by extension or location.
type Kind string

const (
	KindMarkdown Kind = "md"
	KindCode     Kind = "code"
	KindScene    Kind = "scene"
	KindConfig   Kind = "config"
	KindAsset    Kind = "asset"
	KindOther    Kind = "other"
)

// Document is the unit of indexing. Path is the primary key: normalized,
// forward-slashed, and prefixed "./".
type Document struct {
	Path    string
	Content string
	Kind    Kind
	Hash    string
}

// NormalizePath rewrites p into the canonical form used as a Document's
// Path: forward slashes, no leading "./" duplication, always "./"-prefixed.
func NormalizePath(p string) string {
	p = filepathToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	if p == "" || p == "." {
		return "./"
	}
	return "./" + p
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// HashContent returns the stable digest used as a Document's Hash.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// FamilyKey returns the (parent directory, file stem) pair used by the
// bundler to collapse near-duplicate variants of the same logical file.
func FamilyKey(p string) (dir, stem string) {
	dir = path.Dir(p)
	base := path.Base(p)
	stem = base
	if idx := strings.IndexByte(base, '.'); idx > 0 {
		stem = base[:idx]
	}
	return dir, stem
}
