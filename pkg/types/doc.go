// Package types provides the shared domain types for the master index and
// context bundler: the indexed Document, the Kind classifier, and the
// BundleItem/BundleResult shapes returned by the context bundler.
//
// # Core Types
//
// Document is the unit of indexing, keyed by normalized relative path:
//
//	doc := types.Document{
//	    Path:    "./scenes/player.tscn",
//	    Content: sceneText,
//	    Kind:    types.KindScene,
//	    Hash:    types.HashContent(sceneText),
//	}
//
// BundleItem is a single entry in a context bundle, produced by the bundler
// from a ranked, deduplicated search hit:
//
//	item := types.BundleItem{
//	    Path:    "./docs/validator.md",
//	    Kind:    types.KindMarkdown,
//	    Score:   12.4,
//	    Content: fileBytes,
//	}
package types
