// Package indexstore implements the persistent inverted index over
// indexed Documents: a single SQLite FTS5 virtual table keyed by
// normalized path, with write batching and fresh-reader-per-query search.
//
// Upserts are implemented as a delete-by-path followed by an add within
// the same batch, because FTS5 content tables do not enforce per-key
// uniqueness on their own; the Store is what maintains the one-document-
// per-path invariant.
//
// # Basic Usage
//
//	store, err := indexstore.Open(".godotmcp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	n, err := store.ApplyBatch(ctx, []indexstore.Op{
//	    indexstore.Upsert("./a.md", "hello godot", types.KindMarkdown, hash),
//	})
//
//	hits, err := store.Search(ctx, "godot", 10)
package indexstore
