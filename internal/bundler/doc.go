// Package bundler implements the Context Bundler: it turns a free-text
// query into a ranked, family-deduplicated, byte-capped set of file
// snippets suitable for a downstream reasoning agent.
//
// Ordering is made deterministic by quantizing each hit's raw relevance
// score before sorting, so floating-point jitter in the underlying engine
// never changes result order across runs with an unchanged index. Ties
// within a quantized score band prefer more recently modified files
// (by filesystem mtime, read at bundle time), then break on ascending
// path.
//
// # Basic Usage
//
//	result, err := bundler.Bundle(ctx, store, root, bundler.Request{
//	    Query:    "scene validator",
//	    Limit:    bundler.DefaultLimit,
//	    CapBytes: bundler.DefaultCapBytes,
//	})
package bundler
