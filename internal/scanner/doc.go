// Package scanner performs a one-shot bulk walk of a repository tree,
// classifying and upserting every surviving file into an Index Store in a
// single batch.
//
// The walk itself is additive only: files that vanished since a previous
// scan are left alone (Reconcile, not Scan, removes them). This mirrors
// the split between a cheap incremental refresh and an explicit full
// sweep.
//
// # Basic Usage
//
//	n, err := scanner.Options{}.Scan(ctx, store, ignoreSet, "/path/to/project")
package scanner
