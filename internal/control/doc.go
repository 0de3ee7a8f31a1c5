// Package control implements the Control Surface: a thin,
// transport-agnostic dispatcher that owns the single IndexStore instance
// and a mutex-guarded handle to the Change Monitor, mapping external
// requests (health, scan, query, query_advanced, bundle, watch_start,
// watch_stop, index_health, reconcile) onto the Scanner, Monitor, and
// Bundler packages. Argument validation and default-filling for optional
// fields live here; everything else is delegated.
//
// # Basic Usage
//
//	surface := control.New(store, ignoreSet, root, control.Options{})
//	if cfg.Server.AutoStartWatchers {
//	    _, _ = surface.WatchStart(ctx)
//	}
package control
