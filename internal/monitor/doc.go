// Package monitor implements the long-running Change Monitor: a
// recursive fsnotify watcher that coalesces filesystem events over a
// short debounce window and applies the resulting differential update to
// an Index Store as one batch.
//
// Start and Stop are idempotent: a second Start while running reports
// already_running rather than spawning a second watcher, and a second
// Stop reports not_running.
//
// # Basic Usage
//
//	mon := monitor.New(store, ignoreSet, root, monitor.DefaultDebounce)
//	status, err := mon.Start(ctx)
//	...
//	status = mon.Stop()
package monitor
