package types

import "errors"

// Error taxonomy for the master index and context bundler (spec §7).
var (
	// ErrIndexUnavailable means the underlying store cannot be opened,
	// committed to, or read. Never retried by the core.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrQueryInvalid means the query text could not be parsed.
	ErrQueryInvalid = errors.New("query invalid")

	// ErrPathIgnored means a caller-supplied path is excluded by the ignore
	// set. Treated as an empty result, never surfaced as a hard error.
	ErrPathIgnored = errors.New("path ignored")

	// ErrAlreadyRunning and ErrNotRunning report watcher lifecycle
	// violations as values, not as errors bubbled to callers (spec §7).
	ErrAlreadyRunning = errors.New("watcher already running")
	ErrNotRunning     = errors.New("watcher not running")
)
