//go:build purego

package indexstore

// This file is compiled with the purego tag, selecting a pure-Go SQLite
// implementation that needs no C compiler and cross-compiles cleanly.
//
// Build command:
//   CGO_ENABLED=0 go build -tags purego ./...
//
// Driver used: modernc.org/sqlite

import (
	_ "modernc.org/sqlite"
)

const (
	// driverName is the SQLite driver to register queries against.
	driverName = "sqlite"

	// buildMode describes the current build configuration.
	buildMode = "purego"
)
