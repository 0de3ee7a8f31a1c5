//go:build !purego

package indexstore

// This file is compiled for ordinary CGO builds. It registers the cgo
// SQLite driver, which links against the system SQLite C library and
// supports FTS5 without additional configuration.
//
// Build command:
//   CGO_ENABLED=1 go build ./...
//
// Driver used: github.com/mattn/go-sqlite3

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	// driverName is the SQLite driver to register queries against.
	driverName = "sqlite3"

	// buildMode describes the current build configuration.
	buildMode = "cgo"
)
