// Package ignore implements the fixed ignore set used by the Scanner and
// Change Monitor (spec §3): a set of directory names excluded anywhere in a
// file's path components, plus optional extra gitignore-style patterns
// loaded from configuration.
//
// # Basic Usage
//
//	set := ignore.NewSet(ignore.DefaultDirs, extraPatterns, "/path/to/index/dir")
//	if set.MatchPath("internal/.git/HEAD") {
//	    // excluded from scan and watch
//	}
package ignore
