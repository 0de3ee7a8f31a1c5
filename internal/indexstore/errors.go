package indexstore

import (
	"os"
	"path/filepath"
)

const dbFileName = "index.db"

// prepareDir creates dir if absent and returns the path to its database
// file. If dir exists but contains a file that doesn't look like one of
// our own SQLite databases (or a previous one), Open treats that as an
// incompatible existing index.
func prepareDir(dir string) (string, error) {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return "", mkErr
		}
	case err != nil:
		return "", err
	case !info.IsDir():
		return "", errIncompatibleIndex
	}

	dbPath := filepath.Join(dir, dbFileName)
	if fi, err := os.Stat(dbPath); err == nil && fi.IsDir() {
		return "", errIncompatibleIndex
	}

	return dbPath, nil
}
