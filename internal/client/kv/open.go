package kv

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/babysteps/internal/client/config"
	"github.com/dmitrijs2005/babysteps/internal/filex"
	"github.com/dmitrijs2005/babysteps/internal/logging"
)

const (
	sqliteFileName = "preferences.db"
	jsonFileName   = "localstorage.json"
)

// Open creates the data directory and returns an Adapter over the backend
// that matches cfg.Platform. In auto mode the SQLite store is probed first
// and the JSON file store is used when it cannot be opened.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*Adapter, error) {
	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data dir: %w", err)
	}

	var backend Backend

	switch cfg.Platform {
	case config.PlatformNative:
		backend, err = openSQLite(ctx, dir)
	case config.PlatformWeb:
		backend, err = OpenFileBackend(filepath.Join(dir, jsonFileName))
	case config.PlatformAuto, "":
		backend, err = openSQLite(ctx, dir)
		if err != nil {
			logger.Warn(ctx, "native store unavailable, using file store", "error", err)
			backend, err = OpenFileBackend(filepath.Join(dir, jsonFileName))
		}
	default:
		return nil, fmt.Errorf("unknown platform %q", cfg.Platform)
	}
	if err != nil {
		return nil, err
	}

	return NewAdapter(backend, logger), nil
}

func openSQLite(ctx context.Context, dir string) (*SQLiteBackend, error) {
	db, err := InitDatabase(ctx, filepath.Join(dir, sqliteFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	return NewSQLiteBackend(db), nil
}
