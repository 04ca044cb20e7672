// Package backend opens the store.Store named by the configured database URL.
package backend

import (
	"context"
	"fmt"
	"strings"

	"pastebin/internal/config"
	"pastebin/internal/logging"
	"pastebin/internal/store"
	"pastebin/internal/store/memory"
	"pastebin/internal/store/postgres"
	"pastebin/internal/store/sqlite"
)

const (
	KindMemory   = "memory"
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
)

// Kind reports which backend databaseURL selects.
func Kind(databaseURL string) (string, error) {
	switch {
	case databaseURL == "":
		return KindMemory, nil
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return KindPostgres, nil
	case strings.HasPrefix(databaseURL, "sqlite://"), strings.HasPrefix(databaseURL, "file:"):
		return KindSQLite, nil
	default:
		return "", fmt.Errorf("unsupported database url scheme: %q", redact(databaseURL))
	}
}

// Open connects to the configured backend and applies migrations. The caller
// owns the returned store and must Close it.
func Open(ctx context.Context, cfg config.Config, log logging.Logger) (store.Store, error) {
	kind, err := Kind(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	var st store.Store
	switch kind {
	case KindPostgres:
		st, err = postgres.NewStore(ctx, cfg.DatabaseURL)
	case KindSQLite:
		st, err = sqlite.NewStore(ctx, sqlite.DSN(cfg.DatabaseURL))
	default:
		st = memory.NewStore()
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", kind, err)
	}

	if kind == KindMemory {
		log.Warn(ctx, "no database configured; using in-memory store, data is lost on exit")
	} else {
		log.Info(ctx, "store opened", "backend", kind)
	}
	return st, nil
}

// redact drops everything after the scheme so credentials never reach logs.
func redact(u string) string {
	if i := strings.Index(u, "://"); i >= 0 {
		return u[:i+3] + "..."
	}
	if i := strings.Index(u, ":"); i >= 0 {
		return u[:i+1] + "..."
	}
	return "..."
}
