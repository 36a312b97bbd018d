// Package store persists the open and done task lists.
package store

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"ivly-cli/internal/config"
	"ivly-cli/internal/model"
)

// Store loads and saves the two task lists. Loading a store that has never
// been written returns empty lists.
type Store interface {
	LoadOpen(ctx context.Context) (model.OpenTasks, error)
	SaveOpen(ctx context.Context, tasks model.OpenTasks) error
	LoadDone(ctx context.Context) (model.DoneTasks, error)
	SaveDone(ctx context.Context, tasks model.DoneTasks) error
	// Paths lists the files backing the store.
	Paths() []string
	Close() error
}

// Logger receives store warnings such as a fallback to a backup file.
// *log.Logger satisfies it.
type Logger interface {
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}

// Open creates dir if needed and opens the configured backend in it.
func Open(ctx context.Context, dir string, backend config.Backend, logger Logger) (Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	switch backend {
	case "", config.BackendFile:
		return NewFiles(dir, logger), nil
	case config.BackendSQLite:
		return OpenSQLite(ctx, dir, logger)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
