package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Driver      string
	Path        string // sqlite database file
	RedisURL    string
	RedisPrefix string
}

// Open returns the backend named by opts.Driver.
// For SQLite the parent directory is created if needed.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverSQLite, "":
		if opts.Path == "" {
			return nil, fmt.Errorf("open sqlite store: empty path")
		}
		if opts.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		return OpenSQLite(opts.Path)
	case DriverRedis:
		return OpenRedis(ctx, opts.RedisURL, opts.RedisPrefix)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
