package repository

import (
	"context"
	"errors"
	"fmt"

	"apiprobe/internal/repository/db"
)

// ErrStoreUnavailable wraps every storage I/O failure.
var ErrStoreUnavailable = errors.New("log store unavailable")

// ErrInvalidLine is returned by Append for lines that would break the one-record-per-line layout.
var ErrInvalidLine = errors.New("line contains a line separator")

// Supported values for StoreConfig.Driver.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// LogStore is the durable, append-only sequence of serialized records.
type LogStore interface {
	Append(ctx context.Context, line []byte) error
	ReadAll(ctx context.Context) ([][]byte, error)
	Close() error
}

// StoreConfig selects and locates the log store backend.
type StoreConfig struct {
	Driver     string
	Path       string // file backend
	SQLitePath string // sqlite backend
}

// NewLogStore opens the backend named by cfg.Driver.
func NewLogStore(cfg StoreConfig) (LogStore, error) {
	switch cfg.Driver {
	case "", DriverFile:
		return OpenFileStore(cfg.Path)
	case DriverSQLite:
		conn, err := db.InitDB(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return NewSQLiteStore(conn), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
