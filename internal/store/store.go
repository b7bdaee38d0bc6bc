// Package store provides the persisted edit store: a small string
// key-value capability with interchangeable backends.
//
// Every backend implements [Backend]; the core package only sees the
// Get/Set/Remove methods.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/JonMunkholm/recipegrid/internal/config"
)

// Backend is a key-value store holding string values.
// Get reports found=false for a missing key. Remove of a missing key is
// not an error.
type Backend interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open creates the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig, db config.DatabaseConfig) (Backend, error) {
	var (
		b   Backend
		err error
	)

	switch strings.ToLower(cfg.Backend) {
	case config.BackendBolt:
		b, err = asBackend(OpenBolt(cfg.Path))
	case config.BackendSQLite:
		b, err = asBackend(OpenSQLite(ctx, cfg.Path))
	case config.BackendPostgres:
		b, err = asBackend(OpenPostgres(ctx, db))
	case config.BackendMemory:
		b = NewMemory()
	default:
		err = fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// asBackend drops typed-nil pointers so a failed open never yields a
// non-nil Backend.
func asBackend[T Backend](b T, err error) (Backend, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}

// prepareDir creates the parent directory of a file-backed store.
func prepareDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	return nil
}

// Memory is an in-process Backend. Contents are lost on exit.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }
