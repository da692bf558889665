// Package storage persists session tokens. It plays the role browser local
// storage plays for a web client: a small key-value space that survives
// restarts and is shared by every process of the same user.
package storage

import (
	"fmt"

	"ianct-client/infrastructure/config"

	"go.uber.org/zap"
)

// Store is a string key-value store. Get returns "" for missing keys.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Change describes a modification observed on a store.
type Change struct {
	Key     string
	Value   string
	Deleted bool
}

// Open returns the store selected by cfg.
func Open(cfg config.Storage, logger *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case config.StorageMemory:
		return NewMemoryStore(), nil
	case config.StorageFile:
		return NewFileStore(cfg.Dir)
	case config.StorageBadger:
		return NewBadgerStore(cfg.Dir, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
