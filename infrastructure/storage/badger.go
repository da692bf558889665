package storage

import (
	"errors"
	"path/filepath"

	apperrors "ianct-client/pkg/errors"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const badgerPrefix = "token:"

// BadgerStore keeps tokens in an embedded badger database. Badger holds an
// exclusive directory lock, so only one process can open it at a time.
type BadgerStore struct {
	db     *badger.DB
	logger *zap.Logger
}

// NewBadgerStore opens (or creates) the database under dir/badger.
func NewBadgerStore(dir string, logger *zap.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(filepath.Join(dir, "badger")).
		WithLoggingLevel(badger.ERROR)
	return openBadger(opts, logger)
}

// NewInMemoryBadgerStore opens a badger database that never touches disk.
func NewInMemoryBadgerStore(logger *zap.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR)
	return openBadger(opts, logger)
}

func openBadger(opts badger.Options, logger *zap.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, apperrors.NewStorageError("open badger", err)
	}
	return &BadgerStore{db: db, logger: logger}, nil
}

func (s *BadgerStore) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewStorageError("read", err)
	}
	return value, nil
}

func (s *BadgerStore) Set(key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerPrefix+key), []byte(value))
	})
	if err != nil {
		return apperrors.NewStorageError("write", err)
	}
	return nil
}

func (s *BadgerStore) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerPrefix + key))
	})
	if err != nil {
		return apperrors.NewStorageError("delete", err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		s.logger.Warn("Failed to close token database", zap.Error(err))
		return err
	}
	return nil
}
