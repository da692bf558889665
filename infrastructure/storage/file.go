package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	apperrors "ianct-client/pkg/errors"
)

const tokenExt = ".token"

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore keeps one file per key under dir, readable only by the owner.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, apperrors.NewStorageError("mkdir", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the token files.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", apperrors.NewValidationError(fmt.Sprintf("invalid storage key %q", key))
	}
	return filepath.Join(s.dir, key+tokenExt), nil
}

// keyFor maps a file path back to its key, or "" when the file is not a
// token file of this store.
func (s *FileStore) keyFor(path string) string {
	if filepath.Dir(path) != filepath.Clean(s.dir) {
		return ""
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, tokenExt) {
		return ""
	}
	return strings.TrimSuffix(base, tokenExt)
}

func (s *FileStore) Get(key string) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewStorageError("read", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Set writes through a temp file and rename so readers never see a
// partially written token.
func (s *FileStore) Set(key, value string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "."+key+"-*")
	if err != nil {
		return apperrors.NewStorageError("write", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewStorageError("write", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewStorageError("chmod", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError("write", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError("rename", err)
	}
	return nil
}

func (s *FileStore) Delete(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.NewStorageError("delete", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
