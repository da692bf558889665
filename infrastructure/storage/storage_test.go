package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ianct-client/infrastructure/config"
	apperrors "ianct-client/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	v, err := s.Get("token")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.Set("token", "abc.def.ghi"))
	require.NoError(t, s.Set("admin_token", "other"))

	v, err = s.Get("token")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", v)

	require.NoError(t, s.Set("token", "replaced"))
	v, _ = s.Get("token")
	assert.Equal(t, "replaced", v)

	require.NoError(t, s.Delete("token"))
	v, err = s.Get("token")
	require.NoError(t, err)
	assert.Empty(t, v)

	// Deleting a missing key is not an error.
	require.NoError(t, s.Delete("token"))

	v, _ = s.Get("admin_token")
	assert.Equal(t, "other", v)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set("token", "persisted"))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	v, err := second.Get("token")
	require.NoError(t, err)
	assert.Equal(t, "persisted", v)

	info, err := os.Stat(filepath.Join(dir, "token.token"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStore_RejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = s.Set("../escape", "x")
	assert.True(t, apperrors.IsValidation(err))
}

func TestBadgerStore(t *testing.T) {
	s, err := NewInMemoryBadgerStore(zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestBadgerStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := NewBadgerStore(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Set("admin_token", "kept"))
	require.NoError(t, s.Close())

	reopened, err := NewBadgerStore(dir, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	v, err := reopened.Get("admin_token")
	require.NoError(t, err)
	assert.Equal(t, "kept", v)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		driver  string
		wantErr bool
	}{
		{config.StorageMemory, false},
		{config.StorageFile, false},
		{config.StorageBadger, false},
		{"redis", true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s, err := Open(config.Storage{Driver: tt.driver, Dir: t.TempDir()}, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, s.Close())
		})
	}
}

type changeRecorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *changeRecorder) record(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *changeRecorder) last() (Change, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.changes) == 0 {
		return Change{}, false
	}
	return r.changes[len(r.changes)-1], true
}

func TestWatcher_ReportsWriteAndDeletion(t *testing.T) {
	dir := t.TempDir()
	local, err := NewFileStore(dir)
	require.NoError(t, err)
	other, err := NewFileStore(dir)
	require.NoError(t, err)

	w, err := NewWatcher(local, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	rec := &changeRecorder{}
	w.OnChange(rec.record)

	require.NoError(t, other.Set("token", "from-other-process"))
	require.Eventually(t, func() bool {
		c, ok := rec.last()
		return ok && c.Key == "token" && c.Value == "from-other-process" && !c.Deleted
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, other.Delete("token"))
	require.Eventually(t, func() bool {
		c, ok := rec.last()
		return ok && c.Key == "token" && c.Deleted
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	w, err := NewWatcher(store, zap.NewNop())
	require.NoError(t, err)
	defer w.Stop()

	rec := &changeRecorder{}
	w.OnChange(rec.record)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o600))
	time.Sleep(3 * defaultDebounce)

	_, ok := rec.last()
	assert.False(t, ok)
}
