package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects observer deliveries
type recorder struct {
	mu     sync.Mutex
	values []any
}

func (r *recorder) fn(v any) {
	r.mu.Lock()
	r.values = append(r.values, v)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]any(nil), r.values...)
}

func TestObserveDeliversDefaultThenChanges(t *testing.T) {
	s, err := NewSettingsStore("")
	require.NoError(t, err)
	defer s.Close()

	var rec recorder
	s.Observe("sync.collections.history.enabled", true, rec.fn)
	s.Set(map[string]any{"sync.collections.history.enabled": false})
	s.Set(map[string]any{"sync.collections.history.enabled": true})
	s.Flush()

	assert.Equal(t, []any{true, false, true}, rec.snapshot())
}

func TestObserveOnlyNotifiedForItsKey(t *testing.T) {
	s, err := NewSettingsStore("")
	require.NoError(t, err)
	defer s.Close()

	var rec recorder
	s.Observe("a", false, rec.fn)
	s.Set(map[string]any{"b": true})
	s.Flush()

	assert.Equal(t, []any{false}, rec.snapshot())
}

func TestSettingsPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewSettingsStore(dir)
	require.NoError(t, err)
	s.Set(map[string]any{"sync.collections.bookmarks.enabled": false})
	require.NoError(t, s.SaveSyncRecord("state", map[string]string{"state": "enabled"}))
	require.NoError(t, s.Close())

	s, err = NewSettingsStore(dir)
	require.NoError(t, err)
	defer s.Close()

	var enabled bool
	require.True(t, s.Get("sync.collections.bookmarks.enabled", &enabled))
	assert.False(t, enabled)

	var rec recorder
	s.Observe("sync.collections.bookmarks.enabled", true, rec.fn)
	s.Flush()
	assert.Equal(t, []any{false}, rec.snapshot())

	var record map[string]string
	require.True(t, s.LoadSyncRecord("state", &record))
	assert.Equal(t, "enabled", record["state"])

	s.DeleteSyncRecord("state")
	assert.False(t, s.LoadSyncRecord("state", &record))
}

func TestGetMissingKey(t *testing.T) {
	s, err := NewSettingsStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	var v bool
	assert.False(t, s.Get("nope", &v))
}
