package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/coredata/errors"
	cdtest "github.com/teranos/coredata/internal/testing"
)

func TestWatcherEvictsChangedRaws(t *testing.T) {
	dir := t.TempDir()
	path := cdtest.WriteRawIn(t, dir, "items.json", `{"items": [{"name": "A"}]}`)

	pool := NewPool(nil, time.Minute, time.Minute)
	first, err := pool.Get(path)
	require.NoError(t, err)
	_, err = first.Read()
	require.NoError(t, err)

	w, err := NewWatcher(pool, dir)
	require.NoError(t, err)
	w.SetDebounce(10 * time.Millisecond)

	var mu sync.Mutex
	var evicted []string
	w.OnInvalidate(func(p string) {
		mu.Lock()
		defer mu.Unlock()
		evicted = append(evicted, filepath.Base(p))
	})
	w.Start()
	defer w.Stop()

	// Ignored: no adapter handles .txt
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte(`{"items": [{"name": "B"}]}`), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(evicted) > 0
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.NotContains(t, evicted, "notes.txt")
	assert.Contains(t, evicted, "items.json")
	mu.Unlock()

	second, err := pool.Get(path)
	require.NoError(t, err)
	table, err := second.Read()
	require.NoError(t, err)
	assert.Equal(t, "B", table["items"][0]["name"])
}

func TestNewWatcherInvalidDir(t *testing.T) {
	_, err := NewWatcher(NewPool(nil, 0, 0), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidPath))
}
