package am

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectConfigName)
	require.NoError(t, Save(Default(), path))

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	cw.SetDebounce(10 * time.Millisecond)

	var mu sync.Mutex
	var reloaded []*Config
	cw.OnReload(func(cfg *Config) error {
		mu.Lock()
		defer mu.Unlock()
		reloaded = append(reloaded, cfg)
		return nil
	})
	cw.Start()
	defer cw.Stop()

	require.NoError(t, os.WriteFile(path, []byte("[log]\nverbosity = 2\n"), DefaultFilePermissions))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(reloaded) > 0
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, reloaded[len(reloaded)-1].Log.Verbosity)
}

func TestConfigWatcherIgnoresOwnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectConfigName)
	require.NoError(t, Save(Default(), path))

	cw, err := NewConfigWatcher(path)
	require.NoError(t, err)
	cw.SetDebounce(10 * time.Millisecond)

	SetGlobalWatcher(cw)
	defer SetGlobalWatcher(nil)
	assert.Same(t, cw, GetGlobalWatcher())

	var mu sync.Mutex
	calls := 0
	cw.OnReload(func(*Config) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return nil
	})
	cw.Start()
	defer cw.Stop()

	cfg := Default()
	cfg.Log.Verbosity = 1
	require.NoError(t, Save(cfg, path))

	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, calls, 1, "own write is skipped once")
}

func TestIsBackupFile(t *testing.T) {
	assert.True(t, isBackupFile("/x/pcd.toml.back1"))
	assert.True(t, isBackupFile("pcd.toml.back3"))
	assert.False(t, isBackupFile("pcd.toml"))
	assert.False(t, isBackupFile("pcd.toml.backup"))
}
