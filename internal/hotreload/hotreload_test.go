package hotreload

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReloadFuncAdapter(t *testing.T) {
	called := false
	var r Reloadable = ReloadFunc(func() error {
		called = true
		return nil
	})
	require.NoError(t, r.Reload())
	assert.True(t, called)
}

func TestManagerReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"8080\"\n"), 0o600))

	m, err := NewManager(path, 50*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	var reloads atomic.Int64
	m.Register(ReloadFunc(func() error {
		reloads.Add(1)
		return nil
	}))

	require.NoError(t, m.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	}()

	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600))

	assert.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestManagerDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	m, err := NewManager(path, 200*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	var reloads atomic.Int64
	m.Register(ReloadFunc(func() error {
		reloads.Add(1)
		return nil
	}))

	require.NoError(t, m.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	}()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("a: 2\n"), 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)

	time.Sleep(300 * time.Millisecond)
	assert.LessOrEqual(t, reloads.Load(), int64(2))
}

func TestManagerIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	m, err := NewManager(path, 50*time.Millisecond, zap.NewNop())
	require.NoError(t, err)

	var reloads atomic.Int64
	m.Register(ReloadFunc(func() error {
		reloads.Add(1)
		return nil
	}))

	require.NoError(t, m.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	}()

	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(other, []byte("noise"), 0o600))

	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int64(0), reloads.Load())
}

func TestManagerStartTwice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o600))

	m, err := NewManager(path, 50*time.Millisecond, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = m.Shutdown(ctx)
	}()

	assert.Error(t, m.Start())
}
