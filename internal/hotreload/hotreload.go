// Package hotreload applies configuration file changes to a running service
// without a restart.
package hotreload

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reloadable is a component that can re-apply configuration
type Reloadable interface {
	Reload() error
}

// ReloadFunc adapts a function to the Reloadable interface
type ReloadFunc func() error

func (f ReloadFunc) Reload() error { return f() }

// Manager debounces file events and triggers registered reloads
type Manager struct {
	watcher  *Watcher
	targets  []Reloadable
	path     string
	debounce time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	started bool
}

func NewManager(path string, debounce time.Duration, logger *zap.Logger) (*Manager, error) {
	watcher, err := NewWatcher()
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	return &Manager{
		watcher:  watcher,
		path:     absPath,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Register adds a reload target
func (m *Manager) Register(target Reloadable) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets = append(m.targets, target)
}

// Start begins watching the configuration file
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return fmt.Errorf("hot reload manager already started")
	}

	if err := m.watcher.Add(m.path); err != nil {
		return err
	}
	m.watcher.Start()
	m.started = true

	go m.loop()

	m.logger.Info("Hot reload enabled", zap.String("path", m.path))
	return nil
}

func (m *Manager) loop() {
	for event := range m.watcher.Events() {
		if filepath.Clean(event.Path) != m.path {
			continue
		}
		m.scheduleReload()
	}
}

// scheduleReload debounces bursts of file events into one reload
func (m *Manager) scheduleReload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, m.reload)
}

func (m *Manager) reload() {
	m.mu.Lock()
	targets := make([]Reloadable, len(m.targets))
	copy(targets, m.targets)
	m.mu.Unlock()

	m.logger.Info("Configuration file changed, reloading", zap.String("path", m.path))
	for _, target := range targets {
		if err := target.Reload(); err != nil {
			m.logger.Error("Reload failed", zap.Error(err))
		}
	}
}

// Shutdown stops watching and releases resources
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
	}
	m.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- m.watcher.Stop() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
