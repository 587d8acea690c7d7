package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrRequiresRestart is returned by TryReload when the changed settings
// cannot be applied to a running process (credentials, channel, calendar,
// server, interval).
var ErrRequiresRestart = errors.New("configuration change requires restart")

// Manager holds the live configuration and applies hot reloads. Only the
// sync tunables (scan limit, days ahead, max results, timeout) are
// reloadable; everything else is wired at startup.
type Manager struct {
	path string

	mu      sync.RWMutex
	current *Config
}

// NewManager creates a Manager around an already loaded configuration.
func NewManager(path string, cfg *Config) *Manager {
	return &Manager{path: path, current: cfg}
}

// Current returns the live configuration snapshot.
func (m *Manager) Current() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// TryReload re-reads the config file and applies reloadable changes.
// A change to a static field leaves the live config untouched and returns
// ErrRequiresRestart.
func (m *Manager) TryReload() error {
	next, err := Load(m.path)
	if err != nil {
		return fmt.Errorf("reloading config: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.current
	if next.Slack != cur.Slack ||
		next.Calendar != cur.Calendar ||
		next.Server != cur.Server ||
		next.Sync.Interval != cur.Sync.Interval ||
		next.Logging != cur.Logging {
		return ErrRequiresRestart
	}

	m.current = next
	return nil
}

// Watch reloads the configuration whenever the file changes, until ctx is
// canceled. Reload failures are logged and the previous config stays live.
func (m *Manager) Watch(ctx context.Context, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and configmap mounts replace the file
	// rather than writing it in place.
	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		return fmt.Errorf("watching config directory: %w", err)
	}

	logger.Info("config watcher started", "path", m.path)

	var debounce *time.Timer
	reload := func() {
		switch err := m.TryReload(); {
		case err == nil:
			cfg := m.Current()
			logger.Info("configuration reloaded",
				"scan_limit", cfg.Sync.ScanLimit,
				"days_ahead", cfg.Sync.DaysAhead,
				"max_results", cfg.Sync.MaxResults,
			)
		case errors.Is(err, ErrRequiresRestart):
			logger.Warn("configuration change requires restart, keeping previous config")
		default:
			logger.Error("configuration reload failed, keeping previous config", "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(m.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// Coalesce bursts of write events into a single reload.
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(200*time.Millisecond, reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("config watcher error", "error", err)
		}
	}
}
