package config

import (
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Manager owns the live Config for a validation run and reloads a
// bounded set of non-structural fields from disk when the backing file
// changes, without disturbing a validation pass already in flight.
// Search mode, permutation count, and output paths are structural: they
// determine the shape of work already queued, so they are only picked
// up on the next full Load.
type Manager struct {
	watcher   *fsnotify.Watcher
	path      string
	mu        sync.RWMutex
	cfg       *Config
	callbacks []func(*Config)
	stopChan  chan struct{}
}

// NewManager creates a Manager seeded with an already-loaded Config.
func NewManager(path string, cfg *Config) (*Manager, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		watcher:  watcher,
		path:     path,
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}
	return m, nil
}

// Watch begins watching the config file for changes. Call Stop to
// release the underlying fsnotify watcher.
func (m *Manager) Watch() error {
	if err := m.watcher.Add(m.path); err != nil {
		return err
	}
	go m.watchLoop()
	return nil
}

// Stop stops watching the config file.
func (m *Manager) Stop() error {
	close(m.stopChan)
	return m.watcher.Close()
}

// OnChange registers a callback invoked after every successful hot reload.
func (m *Manager) OnChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}

// Current returns the live Config. Callers should treat the result as
// read-only; mutate through the file and let the watcher apply changes.
func (m *Manager) Current() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfg := *m.cfg
	return &cfg
}

func (m *Manager) watchLoop() {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Write == fsnotify.Write {
				m.reload()
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config: watcher error: %v", err)
		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) reload() {
	next, err := Load(m.path)
	if err != nil {
		log.Printf("config: hot reload of %s failed, keeping previous config: %v", m.path, err)
		return
	}

	m.mu.Lock()
	applyHotFields(m.cfg, next)
	updated := *m.cfg
	callbacks := make([]func(*Config), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(&updated)
	}
}

// applyHotFields copies fields that are safe to change mid-run from
// next into live: significance level, confidence level, notify
// settings, and the global log level. Everything that shapes already-queued work is left alone.
func applyHotFields(live, next *Config) {
	live.Masters.SignificanceLevel = next.Masters.SignificanceLevel
	live.Bootstrap.ConfidenceLevel = next.Bootstrap.ConfidenceLevel
	live.Notify = next.Notify
	live.Logging.Global.Level = next.Logging.Global.Level
}
