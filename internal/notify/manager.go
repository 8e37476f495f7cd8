package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager fans alerts out to a set of registered channels and keeps a
// bounded in-memory history for inspection.
type Manager struct {
	mu       sync.RWMutex
	channels map[string]Channel
	history  []Alert
	maxKeep  int
}

// NewManager creates an empty Manager. maxKeep bounds the in-memory
// alert history; values <= 0 default to 256.
func NewManager(maxKeep int) *Manager {
	if maxKeep <= 0 {
		maxKeep = 256
	}
	return &Manager{
		channels: make(map[string]Channel),
		maxKeep:  maxKeep,
	}
}

// RegisterChannel adds a delivery channel.
func (m *Manager) RegisterChannel(ch Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels[ch.Name()] = ch
}

// RemoveChannel removes a previously registered channel by name.
func (m *Manager) RemoveChannel(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.channels, name)
}

// Notify builds an Alert and fans it out to every registered channel.
// Errors from individual channels are collected and returned jointly;
// a failure on one channel never prevents delivery to the others.
func (m *Manager) Notify(severity Severity, category Category, message string, metadata map[string]interface{}) []error {
	alert := Alert{
		ID:        uuid.NewString(),
		Severity:  severity,
		Category:  category,
		Message:   message,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.history = append(m.history, alert)
	if len(m.history) > m.maxKeep {
		m.history = m.history[len(m.history)-m.maxKeep:]
	}
	channels := make([]Channel, 0, len(m.channels))
	for _, ch := range m.channels {
		channels = append(channels, ch)
	}
	m.mu.Unlock()

	var errs []error
	for _, ch := range channels {
		if err := ch.Send(alert); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// History returns a copy of the most recently recorded alerts, oldest first.
func (m *Manager) History() []Alert {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Alert, len(m.history))
	copy(out, m.history)
	return out
}
