package connection

import (
	"context"
	"sync"
	"time"
)

// Manager holds the current connection of an interactive session.
type Manager struct {
	timeout time.Duration

	mu      sync.Mutex
	current *Client
}

// NewManager creates a new connection manager.
func NewManager(timeout time.Duration) *Manager {
	return &Manager{timeout: timeout}
}

// Connect dials addr and makes it the current connection. The previous
// connection is closed only once the new one is established.
func (m *Manager) Connect(ctx context.Context, addr string) error {
	c, err := Dial(ctx, addr, m.timeout)
	if err != nil {
		return err
	}

	m.mu.Lock()
	prev := m.current
	m.current = c
	m.mu.Unlock()

	if prev != nil {
		prev.Close()
	}
	return nil
}

// Disconnect closes the current connection.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	c := m.current
	m.current = nil
	m.mu.Unlock()

	if c == nil {
		return nil
	}
	return c.Close()
}

// Current returns the current connection, or nil.
func (m *Manager) Current() *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// IsConnected returns true if connected to a server.
func (m *Manager) IsConnected() bool {
	return m.Current() != nil
}
