// Package mcpclient owns the lifecycle of the connection to the capability
// provider process: spawn, handshake, reuse, teardown.
package mcpclient

import (
	"context"
	"log"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
)

// Manager holds at most one live session at a time. All access is
// serialized: the provider connection supports one in-flight request, and
// concurrent callers share the single session.
type Manager struct {
	spawn SpawnFunc

	mu          sync.Mutex
	transport   Transport
	target      string
	initialized bool
}

// NewManager builds a manager that spawns provider transports on demand.
func NewManager(spawn SpawnFunc) *Manager {
	return &Manager{spawn: spawn}
}

// Connect establishes a session to target. Connecting to the target of an
// already-initialized session is a no-op; a different target tears the old
// session down first. On any failure the session is left absent.
func (m *Manager) Connect(ctx context.Context, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized && m.target == target {
		return nil
	}
	if m.transport != nil {
		m.teardownLocked()
	}

	transport, err := m.spawn(target)
	if err != nil {
		return &ConnectionError{Target: target, Err: err}
	}
	if err := transport.Initialize(ctx); err != nil {
		if cerr := transport.Close(); cerr != nil {
			log.Printf("mcpclient: close after failed handshake: %v", cerr)
		}
		return &ConnectionError{Target: target, Err: err}
	}

	m.transport = transport
	m.target = target
	m.initialized = true
	log.Printf("mcpclient: connected to provider %q", target)
	return nil
}

// Connected reports whether an initialized session exists.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// ListCapabilities fetches the provider's current tool descriptors. The
// result is never cached: the provider may change its capability set
// between queries.
func (m *Manager) ListCapabilities(ctx context.Context) ([]mcp.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, ErrNotConnected
	}
	return m.transport.ListTools(ctx)
}

// Invoke executes one capability and returns the provider's text payload
// verbatim. A failed invocation yields a CapabilityError and leaves the
// session up.
func (m *Manager) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return "", ErrNotConnected
	}
	result, err := m.transport.CallTool(ctx, name, args)
	if err != nil {
		return "", &CapabilityError{Name: name, Err: err}
	}
	return result, nil
}

// Disconnect releases the transport and clears the session. Safe to call
// when no session exists; release errors are logged, never propagated.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownLocked()
}

func (m *Manager) teardownLocked() {
	if m.transport != nil {
		if err := m.transport.Close(); err != nil {
			log.Printf("mcpclient: close transport for %q: %v", m.target, err)
		}
	}
	m.transport = nil
	m.target = ""
	m.initialized = false
}
