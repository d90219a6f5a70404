package mcpclient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

type fakeTransport struct {
	target  string
	initErr error
	callErr error

	initialized bool
	closed      bool
	calls       []string
}

func (t *fakeTransport) Initialize(ctx context.Context) error {
	if t.initErr != nil {
		return t.initErr
	}
	t.initialized = true
	return nil
}

func (t *fakeTransport) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	return []mcp.Tool{{Name: "get_weather_by_location"}}, nil
}

func (t *fakeTransport) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	t.calls = append(t.calls, name)
	if t.callErr != nil {
		return "", t.callErr
	}
	return "ok", nil
}

func (t *fakeTransport) Close() error {
	t.closed = true
	return nil
}

type fakeSpawner struct {
	spawned    []*fakeTransport
	initErr    error
	spawnErr   error
	lastTarget string
}

func (s *fakeSpawner) spawn(target string) (Transport, error) {
	s.lastTarget = target
	if s.spawnErr != nil {
		return nil, s.spawnErr
	}
	tr := &fakeTransport{target: target, initErr: s.initErr}
	s.spawned = append(s.spawned, tr)
	return tr, nil
}

func TestConnectIdempotentSameTarget(t *testing.T) {
	sp := &fakeSpawner{}
	m := NewManager(sp.spawn)
	ctx := context.Background()

	if err := m.Connect(ctx, "provider-a"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := m.Connect(ctx, "provider-a"); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if len(sp.spawned) != 1 {
		t.Errorf("spawned %d transports, want 1", len(sp.spawned))
	}
	if !m.Connected() {
		t.Error("expected connected")
	}
}

func TestConnectNewTargetTearsDownOld(t *testing.T) {
	sp := &fakeSpawner{}
	m := NewManager(sp.spawn)
	ctx := context.Background()

	if err := m.Connect(ctx, "provider-a"); err != nil {
		t.Fatalf("connect a: %v", err)
	}
	if err := m.Connect(ctx, "provider-a"); err != nil {
		t.Fatalf("connect a again: %v", err)
	}
	if err := m.Connect(ctx, "provider-b"); err != nil {
		t.Fatalf("connect b: %v", err)
	}

	if len(sp.spawned) != 2 {
		t.Fatalf("spawned %d transports, want 2", len(sp.spawned))
	}
	if !sp.spawned[0].closed {
		t.Error("first transport not closed on target change")
	}
	if sp.spawned[1].closed {
		t.Error("second transport closed")
	}
	if sp.lastTarget != "provider-b" {
		t.Errorf("last target = %q", sp.lastTarget)
	}
}

func TestConnectSpawnFailure(t *testing.T) {
	sp := &fakeSpawner{spawnErr: fmt.Errorf("no such binary")}
	m := NewManager(sp.spawn)

	err := m.Connect(context.Background(), "missing")
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectionError, got %v", err)
	}
	if m.Connected() {
		t.Error("session present after failed spawn")
	}
}

func TestConnectHandshakeFailureLeavesSessionAbsent(t *testing.T) {
	sp := &fakeSpawner{initErr: fmt.Errorf("protocol mismatch")}
	m := NewManager(sp.spawn)

	err := m.Connect(context.Background(), "provider-a")
	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Fatalf("expected ConnectionError, got %v", err)
	}
	if m.Connected() {
		t.Error("session present after failed handshake")
	}
	if len(sp.spawned) != 1 || !sp.spawned[0].closed {
		t.Error("transport not released after failed handshake")
	}

	if _, err := m.ListCapabilities(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ListCapabilities = %v, want ErrNotConnected", err)
	}
}

func TestInvokeWithoutSession(t *testing.T) {
	m := NewManager((&fakeSpawner{}).spawn)
	if _, err := m.Invoke(context.Background(), "x", nil); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Invoke = %v, want ErrNotConnected", err)
	}
}

func TestInvokeFailureKeepsSession(t *testing.T) {
	sp := &fakeSpawner{}
	m := NewManager(sp.spawn)
	ctx := context.Background()

	if err := m.Connect(ctx, "provider-a"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	sp.spawned[0].callErr = fmt.Errorf("tool blew up")

	_, err := m.Invoke(ctx, "convert_currency", map[string]any{"amount": 1.0})
	var capErr *CapabilityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected CapabilityError, got %v", err)
	}
	if capErr.Name != "convert_currency" {
		t.Errorf("Name = %q", capErr.Name)
	}
	if !m.Connected() {
		t.Error("session dropped after capability failure")
	}
}

func TestDisconnectThenReconnect(t *testing.T) {
	sp := &fakeSpawner{}
	m := NewManager(sp.spawn)
	ctx := context.Background()

	if err := m.Connect(ctx, "provider-a"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	m.Disconnect()
	if m.Connected() {
		t.Error("still connected after disconnect")
	}
	if !sp.spawned[0].closed {
		t.Error("transport not closed on disconnect")
	}

	// Disconnect with no session is a no-op.
	m.Disconnect()

	if err := m.Connect(ctx, "provider-a"); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if len(sp.spawned) != 2 {
		t.Errorf("spawned %d transports, want 2", len(sp.spawned))
	}
}

func TestListCapabilitiesNotCached(t *testing.T) {
	sp := &fakeSpawner{}
	m := NewManager(sp.spawn)
	ctx := context.Background()

	if err := m.Connect(ctx, "provider-a"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	for i := 0; i < 2; i++ {
		tools, err := m.ListCapabilities(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tools) != 1 {
			t.Errorf("tools = %v", tools)
		}
	}
}
