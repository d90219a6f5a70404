package mcpclient

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned by operations that require a live session.
// Callers recover by connecting first.
var ErrNotConnected = errors.New("mcpclient: not connected to a capability provider")

// ConnectionError reports a failed session establishment: the provider
// process could not be spawned or the handshake did not complete. The
// session is left absent, never half-initialized.
type ConnectionError struct {
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("mcpclient: connect %q: %v", e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// CapabilityError reports a single failed invocation. It is local to that
// invocation; the session stays up.
type CapabilityError struct {
	Name string
	Err  error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("mcpclient: capability %s: %v", e.Name, e.Err)
}

func (e *CapabilityError) Unwrap() error { return e.Err }
