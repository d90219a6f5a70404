// Package orchestrator drives the conversation loop between the model
// backend and the capability provider.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roamstack/travel-concierge/src/ai/core"
	"github.com/roamstack/travel-concierge/src/mcpclient"
)

// noResponseSentinel guards against a silent empty answer.
const noResponseSentinel = "No response generated."

// Result is the outcome of one query: the joined response text and the
// capabilities attempted, in invocation order (duplicates allowed, failures
// included).
type Result struct {
	Response  string   `json:"response"`
	ToolsUsed []string `json:"toolsUsed"`
}

// ModelError reports a failed model-backend call. It is fatal to the whole
// query; there is no retry at this layer.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("orchestrator: model backend: %v", e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// Session is the slice of the session manager the dispatcher needs.
type Session interface {
	ListCapabilities(ctx context.Context) ([]mcp.Tool, error)
	Invoke(ctx context.Context, name string, args map[string]any) (string, error)
}

// Dispatcher interleaves model calls and capability execution for one query
// at a time.
//
// Tool use is single-level: only invocations from the initial model turn are
// executed, and each result is round-tripped through the model exactly once.
// A capability chained off another capability's result within the same query
// is not supported.
type Dispatcher struct {
	session Session
	model   core.Client
}

// NewDispatcher wires a dispatcher to its session manager and model client.
func NewDispatcher(session Session, model core.Client) *Dispatcher {
	return &Dispatcher{session: session, model: model}
}

// Ask answers one user query. Capability failures degrade to diagnostic text
// in the response; only session-establishment and model-backend failures
// surface as errors.
func (d *Dispatcher) Ask(ctx context.Context, query string) (Result, error) {
	caps, err := d.session.ListCapabilities(ctx)
	if err != nil {
		return Result{}, err
	}
	decls := Translate(caps)

	chat := d.model.StartChat()
	turn, err := chat.Send(ctx, query, decls)
	if err != nil {
		return Result{}, &ModelError{Err: err}
	}

	var acc []string
	toolsUsed := []string{}
	for _, part := range turn.Parts {
		switch part.Kind {
		case core.PartText:
			acc = append(acc, part.Text)
		case core.PartCall:
			name := part.Call.Name
			toolsUsed = append(toolsUsed, name)
			acc = append(acc, d.runInvocation(ctx, chat, name, part.Call.Args)...)
		default:
			acc = append(acc, "unrecognized response part from model")
		}
	}

	response := strings.Join(acc, "\n")
	if response == "" {
		response = noResponseSentinel
	}
	return Result{Response: response, ToolsUsed: toolsUsed}, nil
}

// runInvocation executes one capability and feeds its result back to the
// model. Every failure path yields diagnostic text instead of an error so
// the caller still gets a best-effort answer.
func (d *Dispatcher) runInvocation(ctx context.Context, chat core.Chat, name string, args map[string]any) []string {
	out := []string{fmt.Sprintf("[called %s with args %v]", name, args)}

	result, err := d.session.Invoke(ctx, name, args)
	if err != nil {
		out = append(out, fmt.Sprintf("%s failed: %v", name, invocationCause(err)))
		return out
	}

	followup, err := chat.Send(ctx, fmt.Sprintf("Tool %s returned: %s", name, result), nil)
	if err != nil {
		out = append(out, fmt.Sprintf("%s failed: %v", name, err))
		return out
	}
	if text := followup.Text(); text != "" {
		out = append(out, text)
	}
	return out
}

// invocationCause strips the session manager's wrapper so the diagnostic
// shows the capability's own failure.
func invocationCause(err error) error {
	var capErr *mcpclient.CapabilityError
	if errors.As(err, &capErr) {
		return capErr.Err
	}
	return err
}
