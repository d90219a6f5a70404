package core

import (
	"context"
	"strings"
)

// Property is the restricted parameter schema the model backend accepts:
// only type, description and enum survive translation.
type Property struct {
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Schema describes an object-shaped parameter block.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// FunctionDeclaration advertises one capability to the model.
type FunctionDeclaration struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Parameters  Schema `json:"parameters"`
}

// FunctionCall is a model-requested capability invocation.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// PartKind tags the variants of a model output part. The shape is decided
// once, when the provider response is decoded; downstream code switches on
// the tag instead of re-inspecting raw payloads.
type PartKind int

const (
	PartUnknown PartKind = iota
	PartText
	PartCall
)

// Part is one element of a model turn: plain text, a function call, or
// something the decoder did not recognize.
type Part struct {
	Kind PartKind
	Text string
	Call *FunctionCall
}

// Turn is one round of model output.
type Turn struct {
	Parts []Part
}

// Text joins the text parts of the turn.
func (t *Turn) Text() string {
	var b strings.Builder
	for _, p := range t.Parts {
		if p.Kind == PartText {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// HasCalls reports whether any part is a function call.
func (t *Turn) HasCalls() bool {
	for _, p := range t.Parts {
		if p.Kind == PartCall {
			return true
		}
	}
	return false
}

// Options controls model behavior; fields are optional per provider.
type Options struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int
}

// Chat is one model conversation; Send appends to its history. Declarations
// may be nil, in which case the backend is offered no tools at all.
type Chat interface {
	Send(ctx context.Context, text string, decls []FunctionDeclaration) (*Turn, error)
}

// Client is a provider-agnostic handle to a model backend.
type Client interface {
	StartChat() Chat
}
