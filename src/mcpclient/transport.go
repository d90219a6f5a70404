package mcpclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// Transport is the process-transport a session runs over. The stdio
// implementation below talks MCP to a spawned subprocess; tests substitute
// fakes.
type Transport interface {
	Initialize(ctx context.Context) error
	ListTools(ctx context.Context) ([]mcp.Tool, error)
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	Close() error
}

// SpawnFunc creates a transport bound to a provider target.
type SpawnFunc func(target string) (Transport, error)

// NewStdioSpawner returns a SpawnFunc that launches the target command line
// as a subprocess and speaks MCP over its stdin/stdout.
func NewStdioSpawner(clientName, clientVersion string) SpawnFunc {
	return func(target string) (Transport, error) {
		fields := strings.Fields(target)
		if len(fields) == 0 {
			return nil, fmt.Errorf("empty provider target")
		}
		cli, err := client.NewStdioMCPClient(fields[0], nil, fields[1:]...)
		if err != nil {
			return nil, fmt.Errorf("spawn %s: %w", fields[0], err)
		}
		return &stdioTransport{cli: cli, name: clientName, version: clientVersion}, nil
	}
}

type stdioTransport struct {
	cli     *client.Client
	name    string
	version string
}

func (t *stdioTransport) Initialize(ctx context.Context) error {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: t.name, Version: t.version}
	req.Params.Capabilities = mcp.ClientCapabilities{}

	if _, err := t.cli.Initialize(ctx, req); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return nil
}

func (t *stdioTransport) ListTools(ctx context.Context) ([]mcp.Tool, error) {
	res, err := t.cli.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, err
	}
	return res.Tools, nil
}

func (t *stdioTransport) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := t.cli.CallTool(ctx, req)
	if err != nil {
		return "", err
	}

	text := joinTextContent(res.Content)
	if res.IsError {
		if text == "" {
			text = "tool reported an error"
		}
		return "", fmt.Errorf("%s", text)
	}
	return text, nil
}

func (t *stdioTransport) Close() error {
	return t.cli.Close()
}

func joinTextContent(content []mcp.Content) string {
	var b strings.Builder
	for _, c := range content {
		if tc, ok := c.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}
