package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/roamstack/travel-concierge/src/ai/core"
	"github.com/roamstack/travel-concierge/src/webclient"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

func init() {
	core.RegisterProvider("gemini", newClient)
}

type client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	defaults   core.Options
}

func newClient(cfg core.FactoryConfig) (core.Client, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("gemini: API key not configured")
	}

	baseURL := defaultBaseURL
	if override := cfg.Extra["gemini_base_url"]; override != "" {
		baseURL = override
	}

	return &client{
		apiKey:     cfg.GeminiKey,
		baseURL:    baseURL,
		httpClient: webclient.NewDefault(120 * time.Second),
		defaults: core.Options{
			Model:           core.ResolveModelName("gemini", cfg.Model),
			Temperature:     cfg.Temperature,
			MaxOutputTokens: orInt(cfg.MaxOutputTokens, 1000),
		},
	}, nil
}

// StartChat opens a fresh conversation; each Send appends the user message
// and the model reply to the chat history.
func (c *client) StartChat() core.Chat {
	return &chat{client: c}
}

type chat struct {
	client  *client
	history []geminiContent
}

func (ch *chat) Send(ctx context.Context, text string, decls []core.FunctionDeclaration) (*core.Turn, error) {
	ch.history = append(ch.history, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: text}},
	})

	payload := geminiRequest{
		Contents: ch.history,
		GenerationConfig: geminiGenerationConfig{
			Temperature:     ch.client.defaults.Temperature,
			MaxOutputTokens: ch.client.defaults.MaxOutputTokens,
		},
		Tools: toolsPayload(decls),
	}

	body, err := ch.client.generate(ctx, payload)
	if err != nil {
		return nil, err
	}

	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: no candidates in response")
	}

	content := resp.Candidates[0].Content
	if content.Role == "" {
		content.Role = "model"
	}
	ch.history = append(ch.history, content)

	return toTurn(content), nil
}

func (c *client) generate(ctx context.Context, payload geminiRequest) ([]byte, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.defaults.Model), url.QueryEscape(c.apiKey))

	_, body, err := webclient.DoWithRetry(ctx, 3, 2*time.Second, func() (int, []byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(bodyBytes))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, nil, err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return resp.StatusCode, b, fmt.Errorf("status %d: %s", resp.StatusCode, truncatePayload(b, 512))
		}
		return resp.StatusCode, b, nil
	})
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	return body, nil
}

// toolsPayload returns nil for an empty declaration set; some backends reject
// empty tool arrays, so the field must be omitted entirely.
func toolsPayload(decls []core.FunctionDeclaration) []geminiTool {
	if len(decls) == 0 {
		return nil
	}
	out := make([]geminiFunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, geminiFunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Parameters,
		})
	}
	return []geminiTool{{FunctionDeclarations: out}}
}

func toTurn(content geminiContent) *core.Turn {
	turn := &core.Turn{Parts: make([]core.Part, 0, len(content.Parts))}
	for _, p := range content.Parts {
		switch {
		case p.FunctionCall != nil:
			turn.Parts = append(turn.Parts, core.Part{
				Kind: core.PartCall,
				Call: &core.FunctionCall{Name: p.FunctionCall.Name, Args: p.FunctionCall.Args},
			})
		case p.Text != "":
			turn.Parts = append(turn.Parts, core.Part{Kind: core.PartText, Text: p.Text})
		default:
			turn.Parts = append(turn.Parts, core.Part{Kind: core.PartUnknown})
		}
	}
	return turn
}

func truncatePayload(b []byte, limit int) string {
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "..."
}

func orInt(v, d int) int {
	if v != 0 {
		return v
	}
	return d
}
