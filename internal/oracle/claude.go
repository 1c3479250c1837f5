package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	anthropicVersion  = "2023-06-01"
	claudeModel       = "claude-sonnet-4-20250514"
	claudeMaxTokens   = 8192

	jsonOnlySuffix = "\n\nRespond with JSON only. Do not wrap it in markdown."
)

// APIError is a non-200 answer from the Messages endpoint.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("claude: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("claude: status %d: %s: %s", e.Status, e.Kind, e.Message)
}

// Claude talks to the Anthropic Messages API over plain HTTP.
type Claude struct {
	key      string
	endpoint string
	model    string
	client   *http.Client
}

// ClaudeConfig configures NewClaudeClient. Zero values fall back to defaults.
type ClaudeConfig struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

func NewClaudeClient(cfg ClaudeConfig) *Claude {
	c := &Claude{
		key:      cfg.APIKey,
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
	if c.endpoint == "" {
		c.endpoint = anthropicEndpoint
	}
	if c.model == "" {
		c.model = claudeModel
	}
	if c.client.Timeout == 0 {
		// whole manuscripts travel in one request
		c.client.Timeout = 5 * time.Minute
	}
	return c
}

type claudeTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []claudeTurn `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Claude) payload(r Request) messagesRequest {
	p := messagesRequest{
		Model:     c.model,
		MaxTokens: claudeMaxTokens,
		System:    r.System,
		Messages:  []claudeTurn{{Role: "user", Content: r.Prompt}},
	}
	if r.Model != "" {
		p.Model = r.Model
	}
	if r.JSON {
		p.System += jsonOnlySuffix
	}
	return p
}

// Complete sends one user turn and returns the concatenated text blocks.
func (c *Claude) Complete(ctx context.Context, r Request) (string, error) {
	body, err := json.Marshal(c.payload(r))
	if err != nil {
		return "", fmt.Errorf("encode claude request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build claude request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-api-key", c.key)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call claude: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read claude response: %w", err)
	}

	var out messagesResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
		if decodeErr == nil && out.Error != nil {
			apiErr.Kind, apiErr.Message = out.Error.Type, out.Error.Message
		}
		return "", apiErr
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode claude response: %w", decodeErr)
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" || block.Type == "" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}
