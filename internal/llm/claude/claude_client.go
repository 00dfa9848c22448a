package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"contractlens/internal/config"
	"contractlens/internal/domain"
	"contractlens/internal/llm"
	"contractlens/internal/port"
)

const (
	providerName = "claude"
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"

	defaultMaxTokens = 8192
)

func init() {
	llm.RegisterProvider(providerName, func(cfg *config.LLMConfig) (port.LLMClient, error) {
		return NewClient(cfg), nil
	})
}

// Client implements port.LLMClient using the Anthropic Messages API. The
// Messages API has no response-schema parameter, so the schema is appended to
// the prompt text.
type Client struct {
	apiKey    string
	model     string
	endpoint  string
	maxTokens int
	client    *http.Client
}

// NewClient creates a Claude client from the model configuration.
func NewClient(cfg *config.LLMConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = apiURL
	}
	return newClient(cfg, endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.LLMConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.LLMConfig, endpoint string) *Client {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		apiKey:    cfg.APIKey,
		model:     model,
		endpoint:  endpoint,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: cfg.Timeout()},
	}
}

func (c *Client) Generate(ctx context.Context, p domain.Prompt) (*port.GenerateOutput, error) {
	text, err := buildPrompt(p)
	if err != nil {
		return nil, fmt.Errorf("building prompt: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": text,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &llm.NetworkError{Provider: providerName, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &llm.NetworkError{Provider: providerName, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, llm.NewAPIError(providerName, resp.StatusCode, respBody)
	}

	payload, err := parseResponse(respBody)
	if err != nil {
		return nil, err
	}
	return &port.GenerateOutput{Payload: payload, ModelUsed: c.model}, nil
}

func buildPrompt(p domain.Prompt) (string, error) {
	if p.Schema == nil {
		return p.Text, nil
	}
	schema, err := json.MarshalIndent(p.Schema.JSONSchema(), "", "  ")
	if err != nil {
		return "", err
	}
	return p.Text + "\n\nThe JSON object must conform to this JSON Schema:\n" + string(schema), nil
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte) (json.RawMessage, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &llm.StructureError{Provider: providerName, Detail: fmt.Sprintf("unmarshaling envelope: %v", err)}
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, &llm.StructureError{Provider: providerName, Detail: "no text content"}
	}

	if resp.StopReason == "max_tokens" {
		return nil, &llm.ParseError{
			Provider: providerName,
			Raw:      text.String(),
			Err:      fmt.Errorf("output truncated (stop_reason: max_tokens)"),
		}
	}

	return llm.DecodeJSONText(providerName, text.String())
}
