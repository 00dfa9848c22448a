package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"contractlens/internal/config"
	"contractlens/internal/domain"
	"contractlens/internal/llm"
	"contractlens/internal/port"
)

const (
	providerName = "openai"
	apiURL       = "https://api.openai.com/v1/chat/completions"
	defaultModel = "gpt-4o"
)

func init() {
	llm.RegisterProvider(providerName, func(cfg *config.LLMConfig) (port.LLMClient, error) {
		return NewClient(cfg), nil
	})
}

// Client implements port.LLMClient using the OpenAI Chat Completions API with
// structured outputs.
type Client struct {
	apiKey          string
	model           string
	endpoint        string
	maxOutputTokens int
	client          *http.Client
}

// NewClient creates an OpenAI client from the model configuration.
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
	return &Client{
		apiKey:          cfg.APIKey,
		model:           model,
		endpoint:        endpoint,
		maxOutputTokens: cfg.MaxOutputTokens,
		client:          &http.Client{Timeout: cfg.Timeout()},
	}
}

func (c *Client) Generate(ctx context.Context, p domain.Prompt) (*port.GenerateOutput, error) {
	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": p.Text,
			},
		},
		"response_format": responseFormat(p),
	}
	if c.maxOutputTokens > 0 {
		reqBody["max_completion_tokens"] = c.maxOutputTokens
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
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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

func responseFormat(p domain.Prompt) map[string]interface{} {
	if p.Schema == nil {
		return map[string]interface{}{"type": "json_object"}
	}
	return map[string]interface{}{
		"type": "json_schema",
		"json_schema": map[string]interface{}{
			"name":   string(p.Task),
			"strict": true,
			"schema": p.Schema.JSONSchema(),
		},
	}
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Refusal string `json:"refusal"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte) (json.RawMessage, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &llm.StructureError{Provider: providerName, Detail: fmt.Sprintf("unmarshaling envelope: %v", err)}
	}

	if len(resp.Choices) == 0 {
		return nil, &llm.StructureError{Provider: providerName, Detail: "no choices"}
	}

	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return nil, &llm.StructureError{Provider: providerName, Detail: "model refused: " + choice.Message.Refusal}
	}

	if choice.FinishReason == "length" {
		return nil, &llm.ParseError{
			Provider: providerName,
			Raw:      choice.Message.Content,
			Err:      fmt.Errorf("output truncated (finish_reason: length)"),
		}
	}

	return llm.DecodeJSONText(providerName, choice.Message.Content)
}
