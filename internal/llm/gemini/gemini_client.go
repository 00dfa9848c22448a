package gemini

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
	providerName = "gemini"
	apiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/models"
	defaultModel = "gemini-2.5-flash"
)

func init() {
	llm.RegisterProvider(providerName, func(cfg *config.LLMConfig) (port.LLMClient, error) {
		return NewClient(cfg), nil
	})
}

// Client implements port.LLMClient using Google's Gemini generateContent API.
type Client struct {
	apiKey          string
	model           string
	endpoint        string
	maxOutputTokens int
	client          *http.Client
}

// NewClient creates a Gemini client. cfg.Endpoint, when set, replaces the
// public API URL.
func NewClient(cfg *config.LLMConfig) *Client {
	return newClient(cfg, cfg.Endpoint)
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
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:generateContent", apiBaseURL, model)
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
	generationConfig := map[string]interface{}{
		"responseMimeType": "application/json",
	}
	if p.Schema != nil {
		generationConfig["responseSchema"] = p.Schema
	}
	if c.maxOutputTokens > 0 {
		generationConfig["maxOutputTokens"] = c.maxOutputTokens
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]interface{}{
					{"text": p.Text},
				},
			},
		},
		"generationConfig": generationConfig,
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
	req.Header.Set("x-goog-api-key", c.apiKey)

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

// generateResponse models the parts of the generateContent envelope we read.
type generateResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text    string `json:"text"`
				Thought bool   `json:"thought"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func parseResponse(body []byte) (json.RawMessage, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &llm.StructureError{Provider: providerName, Detail: fmt.Sprintf("unmarshaling envelope: %v", err)}
	}

	if len(resp.Candidates) == 0 {
		detail := "no candidates"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			detail = "prompt blocked: " + resp.PromptFeedback.BlockReason
		}
		return nil, &llm.StructureError{Provider: providerName, Detail: detail}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		detail := "no content parts"
		if candidate.FinishReason != "" {
			detail += " (finishReason: " + candidate.FinishReason + ")"
		}
		return nil, &llm.StructureError{Provider: providerName, Detail: detail}
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part.Thought {
			continue
		}
		text.WriteString(part.Text)
	}

	if candidate.FinishReason == "MAX_TOKENS" {
		return nil, &llm.ParseError{
			Provider: providerName,
			Raw:      text.String(),
			Err:      fmt.Errorf("output truncated (finishReason: MAX_TOKENS)"),
		}
	}

	return llm.DecodeJSONText(providerName, text.String())
}
