package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"contractlens/internal/domain"
)

// APIError is returned when the provider answers with a non-2xx status.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == domain.ErrRemoteAPI
}

// NewAPIError builds an APIError from a provider error body, preferring the
// error.message field that Google, OpenAI and Anthropic all return.
func NewAPIError(provider string, statusCode int, body []byte) *APIError {
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    errorMessage(statusCode, body),
	}
}

func errorMessage(statusCode int, body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return fmt.Sprintf("status %d: %s", statusCode, truncate(trimmed, 300))
	}
	return fmt.Sprintf("status %d", statusCode)
}

// StructureError is returned when a successful response does not have the
// envelope shape the provider documents.
type StructureError struct {
	Provider string
	Detail   string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("invalid response structure from API: %s", e.Detail)
}

func (e *StructureError) Is(target error) bool {
	return target == domain.ErrRemoteAPI
}

// ParseError is returned when the generated text is not the requested JSON.
type ParseError struct {
	Provider string
	Raw      string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing model output: %v (raw: %s)", e.Err, truncate(e.Raw, 200))
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == domain.ErrResponseParse
}

// NetworkError is returned when the provider could not be reached.
type NetworkError struct {
	Provider string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("calling %s API: %v", e.Provider, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == domain.ErrNetwork
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
