package port

import (
	"context"
	"encoding/json"

	"contractlens/internal/domain"
)

// GenerateOutput carries the JSON payload produced by a model.
type GenerateOutput struct {
	Payload   json.RawMessage
	ModelUsed string
}

// LLMClient sends one prompt to a remote generative model and returns the
// JSON the model produced for the prompt's schema.
type LLMClient interface {
	Generate(ctx context.Context, prompt domain.Prompt) (*GenerateOutput, error)
}
