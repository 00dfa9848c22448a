package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"contractlens/internal/domain"
	"contractlens/internal/port"
)

// MockLLMClient is a mock implementation of port.LLMClient.
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt domain.Prompt) (*port.GenerateOutput, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.GenerateOutput), args.Error(1)
}
