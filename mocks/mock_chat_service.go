package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"contractlens/internal/domain"
)

// MockChatService is a mock implementation of service.ChatService.
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Ask(ctx context.Context, q domain.ChatQuestion) (*domain.ChatAnswer, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatAnswer), args.Error(1)
}
