package service

import (
	"context"
	"fmt"
	"strings"

	"contractlens/internal/domain"
	"contractlens/internal/logger"
	"contractlens/internal/port"
	"contractlens/internal/prompt"
)

// ChatService answers follow-up questions about a contract.
type ChatService interface {
	Ask(ctx context.Context, q domain.ChatQuestion) (*domain.ChatAnswer, error)
}

type chatService struct {
	llm port.LLMClient
}

// NewChatService creates a new ChatService implementation.
func NewChatService(llm port.LLMClient) ChatService {
	return &chatService{llm: llm}
}

// Ask makes exactly one model call. Nothing about the conversation is kept.
func (s *chatService) Ask(ctx context.Context, q domain.ChatQuestion) (*domain.ChatAnswer, error) {
	question := strings.TrimSpace(q.UserQuestion)
	if question == "" {
		return nil, fmt.Errorf("%w: userQuestion is required", domain.ErrInvalidRequest)
	}

	var answer domain.ChatAnswer
	if err := generateInto(ctx, s.llm, prompt.Chat(domain.ContractText(q.ContractText), question), &answer); err != nil {
		return nil, err
	}

	logger.Info(ctx, "question answered",
		"question_chars", len(question),
		"contract_chars", len(q.ContractText),
	)
	return &answer, nil
}
