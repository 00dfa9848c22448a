package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"contractlens/internal/domain"
)

// MockTextExtractor is a mock implementation of extractor.Extractor.
type MockTextExtractor struct {
	mock.Mock
	MIMETypes []string
}

func (m *MockTextExtractor) Extract(ctx context.Context, content []byte) (string, error) {
	args := m.Called(ctx, content)
	return args.String(0), args.Error(1)
}

func (m *MockTextExtractor) SupportedMIMETypes() []string {
	return m.MIMETypes
}

// MockDocumentExtractor is a mock implementation of port.DocumentExtractor.
type MockDocumentExtractor struct {
	mock.Mock
}

func (m *MockDocumentExtractor) Extract(ctx context.Context, doc domain.UploadedDocument) (domain.ContractText, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(domain.ContractText), args.Error(1)
}
