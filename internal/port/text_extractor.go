package port

import (
	"context"

	"contractlens/internal/domain"
)

// TextExtractor turns the raw bytes of one document format into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte) (string, error)
}

// DocumentExtractor resolves an uploaded document's format and extracts its
// contract text.
type DocumentExtractor interface {
	Extract(ctx context.Context, doc domain.UploadedDocument) (domain.ContractText, error)
}
