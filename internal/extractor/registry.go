// Package extractor selects a text extractor for an uploaded contract by its
// content type.
package extractor

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"contractlens/internal/domain"
	"contractlens/internal/port"
)

// Extractor is a port.TextExtractor that also reports which MIME types it
// handles.
type Extractor interface {
	port.TextExtractor
	SupportedMIMETypes() []string
}

// Registry maps normalized content types to extractors.
type Registry struct {
	extractors map[string]port.TextExtractor
}

// NewRegistry registers each extractor under every type it supports. A later
// extractor replaces an earlier one for the same type.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{extractors: make(map[string]port.TextExtractor)}
	for _, e := range extractors {
		for _, ct := range e.SupportedMIMETypes() {
			r.extractors[NormalizeContentType(ct)] = e
		}
	}
	return r
}

// Supports reports whether contentType (after normalization) has an extractor.
func (r *Registry) Supports(contentType string) bool {
	_, ok := r.extractors[NormalizeContentType(contentType)]
	return ok
}

// Extract resolves the document's content type and returns its plain text.
// Unsupported types fail with domain.ErrUnsupportedFileType before any parsing
// happens; parser failures are wrapped in domain.ErrExtractionFailed.
func (r *Registry) Extract(ctx context.Context, doc domain.UploadedDocument) (domain.ContractText, error) {
	contentType := ResolveContentType(doc.ContentType, doc.Content)

	e, ok := r.extractors[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, contentType)
	}

	text, err := e.Extract(ctx, doc.Content)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no extractable text", domain.ErrExtractionFailed)
	}
	return domain.ContractText(text), nil
}

// ResolveContentType returns the normalized declared type. Only when nothing
// was declared is the type sniffed from the content's magic bytes.
func ResolveContentType(declared string, content []byte) string {
	if ct := NormalizeContentType(declared); ct != "" {
		return ct
	}
	if len(content) == 0 {
		return ""
	}
	return NormalizeContentType(mimetype.Detect(content).String())
}

// NormalizeContentType lower-cases a MIME type and drops its parameters.
func NormalizeContentType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return mediaType
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
