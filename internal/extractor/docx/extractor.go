// Package docx extracts plain text from Office Open XML word-processing
// documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"contractlens/internal/domain"
)

const (
	documentPart = "word/document.xml"
	// DefaultMaxDocumentBytes caps the decompressed size of word/document.xml.
	DefaultMaxDocumentBytes = 200 << 20
	// WordprocessingML main namespace.
	wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

var errNoDocumentPart = errors.New("missing " + documentPart)

// ErrDocumentTooLarge is returned when word/document.xml inflates past the
// configured limit.
var ErrDocumentTooLarge = errors.New(documentPart + " exceeds the decompressed size limit")

// Extractor reads word/document.xml from a DOCX archive.
type Extractor struct {
	maxDocumentBytes int64
}

// New creates a DOCX extractor with DefaultMaxDocumentBytes.
func New() *Extractor {
	return NewWithLimit(DefaultMaxDocumentBytes)
}

// NewWithLimit creates a DOCX extractor that stops reading word/document.xml
// after maxDocumentBytes of decompressed XML.
func NewWithLimit(maxDocumentBytes int64) *Extractor {
	if maxDocumentBytes <= 0 {
		maxDocumentBytes = DefaultMaxDocumentBytes
	}
	return &Extractor{maxDocumentBytes: maxDocumentBytes}
}

// SupportedMIMETypes returns the MIME types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{domain.ContentTypeDOCX}
}

// Extract returns the document body as text with paragraphs separated by a
// blank line.
func (e *Extractor) Extract(ctx context.Context, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("opening docx archive: %w", err)
	}

	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", documentPart, err)
		}
		defer rc.Close()
		return parseDocument(&limitedReader{r: rc, limit: e.maxDocumentBytes})
	}
	return "", errNoDocumentPart
}

// limitedReader fails with ErrDocumentTooLarge once more than limit bytes
// have been read.
type limitedReader struct {
	r     io.Reader
	limit int64
	read  int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.read > l.limit {
		return n, ErrDocumentTooLarge
	}
	return n, err
}

// parseDocument streams the document XML so tables and nested content are
// visited in reading order.
func parseDocument(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		depth      int // nesting of open w:p elements
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				depth++
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				depth--
				if depth == 0 {
					paragraphs = append(paragraphs, current.String())
					current.Reset()
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	nonEmpty := paragraphs[:0]
	for _, p := range paragraphs {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n\n"), nil
}
