package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"contractlens/internal/domain"
	"contractlens/internal/logger"
	"contractlens/internal/service"
	"contractlens/internal/web"
)

// User-facing messages shown on the upload page.
const (
	MsgNoFileUploaded    = "No file uploaded."
	MsgUnsupportedType   = "Unsupported file type. Please upload a PDF or DOCX."
	MsgFileTooLarge      = "File exceeds the maximum allowed size."
	msgAnalyzeFailedPref = "Failed to analyze the document. Reason: "
)

// UploadField is the multipart field carrying the contract file.
const UploadField = "contract"

type indexPage struct {
	Title         string
	Error         string
	MaxFileSizeMB int64
}

type dashboardPage struct {
	Title        string
	Analysis     *domain.Analysis
	AnalysisJSON string
}

// PageHandler renders the upload form and the analysis dashboard.
type PageHandler struct {
	analysisService service.AnalysisService
	maxFileSizeMB   int64
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(analysisService service.AnalysisService, maxFileSizeMB int64) *PageHandler {
	return &PageHandler{analysisService: analysisService, maxFileSizeMB: maxFileSizeMB}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	h.renderIndex(c, "")
}

// Analyze handles POST /analyze. Every outcome, including failures, is
// rendered as a page with status 200.
func (h *PageHandler) Analyze(c *gin.Context) {
	ctx := c.Request.Context()

	doc, err := h.readUpload(c)
	if err != nil {
		logger.Warn(ctx, "upload rejected", "error", err)
		h.renderIndex(c, UploadErrorMessage(err))
		return
	}

	analysis, err := h.analysisService.Analyze(ctx, *doc)
	if err != nil {
		_ = c.Error(err)
		h.renderIndex(c, UploadErrorMessage(err))
		return
	}

	analysisJSON, err := exportJSON(analysis)
	if err != nil {
		logger.Error(ctx, "encoding analysis for export", "error", err)
	}

	c.HTML(http.StatusOK, web.DashboardTemplate, dashboardPage{
		Title:        analysis.FileName,
		Analysis:     analysis,
		AnalysisJSON: analysisJSON,
	})
}

func (h *PageHandler) readUpload(c *gin.Context) (*domain.UploadedDocument, error) {
	header, err := c.FormFile(UploadField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: request body over %d bytes", domain.ErrFileTooLarge, maxErr.Limit)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNoFileUploaded, err)
	}

	maxBytes := h.maxFileSizeMB * 1024 * 1024
	if header.Size > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrFileTooLarge, header.Size)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	return &domain.UploadedDocument{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}, nil
}

func (h *PageHandler) renderIndex(c *gin.Context, errMsg string) {
	c.HTML(http.StatusOK, web.IndexTemplate, indexPage{
		Title:         "Upload",
		Error:         errMsg,
		MaxFileSizeMB: h.maxFileSizeMB,
	})
}

// UploadErrorMessage converts an analyze-path error into the text shown on
// the upload page.
func UploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoFileUploaded):
		return MsgNoFileUploaded
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return MsgUnsupportedType
	case errors.Is(err, domain.ErrFileTooLarge):
		return MsgFileTooLarge
	default:
		return msgAnalyzeFailedPref + err.Error()
	}
}

// exportJSON encodes the analysis without its contract text; the export form
// posts it back.
func exportJSON(a *domain.Analysis) (string, error) {
	slim := *a
	slim.ContractText = ""
	b, err := json.Marshal(slim)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
