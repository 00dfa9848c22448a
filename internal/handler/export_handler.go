package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"contractlens/internal/domain"
	"contractlens/internal/export"
	"contractlens/internal/logger"
)

// ExportHandler turns a rendered analysis into a report download.
type ExportHandler struct{}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// Export handles POST /export. The analysis arrives as the JSON the dashboard
// embedded in its export form.
func (h *ExportHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultPostForm("format", string(export.FormatXLSX)))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}

	raw := c.PostForm("analysis")
	if raw == "" {
		RespondError(c, http.StatusBadRequest, "MISSING_ANALYSIS", "analysis field is required")
		return
	}

	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		HandleError(c, fmt.Errorf("%w: analysis is not valid JSON: %v", domain.ErrInvalidRequest, err))
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, &analysis); err != nil {
		HandleError(c, fmt.Errorf("writing %s report: %w", format, err))
		return
	}

	filename := export.BuildFilename(analysis.FileName, format, time.Now())
	logger.Info(c.Request.Context(), "report exported", "format", string(format), "filename", filename, "bytes", buf.Len())

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentTypes[format], buf.Bytes())
}
