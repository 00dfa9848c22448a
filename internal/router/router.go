package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"contractlens/internal/handler"
	"contractlens/internal/middleware"
	"contractlens/internal/web"
)

// multipartOverhead leaves room for the multipart envelope around an upload
// of the maximum allowed size.
const multipartOverhead = 1 << 20

// Options carries the settings Setup needs beyond the handlers.
type Options struct {
	AllowedOrigins []string
	MaxUploadBytes int64
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	opts Options,
	pageH *handler.PageHandler,
	chatH *handler.ChatHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) (*gin.Engine, error) {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	static, err := web.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("loading static assets: %w", err)
	}
	r.StaticFS("/static", http.FS(static))

	// Keep uploads in memory; nothing is written to disk.
	r.MaxMultipartMemory = opts.MaxUploadBytes + multipartOverhead
	bodyLimit := middleware.MaxBodySize(opts.MaxUploadBytes + multipartOverhead)

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Pages
	r.GET("/", pageH.Index)
	r.POST("/analyze", bodyLimit, pageH.Analyze)

	// JSON and downloads
	r.POST("/ask-lawyer", bodyLimit, chatH.AskLawyer)
	r.POST("/export", bodyLimit, exportH.Export)

	return r, nil
}
