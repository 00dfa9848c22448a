package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"contractlens/internal/config"
	"contractlens/internal/extractor"
	"contractlens/internal/extractor/docx"
	"contractlens/internal/extractor/pdf"
	"contractlens/internal/handler"
	"contractlens/internal/llm"
	_ "contractlens/internal/llm/claude"
	_ "contractlens/internal/llm/gemini"
	_ "contractlens/internal/llm/openai"
	"contractlens/internal/logger"
	"contractlens/internal/router"
	"contractlens/internal/service"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	if !cfg.Server.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize model client
	llmClient, err := llm.NewClient(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize %s client: %w", cfg.LLM.Provider, err)
	}

	// Initialize services
	// DOCX is compressed; allow the XML to inflate to ten times the upload cap.
	registry := extractor.NewRegistry(pdf.New(), docx.NewWithLimit(10*cfg.Upload.MaxBytes()))
	analysisSvc := service.NewAnalysisService(registry, llmClient)
	chatSvc := service.NewChatService(llmClient)

	// Initialize handlers
	pageH := handler.NewPageHandler(analysisSvc, cfg.Upload.MaxFileSizeMB)
	chatH := handler.NewChatHandler(chatSvc)
	exportH := handler.NewExportHandler()
	healthH := handler.NewHealthHandler(cfg.LLM.APIKey != "")

	// Setup router
	r, err := router.Setup(router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxUploadBytes: cfg.Upload.MaxBytes(),
	}, pageH, chatH, exportH, healthH)
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"addr", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"llm_provider", cfg.LLM.Provider,
			"llm_model", cfg.LLM.Model,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
