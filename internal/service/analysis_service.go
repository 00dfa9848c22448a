package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"contractlens/internal/domain"
	"contractlens/internal/logger"
	"contractlens/internal/port"
	"contractlens/internal/prompt"
)

// AnalysisService defines the contract analysis contract.
type AnalysisService interface {
	Analyze(ctx context.Context, doc domain.UploadedDocument) (*domain.Analysis, error)
}

type analysisService struct {
	extractor port.DocumentExtractor
	llm       port.LLMClient
}

// NewAnalysisService creates a new AnalysisService implementation.
func NewAnalysisService(extractor port.DocumentExtractor, llm port.LLMClient) AnalysisService {
	return &analysisService{
		extractor: extractor,
		llm:       llm,
	}
}

// Analyze extracts the contract text once and runs the simplify, risk and
// fairness analyses on it concurrently. Any failed call fails the whole
// analysis.
func (s *analysisService) Analyze(ctx context.Context, doc domain.UploadedDocument) (*domain.Analysis, error) {
	start := time.Now()

	text, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "contract text extracted",
		"file_name", doc.FileName,
		"content_type", doc.ContentType,
		"chars", len(text),
	)

	var (
		clauses  []domain.SimplifiedClause
		risks    []domain.Risk
		fairness domain.Fairness
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clauses, err = s.simplify(gCtx, text)
		return err
	})
	g.Go(func() error {
		var err error
		risks, err = s.risks(gCtx, text)
		return err
	})
	g.Go(func() error {
		var err error
		fairness, err = s.fairness(gCtx, text)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Error(ctx, "contract analysis failed", "file_name", doc.FileName, "error", err)
		return nil, err
	}

	logger.Info(ctx, "contract analysis complete",
		"file_name", doc.FileName,
		"clauses", len(clauses),
		"risks", len(risks),
		"fairness_score", fairness.Score,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &domain.Analysis{
		FileName:          doc.FileName,
		ContractText:      text,
		SimplifiedClauses: clauses,
		Risks:             risks,
		Fairness:          fairness,
	}, nil
}

func (s *analysisService) simplify(ctx context.Context, text domain.ContractText) ([]domain.SimplifiedClause, error) {
	var out struct {
		Clauses []domain.SimplifiedClause `json:"clauses"`
	}
	if err := generateInto(ctx, s.llm, prompt.Simplify(text), &out); err != nil {
		return nil, err
	}
	if out.Clauses == nil {
		return []domain.SimplifiedClause{}, nil
	}
	return out.Clauses, nil
}

func (s *analysisService) risks(ctx context.Context, text domain.ContractText) ([]domain.Risk, error) {
	var out struct {
		Risks []domain.Risk `json:"risks"`
	}
	if err := generateInto(ctx, s.llm, prompt.Risks(text), &out); err != nil {
		return nil, err
	}
	if out.Risks == nil {
		return []domain.Risk{}, nil
	}
	for i := range out.Risks {
		out.Risks[i].Severity = normalizeSeverity(out.Risks[i].Severity)
	}
	return out.Risks, nil
}

// fairnessPayload distinguishes absent fields from zero values.
type fairnessPayload struct {
	Score        *float64 `json:"fairness_score"`
	FavoredParty *string  `json:"favored_party"`
	Reason       *string  `json:"reason"`
}

func (s *analysisService) fairness(ctx context.Context, text domain.ContractText) (domain.Fairness, error) {
	var out *fairnessPayload
	if err := generateInto(ctx, s.llm, prompt.Fairness(text), &out); err != nil {
		return domain.Fairness{}, err
	}

	result := domain.DefaultFairness()
	if out == nil {
		return result, nil
	}
	if out.Score != nil {
		result.Score = *out.Score
	}
	if out.FavoredParty != nil && strings.TrimSpace(*out.FavoredParty) != "" {
		result.FavoredParty = *out.FavoredParty
	}
	if out.Reason != nil && strings.TrimSpace(*out.Reason) != "" {
		result.Reason = *out.Reason
	}
	return result, nil
}

// generateInto calls the model and decodes its JSON payload into dst. Gateway
// errors are returned unwrapped so their message reaches the user as-is.
func generateInto(ctx context.Context, llm port.LLMClient, p domain.Prompt, dst interface{}) error {
	start := time.Now()
	out, err := llm.Generate(ctx, p)
	if err != nil {
		logger.Warn(ctx, "model call failed", "task", string(p.Task), "error", err)
		return err
	}
	logger.Debug(ctx, "model call complete",
		"task", string(p.Task),
		"model", out.ModelUsed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if err := json.Unmarshal(out.Payload, dst); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", domain.ErrResponseParse, p.Task, err)
	}
	return nil
}

func normalizeSeverity(sev domain.RiskSeverity) domain.RiskSeverity {
	trimmed := strings.TrimSpace(string(sev))
	for _, known := range domain.Severities {
		if strings.EqualFold(trimmed, string(known)) {
			return known
		}
	}
	return domain.RiskSeverity(trimmed)
}
