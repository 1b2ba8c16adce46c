// Package questions generates personalized interview questions from a stored
// résumé, retrieved reference questions and one generative model call.
package questions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"intelliview-api/internal/llm"
	"intelliview-api/internal/questionbank"
	"intelliview-api/internal/shared/metrics"
	"intelliview-api/internal/shared/telemetry"
	"intelliview-api/internal/usage"
)

const (
	retrievalLimit    = 15
	retrievalMinScore = 0.5
)

// ResumeFinder loads the résumé view used for generation. Missing résumés yield ErrNotFound.
type ResumeFinder interface {
	FindByID(ctx context.Context, resumeID string) (ResumeRecord, error)
}

// ReferenceSearcher retrieves similar reference questions.
type ReferenceSearcher interface {
	Search(ctx context.Context, query string, opts questionbank.SearchOptions) ([]questionbank.Match, error)
}

// Service orchestrates one question generation request.
type Service struct {
	Resumes ResumeFinder
	Bank    ReferenceSearcher
	LLM     llm.Generator
	Usage   *usage.Service
	Now     func() time.Time
}

// Generate looks up the résumé, retrieves reference questions, calls the model
// once and returns the validated batch. Retrieval failures degrade to an empty
// reference set; model failures are not retried.
func (s *Service) Generate(ctx context.Context, req Request) (Result, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return Result{}, err
	}

	rec, err := s.Resumes.FindByID(ctx, req.ResumeID)
	if err != nil {
		return Result{}, err
	}
	if req.UserID != "" && rec.UserID != req.UserID {
		return Result{}, ErrNotFound
	}

	if s.Usage != nil && req.UserID != "" {
		ok, _, err := s.Usage.CanConsume(ctx, req.UserID, 1)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{}, usage.ErrLimitReached
		}
	}

	start := metrics.NowMillis()
	metrics.IncGenerationStarted()

	matches := s.retrieve(ctx, req, rec)
	userPrompt := BuildUserPrompt(BuildResumeContext(rec), BuildReferenceContext(matches), req)

	raw, err := s.LLM.Complete(ctx, SystemPrompt, userPrompt, llm.CompletionOptions{
		Temperature: generationTemperature,
		MaxTokens:   generationMaxTokens,
		JSON:        true,
	})
	if err != nil {
		metrics.IncGenerationFailed()
		return Result{}, classifyModelError(err)
	}

	questions, err := ParseQuestions(raw, req.NumberOfQuestions)
	if err != nil {
		metrics.IncGenerationFailed()
		telemetry.Error("questions.parse_failed", map[string]any{
			"resume_id":    req.ResumeID,
			"error":        err,
			"response_len": len(raw),
		})
		return Result{}, err
	}

	if s.Usage != nil && req.UserID != "" {
		if _, err := s.Usage.Consume(ctx, req.UserID, 1); err != nil {
			telemetry.Warn("questions.usage_consume_failed", map[string]any{
				"user_id": req.UserID,
				"error":   err,
			})
		}
	}

	elapsed := metrics.NowMillis() - start
	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(elapsed)
	telemetry.Info("questions.generated", map[string]any{
		"resume_id":  req.ResumeID,
		"job_role":   req.JobRole,
		"company":    req.Company,
		"questions":  len(questions),
		"references": len(matches),
		"latency_ms": elapsed,
	})

	return Result{
		Questions: questions,
		Metadata: Metadata{
			ResumeID:       req.ResumeID,
			JobRole:        req.JobRole,
			Company:        req.Company,
			GeneratedAt:    s.now(),
			TotalQuestions: len(questions),
		},
	}, nil
}

func (s *Service) retrieve(ctx context.Context, req Request, rec ResumeRecord) []questionbank.Match {
	if s.Bank == nil {
		return nil
	}
	matches, err := s.Bank.Search(ctx, RetrievalQuery(req.JobRole, rec.Skills), questionbank.SearchOptions{
		Company:  req.Company,
		Role:     req.JobRole,
		Limit:    retrievalLimit,
		MinScore: retrievalMinScore,
	})
	if err != nil {
		metrics.IncRetrievalDegraded()
		telemetry.Warn("questions.retrieval_degraded", map[string]any{
			"resume_id": req.ResumeID,
			"job_role":  req.JobRole,
			"error":     err,
		})
		return nil
	}
	return matches
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizeRequest(req Request) (Request, error) {
	req.ResumeID = strings.TrimSpace(req.ResumeID)
	req.JobRole = strings.TrimSpace(req.JobRole)
	req.Company = strings.TrimSpace(req.Company)
	if req.ResumeID == "" {
		return req, fmt.Errorf("%w: resumeId is required", ErrInvalidInput)
	}
	if req.JobRole == "" {
		return req, fmt.Errorf("%w: jobRole is required", ErrInvalidInput)
	}
	if req.NumberOfQuestions == 0 {
		req.NumberOfQuestions = DefaultNumberOfQuestions
	}
	if req.NumberOfQuestions < 1 || req.NumberOfQuestions > MaxNumberOfQuestions {
		return req, fmt.Errorf("%w: numberOfQuestions must be between 1 and %d", ErrInvalidInput, MaxNumberOfQuestions)
	}
	if req.DifficultyMix == nil {
		mix := DefaultDifficultyMix()
		req.DifficultyMix = &mix
	} else if m := req.DifficultyMix; m.Easy < 0 || m.Medium < 0 || m.Hard < 0 {
		return req, fmt.Errorf("%w: difficultyMix values must not be negative", ErrInvalidInput)
	}
	return req, nil
}

func classifyModelError(err error) error {
	if errors.Is(err, llm.ErrEmptyResponse) {
		return fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
}
