// Package game orchestrates one question request: admission check,
// live generation, fallback. Each request is independent; the only
// shared state is the limiter and the fallback bank.
package game

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/elementsoftruth/trivia/internal/fallback"
	"github.com/elementsoftruth/trivia/internal/questiongen"
	"github.com/elementsoftruth/trivia/internal/ratelimit"
)

// UnavailableError reports that neither live generation nor the
// fallback bank could satisfy a request. RateLimited distinguishes
// "denied admission and no fallback" (HTTP 429) from "generation failed
// and no fallback" (HTTP 500).
type UnavailableError struct {
	RateLimited bool
	Err         error
}

func (e *UnavailableError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("rate limited and no fallback questions available: %v", e.Err)
	}
	return fmt.Sprintf("generation failed and no fallback questions available: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Service answers question requests.
type Service struct {
	limiter   *ratelimit.Limiter
	generator questiongen.Generator
	catalog   *fallback.Catalog
	logger    *zap.Logger
}

// NewService wires the orchestrator from its three collaborators.
func NewService(limiter *ratelimit.Limiter, generator questiongen.Generator, catalog *fallback.Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		limiter:   limiter,
		generator: generator,
		catalog:   catalog,
		logger:    logger,
	}
}

// Request holds the parameters of one inbound question request,
// captured up front so error paths never re-derive them.
type Request struct {
	Category   string
	Difficulty string
	Count      int
	ExcludeIDs []string
}

// Questions runs the request through admission, generation, and
// fallback, in that order. A batch from either source is a success;
// only total exhaustion surfaces an error.
func (s *Service) Questions(ctx context.Context, req Request) (questiongen.Batch, error) {
	if !s.limiter.Allow() {
		s.logger.Info("admission denied, serving fallback",
			zap.String("category", req.Category),
			zap.Duration("retry_in", s.limiter.TimeUntilNextSlot()))
		return s.fallbackOrError(req, true, nil)
	}

	batch, err := s.generator.Generate(ctx, questiongen.GenerateInput{
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Count:      req.Count,
	})
	if err == nil {
		return batch, nil
	}

	s.logger.Warn("generation failed, serving fallback",
		zap.String("category", req.Category),
		zap.String("difficulty", req.Difficulty),
		zap.Error(err))
	return s.fallbackOrError(req, false, err)
}

func (s *Service) fallbackOrError(req Request, rateLimited bool, cause error) (questiongen.Batch, error) {
	batch := s.catalog.Sample(req.Category, req.Difficulty, req.Count, req.ExcludeIDs)
	if len(batch) > 0 {
		return batch, nil
	}
	return nil, &UnavailableError{RateLimited: rateLimited, Err: cause}
}

// Status reports the limiter's current view for the status endpoint.
type Status struct {
	CanAdmit            bool    `json:"can_admit"`
	RemainingDailyQuota int     `json:"remaining_daily_quota"`
	RetryAfterSeconds   float64 `json:"retry_after_seconds"`
}

// Status is read-only; it never records a call.
func (s *Service) Status() Status {
	return Status{
		CanAdmit:            s.limiter.Allow(),
		RemainingDailyQuota: s.limiter.RemainingToday(),
		RetryAfterSeconds:   s.limiter.TimeUntilNextSlot().Seconds(),
	}
}
