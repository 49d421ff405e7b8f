package service

import (
	"context"
	"time"

	"todoSummary/internal/logger"
	"todoSummary/internal/models/todo"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// State is a step of one summarize run. A run only moves forward:
// Idle, FetchingPending, Summarizing, Notifying, then Succeeded or Failed.
type State string

const (
	StateIdle            State = "idle"
	StateFetchingPending State = "fetching_pending"
	StateSummarizing     State = "summarizing"
	StateNotifying       State = "notifying"
	StateSucceeded       State = "succeeded"
	StateFailed          State = "failed"
)

// StateHook observes every transition. reason is nil except for StateFailed.
type StateHook func(state State, reason error)

type SummaryResult struct {
	Summary      string
	PendingCount int
	GeneratedAt  time.Time
}

type SummaryService struct {
	repo      TodoRepository
	generator SummaryGenerator
	notifier  Notifier

	hook   StateHook
	flight *singleflight.Group
}

type SummaryOption func(*SummaryService)

// WithSingleFlight makes concurrent Summarize calls share one run and its result.
func WithSingleFlight() SummaryOption {
	return func(s *SummaryService) {
		s.flight = &singleflight.Group{}
	}
}

func WithStateHook(hook StateHook) SummaryOption {
	return func(s *SummaryService) {
		s.hook = hook
	}
}

func NewSummaryService(repo TodoRepository, generator SummaryGenerator, notifier Notifier, options ...SummaryOption) *SummaryService {
	s := &SummaryService{
		repo:      repo,
		generator: generator,
		notifier:  notifier,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Summarize fetches pending todos, asks the generator for a summary and posts
// it through the notifier. Failures come back as *BusinessError.
func (s *SummaryService) Summarize(ctx context.Context) (*SummaryResult, error) {
	if s.flight == nil {
		return s.run(ctx)
	}

	// the run outlives any single caller: one disconnecting must not fail the others
	value, err, shared := s.flight.Do("summarize", func() (any, error) {
		return s.run(context.WithoutCancel(ctx))
	})
	if shared {
		logger.Info("Service: joined a summary run already in flight")
	}
	if err != nil {
		return nil, err
	}
	return value.(*SummaryResult), nil
}

func (s *SummaryService) run(ctx context.Context) (*SummaryResult, error) {
	start := time.Now()
	p := &pipeline{state: StateIdle, hook: s.hook}

	p.advance(StateFetchingPending)
	pending, err := s.repo.List(ctx, todo.Pending())
	if err != nil {
		return nil, p.fail(NewStorageError("fetch todos", err))
	}
	if len(pending) == 0 {
		return nil, p.fail(NewNoPendingTodos())
	}
	if !s.notifier.Configured() {
		return nil, p.fail(NewWebhookNotConfigured())
	}
	logger.Info("Service: found pending todos", zap.Int("pending", len(pending)))

	p.advance(StateSummarizing)
	text, err := s.generator.GenerateSummary(ctx, pending)
	if err != nil {
		return nil, p.fail(NewSummaryGenerationError(err))
	}

	p.advance(StateNotifying)
	if err := s.notifier.Notify(ctx, text, len(pending)); err != nil {
		return nil, p.fail(NewNotificationError(err))
	}

	p.advance(StateSucceeded)
	logger.Info("Service: summary sent",
		zap.Int("pending", len(pending)),
		zap.Duration("ms", time.Since(start)))

	return &SummaryResult{
		Summary:      text,
		PendingCount: len(pending),
		GeneratedAt:  time.Now(),
	}, nil
}

type pipeline struct {
	state State
	hook  StateHook
}

func (p *pipeline) advance(next State) {
	logger.Debug("Service: summary pipeline transition",
		zap.String("from", string(p.state)),
		zap.String("to", string(next)))
	p.state = next
	if p.hook != nil {
		p.hook(next, nil)
	}
}

func (p *pipeline) fail(reason *BusinessError) error {
	logger.Warn("Service: summary pipeline failed",
		zap.String("state", string(p.state)),
		zap.String("error_code", reason.Code),
		zap.Error(reason.Err))
	p.state = StateFailed
	if p.hook != nil {
		p.hook(StateFailed, reason)
	}
	return reason
}
