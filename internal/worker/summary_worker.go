package worker

import (
	"context"
	"time"

	"todoSummary/internal/logger"
	"todoSummary/internal/service"

	"go.uber.org/zap"
)

const defaultInterval = time.Hour

type Summarizer interface {
	Summarize(context.Context) (*service.SummaryResult, error)
}

// SummaryWorker triggers the summary pipeline on a fixed interval.
type SummaryWorker struct {
	summarizer Summarizer
	interval   time.Duration
}

func NewSummaryWorker(summarizer Summarizer, interval time.Duration) *SummaryWorker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &SummaryWorker{
		summarizer: summarizer,
		interval:   interval,
	}
}

// Start blocks until ctx is cancelled.
func (w *SummaryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("Worker: Scheduled summaries started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ticker.C:
			w.Run(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Scheduled summaries stopping")
			return
		}
	}
}

// Run performs one pipeline pass and reports whether a summary was delivered.
func (w *SummaryWorker) Run(ctx context.Context) bool {
	start := time.Now()
	logger.Info("Worker: Scheduled summary started", zap.Time("started_at", start))

	result, err := w.summarizer.Summarize(ctx)
	if err != nil {
		if busErr, ok := service.AsBusinessError(err); ok && busErr.Code == service.CodeNoPendingTodos {
			logger.Info("Worker: Nothing pending, summary skipped")
			return false
		}
		logger.Warn("Worker: Scheduled summary failed", zap.Error(err), zap.Duration("ms", time.Since(start)))
		return false
	}

	logger.Info(
		"Worker: Scheduled summary delivered",
		zap.Duration("ms", time.Since(start)),
		zap.Int("pending", result.PendingCount),
	)
	return true
}
