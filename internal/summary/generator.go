package summary

import (
	"context"
	"errors"

	"todoSummary/internal/logger"
	"todoSummary/internal/models/todo"

	"go.uber.org/zap"
)

type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Generator builds the summary prompt and hands it to a Completer.
type Generator struct {
	completer Completer
}

func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

// GenerateSummary expects todos already filtered to the pending ones.
// The completion text is returned unmodified.
func (g *Generator) GenerateSummary(ctx context.Context, todos []*todo.Todo) (string, error) {
	if len(todos) == 0 {
		return "", errors.New("no todos to summarize")
	}

	logger.Info("Summary: generating summary", zap.Int("todos", len(todos)))
	return g.completer.Complete(ctx, BuildMessages(todos))
}
