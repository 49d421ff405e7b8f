package service

import (
	"context"

	"todoSummary/internal/models/todo"

	"github.com/google/uuid"
)

type TodoRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, *todo.Todo) error
	GetByID(context.Context, uuid.UUID) (*todo.Todo, error)
	List(context.Context, todo.Filter) ([]*todo.Todo, error)
	Update(context.Context, *todo.Todo) error
	Delete(context.Context, uuid.UUID) (*todo.Todo, error)
}

// SummaryGenerator turns pending todos into prose.
type SummaryGenerator interface {
	GenerateSummary(context.Context, []*todo.Todo) (string, error)
}

// Notifier delivers a finished summary to the chat channel.
type Notifier interface {
	Configured() bool
	Notify(ctx context.Context, summary string, pendingCount int) error
}
