package handlers

import (
	"context"

	"todoSummary/internal/models/todo"
	"todoSummary/internal/service"

	"github.com/google/uuid"
)

type TodoService interface {
	HealthCheck(context.Context) error
	List(context.Context, todo.Filter) ([]*todo.Todo, error)
	Create(ctx context.Context, title, description string) (*todo.Todo, error)
	Update(context.Context, uuid.UUID, ...todo.Option) (*todo.Todo, error)
	Delete(context.Context, uuid.UUID) (*todo.Todo, error)
}

type SummaryService interface {
	Summarize(context.Context) (*service.SummaryResult, error)
}
