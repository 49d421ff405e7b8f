package service

import (
	"context"
	"errors"
	"strings"

	"todoSummary/internal/logger"
	"todoSummary/internal/models/todo"
	rep "todoSummary/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TodoService struct {
	repo TodoRepository
}

func NewTodoService(repo TodoRepository) *TodoService {
	return &TodoService{
		repo: repo,
	}
}

func (s *TodoService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return NewStorageError("reach storage", err)
	}
	return nil
}

func (s *TodoService) List(ctx context.Context, filter todo.Filter) ([]*todo.Todo, error) {
	todos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, NewStorageError("fetch todos", err)
	}
	return todos, nil
}

func (s *TodoService) Create(ctx context.Context, title, description string) (*todo.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		logger.Info("Service: rejected todo without title")
		return nil, NewValidationError("title", "Title is required")
	}

	created := &todo.Todo{
		Title:       title,
		Description: strings.TrimSpace(description),
	}
	if err := s.repo.Create(ctx, created); err != nil {
		return nil, NewStorageError("create todo", err)
	}

	logger.Info("Service: todo created", zap.String("todo_id", created.ID.String()))
	return created, nil
}

// Update applies the supplied fields. Options built from absent fields are nil
// and do not count, so a request that changes nothing is rejected.
func (s *TodoService) Update(ctx context.Context, id uuid.UUID, options ...todo.Option) (*todo.Todo, error) {
	if !hasOptions(options) {
		return nil, NewValidationError("body", "At least one of title, description or completed is required")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, id, "update todo")
	}

	todo.Apply(existing, options...)
	if existing.Title == "" {
		return nil, NewValidationError("title", "Title is required")
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, s.lookupError(err, id, "update todo")
	}

	logger.Info("Service: todo updated", zap.String("todo_id", id.String()))
	return existing, nil
}

func (s *TodoService) Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, s.lookupError(err, id, "delete todo")
	}

	logger.Info("Service: todo deleted", zap.String("todo_id", id.String()))
	return deleted, nil
}

func (s *TodoService) lookupError(err error, id uuid.UUID, operation string) error {
	if errors.Is(err, rep.ErrNotFound) {
		logger.Info("Service: todo not found", zap.String("target_id", id.String()))
		return NewNotFound(id.String())
	}
	return NewStorageError(operation, err)
}

func hasOptions(options []todo.Option) bool {
	for _, opt := range options {
		if opt != nil {
			return true
		}
	}
	return false
}
