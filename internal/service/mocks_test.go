package service_test

import (
	"context"

	"todoSummary/internal/models/todo"
	"todoSummary/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTodoRepository is a testify mock of the todo store
type MockTodoRepository struct {
	mock.Mock
}

func (m *MockTodoRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTodoRepository) Create(ctx context.Context, t *todo.Todo) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTodoRepository) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoRepository) List(ctx context.Context, filter todo.Filter) ([]*todo.Todo, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*todo.Todo), args.Error(1)
}

func (m *MockTodoRepository) Update(ctx context.Context, t *todo.Todo) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTodoRepository) Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateSummary(ctx context.Context, todos []*todo.Todo) (string, error) {
	args := m.Called(ctx, todos)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockNotifier) Notify(ctx context.Context, summary string, pendingCount int) error {
	args := m.Called(ctx, summary, pendingCount)
	return args.Error(0)
}

var (
	_ service.TodoRepository   = (*MockTodoRepository)(nil)
	_ service.SummaryGenerator = (*MockGenerator)(nil)
	_ service.Notifier         = (*MockNotifier)(nil)
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
