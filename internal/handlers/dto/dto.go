package dto

import (
	"time"

	"todoSummary/internal/models/todo"

	"github.com/google/uuid"
)

type CreateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTodoRequest uses pointers so absent fields stay untouched.
type UpdateTodoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

func (r UpdateTodoRequest) Options() []todo.Option {
	return []todo.Option{
		todo.WithTitle(r.Title),
		todo.WithDescription(r.Description),
		todo.WithCompleted(r.Completed),
	}
}

type TodoResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type DeleteTodoResponse struct {
	Message     string       `json:"message"`
	DeletedTodo TodoResponse `json:"deletedTodo"`
}

type SummarizeResponse struct {
	Message           string `json:"message"`
	Summary           string `json:"summary"`
	PendingTodosCount int    `json:"pendingTodosCount"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Storage   string `json:"storage"`
}

func FromTodo(t *todo.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromTodoList(todos []*todo.Todo) []TodoResponse {
	result := make([]TodoResponse, len(todos))
	for i, t := range todos {
		result[i] = FromTodo(t)
	}
	return result
}
