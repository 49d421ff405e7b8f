package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"todoSummary/internal/handlers/dto"
	"todoSummary/internal/logger"
	"todoSummary/internal/models/todo"
	"todoSummary/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const serviceName = "todo-summary"

const healthCheckTimeout = 2 * time.Second

type TodoHandler struct {
	todos     TodoService
	summaries SummaryService
}

func NewTodoHandler(todos TodoService, summaries SummaryService) *TodoHandler {
	return &TodoHandler{
		todos:     todos,
		summaries: summaries,
	}
}

// Index lists the available endpoints.
func (h *TodoHandler) Index(w http.ResponseWriter, r *http.Request) {
	responseWithJSON(w, http.StatusOK,
		toPayload("message", "Todo Summary Assistant API"),
		toPayload("version", "1.0.0"),
		toPayload("endpoints", map[string]string{
			"GET /todos":         "List todos, optional ?completed=true|false",
			"POST /todos":        "Create a todo",
			"PUT /todos/{id}":    "Update a todo",
			"DELETE /todos/{id}": "Delete a todo",
			"POST /summarize":    "Summarize pending todos and send them to Slack",
			"GET /health":        "Health check",
		}),
	)
}

// HealthCheck always answers 200; storage reports the datastore state.
func (h *TodoHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	storage := "ok"
	if err := h.todos.HealthCheck(ctx); err != nil {
		logger.Warn("HTTP: storage health check failed", zap.Error(err))
		storage = "down"
	}

	writeJSON(w, http.StatusOK, dto.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Service:   serviceName,
		Storage:   storage,
	})
}

func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	todos, err := h.todos.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err, "list_todos")
		return
	}

	logger.Info("HTTP_OUT: Todos fetched",
		zap.Int("count", len(todos)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTodoList(todos))
}

func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		rejectContentType(w, r)
		return
	}

	var request dto.CreateTodoRequest
	if err := decodeJSON(w, r, &request); err != nil {
		logger.Warn("HTTP: failed to read JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		handleError(w, r, service.NewValidationError("body", "Invalid request body: "+err.Error()), "create_todo")
		return
	}

	created, err := h.todos.Create(r.Context(), request.Title, request.Description)
	if err != nil {
		handleError(w, r, err, "create_todo")
		return
	}

	logger.Info("HTTP_OUT: Todo created",
		zap.String("todo_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	writeJSON(w, http.StatusCreated, dto.FromTodo(created))
}

func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		rejectContentType(w, r)
		return
	}

	var request dto.UpdateTodoRequest
	if err := decodeJSON(w, r, &request); err != nil {
		logger.Warn("HTTP: failed to read JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		handleError(w, r, service.NewValidationError("body", "Invalid request body: "+err.Error()), "update_todo")
		return
	}

	updated, err := h.todos.Update(r.Context(), id, request.Options()...)
	if err != nil {
		handleError(w, r, err, "update_todo")
		return
	}

	logger.Info("HTTP_OUT: Todo updated",
		zap.String("todo_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.FromTodo(updated))
}

func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := h.todos.Delete(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "delete_todo")
		return
	}

	logger.Info("HTTP_OUT: Todo deleted",
		zap.String("todo_id", id.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.DeleteTodoResponse{
		Message:     "Todo deleted successfully",
		DeletedTodo: dto.FromTodo(deleted),
	})
}

func (h *TodoHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	result, err := h.summaries.Summarize(r.Context())
	if err != nil {
		handleError(w, r, err, "summarize")
		return
	}

	logger.Info("HTTP_OUT: Summary sent",
		zap.Int("pending", result.PendingCount),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	writeJSON(w, http.StatusOK, dto.SummarizeResponse{
		Message:           "Summary generated and sent to Slack successfully",
		Summary:           result.Summary,
		PendingTodosCount: result.PendingCount,
	})
}

// parseID answers 404 for ids that are not UUIDs: no such todo can exist.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := uuid.Parse(idParam)
	if err != nil || id == uuid.Nil {
		logger.Warn("HTTP: Unknown todo id",
			zap.String("id", idParam),
			zap.String("client_ip", r.RemoteAddr))
		handleError(w, r, service.NewNotFound(idParam), "parse_id")
		return uuid.Nil, false
	}
	return id, true
}

func parseFilter(w http.ResponseWriter, r *http.Request) (todo.Filter, bool) {
	raw := r.URL.Query().Get("completed")
	if raw == "" {
		return todo.Filter{}, true
	}

	completed, err := strconv.ParseBool(raw)
	if err != nil {
		logger.Warn("HTTP: Invalid query parameter",
			zap.String("query", "completed"),
			zap.String("value", raw),
			zap.String("client_ip", r.RemoteAddr))
		handleError(w, r, service.NewValidationError("completed", "completed must be true or false"), "list_todos")
		return todo.Filter{}, false
	}
	return todo.Filter{Completed: &completed}, true
}

func rejectContentType(w http.ResponseWriter, r *http.Request) {
	logger.Warn("HTTP: Invalid content type",
		zap.String("expected", "application/json"),
		zap.String("received", r.Header.Get("Content-Type")),
		zap.String("client_ip", r.RemoteAddr))
	handleError(w, r, service.NewValidationError("Content-Type", "Content-Type must be application/json"), "content_type")
}
