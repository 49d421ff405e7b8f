package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todoSummary/internal/handlers"
	"todoSummary/internal/handlers/dto"
	"todoSummary/internal/models/todo"
	"todoSummary/internal/service"
	"todoSummary/internal/summary"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTodoService is a testify mock of the todo service
type MockTodoService struct {
	mock.Mock
}

func (m *MockTodoService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTodoService) List(ctx context.Context, filter todo.Filter) ([]*todo.Todo, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*todo.Todo), args.Error(1)
}

func (m *MockTodoService) Create(ctx context.Context, title, description string) (*todo.Todo, error) {
	args := m.Called(ctx, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) Update(ctx context.Context, id uuid.UUID, options ...todo.Option) (*todo.Todo, error) {
	args := m.Called(ctx, id, options)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID, ...todo.Option) *todo.Todo); ok {
		return fn(ctx, id, options...), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

func (m *MockTodoService) Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*todo.Todo), args.Error(1)
}

type MockSummaryService struct {
	mock.Mock
}

func (m *MockSummaryService) Summarize(ctx context.Context) (*service.SummaryResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SummaryResult), args.Error(1)
}

var (
	_ handlers.TodoService    = (*MockTodoService)(nil)
	_ handlers.SummaryService = (*MockSummaryService)(nil)
)

// withURLParam attaches a chi route context so chi.URLParam works without a router
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func newHandler() (*handlers.TodoHandler, *MockTodoService, *MockSummaryService) {
	todos, summaries := new(MockTodoService), new(MockSummaryService)
	return handlers.NewTodoHandler(todos, summaries), todos, summaries
}

func TestTodoHandler_HealthCheck(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(*MockTodoService)
		expectStorage string
	}{
		{
			name: "storage reachable",
			setupMock: func(m *MockTodoService) {
				m.On("HealthCheck", mock.Anything).Return(nil)
			},
			expectStorage: "ok",
		},
		{
			name: "storage down still answers 200",
			setupMock: func(m *MockTodoService) {
				m.On("HealthCheck", mock.Anything).Return(errors.New("db unavailable"))
			},
			expectStorage: "down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, todos, _ := newHandler()
			tt.setupMock(todos)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			handler.HealthCheck(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			var response dto.HealthResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, "OK", response.Status)
			assert.Equal(t, "todo-summary", response.Service)
			assert.Equal(t, tt.expectStorage, response.Storage)
			_, err := time.Parse(time.RFC3339Nano, response.Timestamp)
			assert.NoError(t, err)

			todos.AssertExpectations(t)
		})
	}
}

func TestTodoHandler_Index(t *testing.T) {
	handler, _, _ := newHandler()

	w := httptest.NewRecorder()
	handler.Index(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Todo Summary Assistant API", body["message"])
	assert.Contains(t, body["endpoints"], "POST /summarize")
}

func TestTodoHandler_ListTodos(t *testing.T) {
	now := time.Now()
	todos := []*todo.Todo{
		{ID: uuid.New(), Title: "newest", CreatedAt: now},
		{ID: uuid.New(), Title: "oldest", CreatedAt: now.Add(-time.Hour)},
	}
	completed := false

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockTodoService)
		expectedStatus int
		expectedCount  int
	}{
		{
			name: "success - all todos in store order",
			setupMock: func(m *MockTodoService) {
				m.On("List", mock.Anything, todo.Filter{}).Return(todos, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:  "success - pending filter",
			query: "?completed=false",
			setupMock: func(m *MockTodoService) {
				m.On("List", mock.Anything, todo.Filter{Completed: &completed}).Return(todos[:1], nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name: "success - empty list is an array",
			setupMock: func(m *MockTodoService) {
				m.On("List", mock.Anything, todo.Filter{}).Return([]*todo.Todo{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:           "error - bad filter",
			query:          "?completed=maybe",
			setupMock:      func(m *MockTodoService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "error - storage failure",
			setupMock: func(m *MockTodoService) {
				m.On("List", mock.Anything, todo.Filter{}).
					Return(nil, service.NewStorageError("fetch todos", errors.New("connection refused")))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, todoService, _ := newHandler()
			tt.setupMock(todoService)

			req := httptest.NewRequest(http.MethodGet, "/todos"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.ListTodos(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var response []dto.TodoResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				require.NotNil(t, response)
				assert.Len(t, response, tt.expectedCount)
				if tt.expectedCount == 2 {
					assert.Equal(t, "newest", response[0].Title)
				}
			}
			todoService.AssertExpectations(t)
		})
	}
}

func TestTodoHandler_CreateTodo(t *testing.T) {
	todoID := uuid.New()

	tests := []struct {
		name           string
		requestBody    string
		contentType    string
		setupMock      func(*MockTodoService)
		expectedStatus int
	}{
		{
			name:        "success - create todo",
			requestBody: `{"title": "Buy milk", "description": "2 liters"}`,
			contentType: "application/json",
			setupMock: func(m *MockTodoService) {
				m.On("Create", mock.Anything, "Buy milk", "2 liters").
					Return(&todo.Todo{ID: todoID, Title: "Buy milk", Description: "2 liters", CreatedAt: time.Now()}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "success - charset parameter accepted",
			requestBody: `{"title": "Buy milk"}`,
			contentType: "application/json; charset=utf-8",
			setupMock: func(m *MockTodoService) {
				m.On("Create", mock.Anything, "Buy milk", "").
					Return(&todo.Todo{ID: todoID, Title: "Buy milk", CreatedAt: time.Now()}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:        "error - whitespace title",
			requestBody: `{"title": "   "}`,
			contentType: "application/json",
			setupMock: func(m *MockTodoService) {
				m.On("Create", mock.Anything, "   ", "").
					Return(nil, service.NewValidationError("title", "Title is required"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - empty body",
			requestBody: ``,
			contentType: "application/json",
			setupMock: func(m *MockTodoService) {
				m.On("Create", mock.Anything, "", "").
					Return(nil, service.NewValidationError("title", "Title is required"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - declared non JSON content type",
			requestBody:    `title=x`,
			contentType:    "application/x-www-form-urlencoded",
			setupMock:      func(m *MockTodoService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - invalid JSON",
			requestBody:    `{invalid json}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTodoService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "success - trailing whitespace accepted",
			requestBody: "{\"title\": \"Buy milk\"}\n  \n",
			contentType: "application/json",
			setupMock: func(m *MockTodoService) {
				m.On("Create", mock.Anything, "Buy milk", "").
					Return(&todo.Todo{ID: todoID, Title: "Buy milk", CreatedAt: time.Now()}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "error - trailing garbage after object",
			requestBody:    `{"title": "Buy milk"} garbage`,
			contentType:    "application/json",
			setupMock:      func(m *MockTodoService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - two JSON objects",
			requestBody:    `{"title": "Buy milk"}{"title": "Buy bread"}`,
			contentType:    "application/json",
			setupMock:      func(m *MockTodoService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "error - unexpected service error",
			requestBody: `{"title": "Buy milk"}`,
			contentType: "application/json",
			setupMock: func(m *MockTodoService) {
				m.On("Create", mock.Anything, "Buy milk", "").Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, todoService, _ := newHandler()
			tt.setupMock(todoService)

			req := httptest.NewRequest(http.MethodPost, "/todos", bytes.NewBufferString(tt.requestBody))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			handler.CreateTodo(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			if tt.expectedStatus == http.StatusCreated {
				var response dto.TodoResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, todoID, response.ID)
				assert.Equal(t, "Buy milk", response.Title)
				assert.False(t, response.Completed)
				assert.Nil(t, response.UpdatedAt)
			} else {
				assert.NotEmpty(t, decodeBody(t, w)["error"])
			}
			todoService.AssertExpectations(t)
		})
	}
}

func TestTodoHandler_UpdateTodo(t *testing.T) {
	todoID := uuid.New()
	created := time.Now().Add(-time.Hour)

	tests := []struct {
		name           string
		todoID         string
		requestBody    string
		setupMock      func(*MockTodoService)
		expectedStatus int
	}{
		{
			name:        "success - mark completed",
			todoID:      todoID.String(),
			requestBody: `{"completed": true}`,
			setupMock: func(m *MockTodoService) {
				m.On("Update", mock.Anything, todoID, mock.Anything).
					Return(func(_ context.Context, _ uuid.UUID, options ...todo.Option) *todo.Todo {
						item := &todo.Todo{ID: todoID, Title: "Task", CreatedAt: created}
						todo.Apply(item, options...)
						updated := time.Now()
						item.UpdatedAt = &updated
						return item
					}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:        "error - unknown id",
			todoID:      todoID.String(),
			requestBody: `{"title": "x"}`,
			setupMock: func(m *MockTodoService) {
				m.On("Update", mock.Anything, todoID, mock.Anything).
					Return(nil, service.NewNotFound(todoID.String()))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "error - malformed id is not found",
			todoID:         "not-a-uuid",
			requestBody:    `{"title": "x"}`,
			setupMock:      func(m *MockTodoService) {},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:        "error - no fields",
			todoID:      todoID.String(),
			requestBody: `{}`,
			setupMock: func(m *MockTodoService) {
				m.On("Update", mock.Anything, todoID, mock.Anything).
					Return(nil, service.NewValidationError("body", "At least one of title, description or completed is required"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "error - wrong field type",
			todoID:         todoID.String(),
			requestBody:    `{"completed": "yes"}`,
			setupMock:      func(m *MockTodoService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, todoService, _ := newHandler()
			tt.setupMock(todoService)

			req := httptest.NewRequest(http.MethodPut, "/todos/"+tt.todoID, bytes.NewBufferString(tt.requestBody))
			req.Header.Set("Content-Type", "application/json")
			req = withURLParam(req, "id", tt.todoID)
			w := httptest.NewRecorder()
			handler.UpdateTodo(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var response dto.TodoResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.True(t, response.Completed)
				assert.Equal(t, "Task", response.Title)
				require.NotNil(t, response.UpdatedAt)
				assert.False(t, response.UpdatedAt.Before(response.CreatedAt))
			}
			todoService.AssertExpectations(t)
		})
	}
}

func TestTodoHandler_DeleteTodo(t *testing.T) {
	todoID := uuid.New()

	tests := []struct {
		name           string
		todoID         string
		setupMock      func(*MockTodoService)
		expectedStatus int
	}{
		{
			name:   "success - delete todo",
			todoID: todoID.String(),
			setupMock: func(m *MockTodoService) {
				m.On("Delete", mock.Anything, todoID).
					Return(&todo.Todo{ID: todoID, Title: "Gone", CreatedAt: time.Now()}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "error - second delete is not found",
			todoID: todoID.String(),
			setupMock: func(m *MockTodoService) {
				m.On("Delete", mock.Anything, todoID).Return(nil, service.NewNotFound(todoID.String()))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "error - storage failure",
			todoID: todoID.String(),
			setupMock: func(m *MockTodoService) {
				m.On("Delete", mock.Anything, todoID).
					Return(nil, service.NewStorageError("delete todo", errors.New("timeout")))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, todoService, _ := newHandler()
			tt.setupMock(todoService)

			req := withURLParam(httptest.NewRequest(http.MethodDelete, "/todos/"+tt.todoID, nil), "id", tt.todoID)
			w := httptest.NewRecorder()
			handler.DeleteTodo(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var response dto.DeleteTodoResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
				assert.Equal(t, "Todo deleted successfully", response.Message)
				assert.Equal(t, todoID, response.DeletedTodo.ID)
			}
			todoService.AssertExpectations(t)
		})
	}
}

func TestTodoHandler_Summarize(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockSummaryService)
		expectedStatus int
		check          func(*testing.T, map[string]any)
	}{
		{
			name: "success - summary sent",
			setupMock: func(m *MockSummaryService) {
				m.On("Summarize", mock.Anything).
					Return(&service.SummaryResult{Summary: "*Overview*", PendingCount: 2}, nil)
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Summary generated and sent to Slack successfully", body["message"])
				assert.Equal(t, "*Overview*", body["summary"])
				assert.EqualValues(t, 2, body["pendingTodosCount"])
			},
		},
		{
			name: "error - nothing pending",
			setupMock: func(m *MockSummaryService) {
				m.On("Summarize", mock.Anything).Return(nil, service.NewNoPendingTodos())
			},
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "No pending todos to summarize", body["error"])
				assert.Equal(t, service.CodeNoPendingTodos, body["code"])
			},
		},
		{
			name: "error - webhook not configured",
			setupMock: func(m *MockSummaryService) {
				m.On("Summarize", mock.Anything).Return(nil, service.NewWebhookNotConfigured())
			},
			expectedStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Slack webhook URL not configured", body["error"])
			},
		},
		{
			name: "error - completion auth failure",
			setupMock: func(m *MockSummaryService) {
				m.On("Summarize", mock.Anything).Return(nil, service.NewSummaryGenerationError(&summary.Error{
					Kind:       summary.KindAuth,
					StatusCode: http.StatusUnauthorized,
					Message:    "OpenAI API authentication failed. Please check your API key.",
					Err:        errors.New("Incorrect API key provided"),
				}))
			},
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "OpenAI API authentication failed. Please check your API key.", body["error"])
				assert.Contains(t, body["details"], "Incorrect API key provided")
			},
		},
		{
			name: "error - slack rejected",
			setupMock: func(m *MockSummaryService) {
				m.On("Summarize", mock.Anything).
					Return(nil, service.NewNotificationError(errors.New("slack webhook returned 404: no_service")))
			},
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, service.CodeNotificationFailed, body["code"])
				assert.Equal(t, "slack webhook returned 404: no_service", body["details"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _, summaries := newHandler()
			tt.setupMock(summaries)

			w := httptest.NewRecorder()
			handler.Summarize(w, httptest.NewRequest(http.MethodPost, "/summarize", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.check(t, decodeBody(t, w))
			summaries.AssertExpectations(t)
		})
	}
}

func TestTodoHandler_ErrorResponses(t *testing.T) {
	t.Run("business error response format", func(t *testing.T) {
		handler, todoService, _ := newHandler()
		todoID := uuid.New()
		todoService.On("Delete", mock.Anything, todoID).Return(nil, service.NewNotFound(todoID.String()))

		req := withURLParam(httptest.NewRequest(http.MethodDelete, "/todos/"+todoID.String(), nil), "id", todoID.String())
		w := httptest.NewRecorder()
		handler.DeleteTodo(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Todo not found", body["error"])
		assert.Equal(t, service.CodeNotFound, body["code"])
		details, ok := body["details"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, todoID.String(), details["id"])
	})

	t.Run("unexpected error response format", func(t *testing.T) {
		handler, todoService, _ := newHandler()
		todoService.On("List", mock.Anything, todo.Filter{}).Return(nil, errors.New("disk on fire"))

		w := httptest.NewRecorder()
		handler.ListTodos(w, httptest.NewRequest(http.MethodGet, "/todos", nil))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Internal server error", body["error"])
		assert.Equal(t, "disk on fire", body["details"])
	})
}

func TestTodoHandler_ConcurrentRequests(t *testing.T) {
	handler, todoService, _ := newHandler()

	todoService.On("List", mock.Anything, todo.Filter{}).
		Return([]*todo.Todo{{ID: uuid.New(), Title: "Task"}}, nil).Times(10)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			w := httptest.NewRecorder()
			handler.ListTodos(w, httptest.NewRequest(http.MethodGet, "/todos", nil))
			assert.Equal(t, http.StatusOK, w.Code)
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	todoService.AssertExpectations(t)
}
