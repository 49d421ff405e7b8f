package inmemory

import (
	"context"
	"sync"
	"time"

	"todoSummary/internal/logger"
	"todoSummary/internal/models/todo"
	repo "todoSummary/internal/repository"

	"github.com/google/uuid"
)

type TodoStorage struct {
	storage map[uuid.UUID]*todo.Todo
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewTodoStorage() *TodoStorage {
	return &TodoStorage{
		storage: make(map[uuid.UUID]*todo.Todo),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: in-memory storage is always available")
	return nil
}

func (s *TodoStorage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	todoToCreate.ID = uuid.New()
	todoToCreate.CreatedAt = time.Now().UTC()
	todoToCreate.UpdatedAt = nil

	stored := *todoToCreate
	s.storage[stored.ID] = &stored
	s.ids = append(s.ids, stored.ID)
	return nil
}

func (s *TodoStorage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	snapshot := *stored
	return &snapshot, nil
}

// List walks the insertion order backwards, which is created_at descending.
func (s *TodoStorage) List(ctx context.Context, filter todo.Filter) ([]*todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*todo.Todo{}
	for i := len(s.ids) - 1; i >= 0; i-- {
		stored := s.storage[s.ids[i]]
		if !filter.Match(stored) {
			continue
		}
		snapshot := *stored
		res = append(res, &snapshot)
	}
	return res, nil
}

func (s *TodoStorage) Update(ctx context.Context, todoToUpdate *todo.Todo) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[todoToUpdate.ID]
	if !ok {
		return repo.ErrNotFound
	}

	now := time.Now().UTC()
	stored.Title = todoToUpdate.Title
	stored.Description = todoToUpdate.Description
	stored.Completed = todoToUpdate.Completed
	stored.UpdatedAt = &now

	todoToUpdate.CreatedAt = stored.CreatedAt
	todoToUpdate.UpdatedAt = &now
	return nil
}

func (s *TodoStorage) Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return stored, nil
}
