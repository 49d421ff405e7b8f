package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoSummary/internal/config"
	"todoSummary/internal/logger"
	"todoSummary/internal/models/todo"
	repo "todoSummary/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const slowQuery = 100 * time.Millisecond

const todoColumns = `id, title, description, completed, created_at, updated_at`

type Storage struct {
	pool *pgxpool.Pool
	url  string
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Storage, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		logger.Error("Repository: failed to parse connection string", err)
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = cfg.MaxConnections
	}
	poolConfig.MinConns = cfg.MinConnections
	if cfg.IdleTimeout > 0 {
		poolConfig.MaxConnIdleTime = cfg.IdleTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("Repository: failed to create pool", err)
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Error("Repository: ping failed", err)
		return nil, fmt.Errorf("ping: %w", err)
	}

	logger.Info("Repository: connected to PostgreSQL",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns))
	return &Storage{pool: pool, url: cfg.URL}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: PostgreSQL pool closed")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	start := time.Now()
	query := `INSERT INTO todos (title, description, completed)
				VALUES ($1, $2, $3)
				RETURNING id, created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		todoToCreate.Title,
		todoToCreate.Description,
		todoToCreate.Completed,
	).Scan(&todoToCreate.ID, &todoToCreate.CreatedAt, &todoToCreate.UpdatedAt)
	if err != nil {
		logger.Error("Repository: failed to insert todo", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("inserting todo: %w", err)
	}

	warnIfSlow("create", start)
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	start := time.Now()
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`

	found, err := scanTodo(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get todo", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("getting todo: %w", err)
	}

	warnIfSlow("get_by_id", start)
	return found, nil
}

func (s *Storage) List(ctx context.Context, filter todo.Filter) ([]*todo.Todo, error) {
	start := time.Now()

	query := `SELECT ` + todoColumns + ` FROM todos`
	args := []any{}
	if filter.Completed != nil {
		query += ` WHERE completed = $1`
		args = append(args, *filter.Completed)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: failed to list todos", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("listing todos: %w", err)
	}
	defer rows.Close()

	todos := []*todo.Todo{}
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			logger.Error("Repository: failed to scan todo", err)
			return nil, fmt.Errorf("scanning todo: %w", err)
		}
		todos = append(todos, item)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: row iteration failed", err)
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	warnIfSlow("list", start)
	return todos, nil
}

func (s *Storage) Update(ctx context.Context, todoToUpdate *todo.Todo) error {
	start := time.Now()
	query := `UPDATE todos
			SET title = $1,
				description = $2,
				completed = $3,
				updated_at = NOW()
			WHERE id = $4
			RETURNING created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		todoToUpdate.Title,
		todoToUpdate.Description,
		todoToUpdate.Completed,
		todoToUpdate.ID,
	).Scan(&todoToUpdate.CreatedAt, &todoToUpdate.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrNotFound
		}
		logger.Error("Repository: failed to update todo", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("updating todo: %w", err)
	}

	warnIfSlow("update", start)
	return nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	start := time.Now()
	query := `DELETE FROM todos WHERE id = $1 RETURNING ` + todoColumns

	deleted, err := scanTodo(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to delete todo", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("deleting todo: %w", err)
	}

	warnIfSlow("delete", start)
	return deleted, nil
}

func scanTodo(row pgx.Row) (*todo.Todo, error) {
	t := &todo.Todo{}
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func warnIfSlow(operation string, start time.Time) {
	if elapsed := time.Since(start); elapsed > slowQuery {
		logger.Warn("Repository: slow query",
			zap.String("operation", operation),
			zap.Duration("ms", elapsed))
	}
}
