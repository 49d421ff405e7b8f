package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoSummary/internal/logger"
	"todoSummary/internal/models/todo"
	repo "todoSummary/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Storage keeps todos in a SQLite file through gorm.
type Storage struct {
	db *gorm.DB
}

// Open connects to the database at path and migrates the todos table.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("Repository: failed to open SQLite database", err, zap.String("path", path))
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// a single connection keeps ":memory:" databases shared between queries
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&todoRow{}); err != nil {
		_ = sqlDB.Close()
		logger.Error("Repository: SQLite migration failed", err)
		return nil, fmt.Errorf("migrating sqlite database: %w", err)
	}

	logger.Info("Repository: connected to SQLite", zap.String("path", path))
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	logger.Info("Repository: SQLite database closed")
	return sqlDB.Close()
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("Repository: ping failed", err)
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (s *Storage) Create(ctx context.Context, todoToCreate *todo.Todo) error {
	row := fromTodo(todoToCreate)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		logger.Error("Repository: failed to insert todo", err)
		return fmt.Errorf("inserting todo: %w", err)
	}

	created, err := row.toTodo()
	if err != nil {
		return fmt.Errorf("decoding todo: %w", err)
	}
	*todoToCreate = *created
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	row, err := s.find(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return row.toTodo()
}

func (s *Storage) List(ctx context.Context, filter todo.Filter) ([]*todo.Todo, error) {
	query := s.db.WithContext(ctx).Model(&todoRow{})
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}

	var rows []*todoRow
	if err := query.Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		logger.Error("Repository: failed to list todos", err)
		return nil, fmt.Errorf("listing todos: %w", err)
	}

	todos := make([]*todo.Todo, 0, len(rows))
	for _, row := range rows {
		item, err := row.toTodo()
		if err != nil {
			return nil, fmt.Errorf("decoding todo: %w", err)
		}
		todos = append(todos, item)
	}
	return todos, nil
}

func (s *Storage) Update(ctx context.Context, todoToUpdate *todo.Todo) error {
	now := time.Now().UTC()

	// a map keeps zero values such as completed=false in the UPDATE
	result := s.db.WithContext(ctx).Model(&todoRow{}).
		Where("id = ?", todoToUpdate.ID.String()).
		Updates(map[string]any{
			"title":       todoToUpdate.Title,
			"description": todoToUpdate.Description,
			"completed":   todoToUpdate.Completed,
			"updated_at":  now,
		})
	if err := result.Error; err != nil {
		logger.Error("Repository: failed to update todo", err)
		return fmt.Errorf("updating todo: %w", err)
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	updated, err := s.GetByID(ctx, todoToUpdate.ID)
	if err != nil {
		return err
	}
	todoToUpdate.CreatedAt = updated.CreatedAt
	todoToUpdate.UpdatedAt = updated.UpdatedAt
	return nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) (*todo.Todo, error) {
	var deleted *todoRow

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, id)
		if err != nil {
			return err
		}

		result := tx.Delete(&todoRow{}, "id = ?", row.ID)
		if result.Error != nil {
			return fmt.Errorf("deleting todo: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		deleted = row
		return nil
	})
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			logger.Error("Repository: failed to delete todo", err)
		}
		return nil, err
	}
	return deleted.toTodo()
}

func (s *Storage) find(db *gorm.DB, id uuid.UUID) (*todoRow, error) {
	var row todoRow
	if err := db.First(&row, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: failed to get todo", err)
		return nil, fmt.Errorf("getting todo: %w", err)
	}
	return &row, nil
}
