package sqlite

import (
	"time"

	"todoSummary/internal/models/todo"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// todoRow is the gorm model behind the todos table.
type todoRow struct {
	ID          string     `gorm:"primarykey;size:36"`
	Title       string     `gorm:"not null;check:chk_todos_title,trim(title) <> ''"`
	Description string     `gorm:"not null;default:''"`
	Completed   bool       `gorm:"not null;default:false;index"`
	CreatedAt   time.Time  `gorm:"not null;index"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`
}

func (todoRow) TableName() string {
	return "todos"
}

// BeforeCreate assigns the id and creation time, so the store owns both.
func (r *todoRow) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return nil
}

func fromTodo(t *todo.Todo) *todoRow {
	row := &todoRow{
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
	}
	if t.ID != uuid.Nil {
		row.ID = t.ID.String()
	}
	return row
}

func (r *todoRow) toTodo() (*todo.Todo, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	return &todo.Todo{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}
