package todo

import (
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Completed   bool       `json:"completed" db:"completed"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Filter narrows List by completion state. A nil Completed returns every todo.
type Filter struct {
	Completed *bool
}

func Pending() Filter {
	completed := false
	return Filter{Completed: &completed}
}

func (f Filter) Match(t *Todo) bool {
	return f.Completed == nil || *f.Completed == t.Completed
}
