package todo

import "strings"

// Option mutates a todo during an update. Constructors return nil when the
// field was not supplied, Apply skips those.
type Option func(*Todo)

func WithTitle(title *string) Option {
	if title == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*title)
	return func(t *Todo) {
		t.Title = trimmed
	}
}

func WithDescription(description *string) Option {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	return func(t *Todo) {
		t.Description = trimmed
	}
}

func WithCompleted(completed *bool) Option {
	if completed == nil {
		return nil
	}
	value := *completed
	return func(t *Todo) {
		t.Completed = value
	}
}

// Apply runs every non-nil option and reports how many were applied.
func Apply(t *Todo, options ...Option) int {
	applied := 0
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
		applied++
	}
	return applied
}
