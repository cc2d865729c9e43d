package domain

import (
	"errors"
	"time"
)

var (
	ErrTodoNotFound   = errors.New("todo not found")
	ErrDuplicateTitle = errors.New("todo title already exists")
)

type Todo struct {
	ID        string
	Title     string
	Content   string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoChanges is a whole-field replacement set. A nil field leaves the stored
// value alone; a non-nil field overwrites it, zero values included.
type TodoChanges struct {
	Title     *string
	Content   *string
	Completed *bool
}

func (c TodoChanges) IsEmpty() bool {
	return c.Title == nil && c.Content == nil && c.Completed == nil
}

// Apply overwrites the fields present in changes and refreshes UpdatedAt.
// UpdatedAt never moves backwards, even if the clock does.
func (t *Todo) Apply(changes TodoChanges, now time.Time) {
	if changes.Title != nil {
		t.Title = *changes.Title
	}

	if changes.Content != nil {
		t.Content = *changes.Content
	}

	if changes.Completed != nil {
		t.Completed = *changes.Completed
	}

	t.Touch(now)
}

func (t *Todo) Touch(now time.Time) {
	if now.Before(t.UpdatedAt) {
		return
	}

	t.UpdatedAt = now
}

func (t *Todo) HasTitle(title string) bool {
	return t.Title == title
}
