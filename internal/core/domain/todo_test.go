package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func TestTodo_Apply(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should overwrite every present field", func(t *testing.T) {
		todo := Todo{ID: "1", Title: "A", Content: "x", CreatedAt: createdAt, UpdatedAt: createdAt}
		now := createdAt.Add(time.Minute)

		todo.Apply(TodoChanges{Title: ptr("B"), Content: ptr(""), Completed: ptr(true)}, now)

		assert.Equal(t, "1", todo.ID)
		assert.Equal(t, "B", todo.Title)
		assert.Equal(t, "", todo.Content)
		assert.True(t, todo.Completed)
		assert.Equal(t, createdAt, todo.CreatedAt)
		assert.Equal(t, now, todo.UpdatedAt)
	})

	t.Run("should keep absent fields", func(t *testing.T) {
		todo := Todo{Title: "A", Content: "x", Completed: true, UpdatedAt: createdAt}

		todo.Apply(TodoChanges{Content: ptr("y")}, createdAt.Add(time.Second))

		assert.Equal(t, "A", todo.Title)
		assert.Equal(t, "y", todo.Content)
		assert.True(t, todo.Completed)
	})

	t.Run("should never move updated_at backwards", func(t *testing.T) {
		todo := Todo{Title: "A", UpdatedAt: createdAt}

		todo.Apply(TodoChanges{Title: ptr("A")}, createdAt.Add(-time.Hour))

		assert.Equal(t, createdAt, todo.UpdatedAt)
	})
}

func TestTodoChanges_IsEmpty(t *testing.T) {
	assert.True(t, TodoChanges{}.IsEmpty())
	assert.False(t, TodoChanges{Completed: ptr(false)}.IsEmpty())
}

func TestTodo_HasTitle(t *testing.T) {
	todo := Todo{Title: "Groceries"}

	assert.True(t, todo.HasTitle("Groceries"))
	assert.False(t, todo.HasTitle("groceries"))
}
