package request

import (
	"math"

	"memtodo/internal/core/domain"
)

// QueryOptions keeps page and limit as pointers so an explicit 0 can be told
// apart from an omitted parameter.
type QueryOptions struct {
	Page  *uint `form:"page"`
	Limit *uint `form:"limit"`
}

// Pagination resolves omitted values to the given defaults and clamps values
// that do not fit in an int to math.MaxInt.
func (q QueryOptions) Pagination(defaultPage, defaultLimit int) (int, int) {
	return valueOr(q.Page, defaultPage), valueOr(q.Limit, defaultLimit)
}

func valueOr(v *uint, fallback int) int {
	if v == nil {
		return fallback
	}

	if uint64(*v) > math.MaxInt {
		return math.MaxInt
	}

	return int(*v)
}

type CreateTodoRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
}

func (r CreateTodoRequest) ToDomain() domain.Todo {
	return domain.Todo{
		Title:   r.Title,
		Content: r.Content,
	}
}

// UpdateTodoRequest distinguishes an absent field (nil) from a present one,
// so "content": "" clears the content while an omitted content keeps it.
type UpdateTodoRequest struct {
	Title     *string `json:"title" validate:"omitnil,min=1"`
	Content   *string `json:"content"`
	Completed *bool   `json:"completed"`
}

func (r UpdateTodoRequest) ToDomain() domain.TodoChanges {
	return domain.TodoChanges{
		Title:     r.Title,
		Content:   r.Content,
		Completed: r.Completed,
	}
}
