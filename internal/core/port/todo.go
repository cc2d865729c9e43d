package port

import (
	"context"

	"memtodo/internal/core/domain"
)

type TodoRepository interface {
	List(ctx context.Context, offset int, limit int) []domain.Todo
	Count(ctx context.Context) int
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	FindByID(ctx context.Context, id string) (domain.Todo, error)
	UpdateByID(ctx context.Context, id string, changes domain.TodoChanges) (domain.Todo, error)
}

type TodoService interface {
	List(ctx context.Context, page int, limit int) []domain.Todo
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	FindByID(ctx context.Context, id string) (domain.Todo, error)
	UpdateByID(ctx context.Context, id string, changes domain.TodoChanges) (domain.Todo, error)
}
