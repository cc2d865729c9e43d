package service

import (
	"context"
	"errors"
	"math"
	"time"

	"memtodo/internal/core/domain"
	"memtodo/internal/core/port"
	tel "memtodo/internal/core/telemetry"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	serviceName = "todo"
)

type TodoService struct {
	repo      port.TodoRepository
	telemetry port.Telemetry
}

func NewTodoService(repo port.TodoRepository, telemetry port.Telemetry) *TodoService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoService{
		repo:      repo,
		telemetry: telemetry,
	}
}

// Offset converts a 1-indexed page into a slice offset. Pages below 1 fall
// back to the first page and negative limits to DefaultLimit; a zero limit
// selects nothing. Offsets that would overflow saturate at math.MaxInt, which
// is past the end of any store.
func Offset(page int, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}

	if limit < 0 {
		limit = DefaultLimit
	}

	if limit == 0 {
		return 0, 0
	}

	if page-1 > math.MaxInt/limit {
		return math.MaxInt, limit
	}

	return (page - 1) * limit, limit
}

func (ts *TodoService) List(ctx context.Context, page int, limit int) []domain.Todo {
	offset, limit := Offset(page, limit)

	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "List", map[string]interface{}{
		"pagination.page":   page,
		"pagination.limit":  limit,
		"pagination.offset": offset,
	})
	defer span.End()

	startTime := time.Now()
	todos := ts.repo.List(ctx, offset, limit)

	span.SetAttributes(map[string]interface{}{"todo.count": len(todos)})
	ts.telemetry.RecordServiceOperation(ctx, serviceName, "List", time.Since(startTime), nil)

	return todos
}

func (ts *TodoService) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "Create", map[string]interface{}{
		"todo.title": todo.Title,
	})
	defer span.End()

	startTime := time.Now()
	created, err := ts.repo.Create(ctx, todo)

	ts.telemetry.RecordServiceOperation(ctx, serviceName, "Create", time.Since(startTime), err)

	if err != nil {
		span.RecordError(err)
		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "todo_created", serviceName, created.ID, map[string]interface{}{
		"title": created.Title,
		"count": ts.repo.Count(ctx),
	})

	return created, nil
}

func (ts *TodoService) FindByID(ctx context.Context, id string) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "FindByID", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	startTime := time.Now()
	todo, err := ts.repo.FindByID(ctx, id)

	ts.telemetry.RecordServiceOperation(ctx, serviceName, "FindByID", time.Since(startTime), err)

	return todo, err
}

func (ts *TodoService) UpdateByID(ctx context.Context, id string, changes domain.TodoChanges) (domain.Todo, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, serviceName, "UpdateByID", map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	startTime := time.Now()
	todo, err := ts.repo.UpdateByID(ctx, id, changes)

	ts.telemetry.RecordServiceOperation(ctx, serviceName, "UpdateByID", time.Since(startTime), err)

	if err != nil {
		if !errors.Is(err, domain.ErrTodoNotFound) && !errors.Is(err, domain.ErrDuplicateTitle) {
			ts.telemetry.RecordError(ctx, "todo.UpdateByID", err, map[string]interface{}{"todo.id": id})
		}

		return domain.Todo{}, err
	}

	ts.telemetry.RecordBusinessEvent(ctx, "todo_updated", serviceName, todo.ID, map[string]interface{}{
		"completed": todo.Completed,
	})

	return todo, nil
}
