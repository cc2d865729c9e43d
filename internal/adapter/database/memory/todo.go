package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"memtodo/internal/core/domain"
	"memtodo/internal/core/port"
	tel "memtodo/internal/core/telemetry"
)

const entity = "todo"

type Option func(*TodoRepository)

// WithClock replaces time.Now as the source of created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *TodoRepository) {
		r.now = now
	}
}

// WithIDGenerator replaces the UUIDv4 id generator.
func WithIDGenerator(newID func() string) Option {
	return func(r *TodoRepository) {
		r.newID = newID
	}
}

// TodoRepository is the authoritative, insertion-ordered collection of todos.
// Every method runs as one critical section under mu; nothing inside the
// critical section blocks or performs I/O.
type TodoRepository struct {
	mu    sync.Mutex
	todos []domain.Todo

	now       func() time.Time
	newID     func() string
	telemetry port.Telemetry
}

func NewTodoRepository(telemetry port.Telemetry, opts ...Option) *TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	repo := &TodoRepository{
		todos:     make([]domain.Todo, 0),
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
		telemetry: telemetry,
	}

	for _, opt := range opts {
		opt(repo)
	}

	return repo
}

func (tr *TodoRepository) List(ctx context.Context, offset int, limit int) []domain.Todo {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "List", entity, map[string]interface{}{
		"pagination.offset": offset,
		"pagination.limit":  limit,
	})
	defer span.End()

	startTime := time.Now()
	page := tr.page(offset, limit)

	span.SetAttributes(map[string]interface{}{"result.count": len(page)})
	tr.telemetry.RecordRepositoryOperation(ctx, "List", entity, time.Since(startTime), nil)

	return page
}

// page copies only the requested window while holding the lock.
func (tr *TodoRepository) page(offset int, limit int) []domain.Todo {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if offset < 0 {
		offset = 0
	}

	if limit <= 0 || offset >= len(tr.todos) {
		return []domain.Todo{}
	}

	end := offset + limit
	if end > len(tr.todos) || end < offset {
		end = len(tr.todos)
	}

	page := make([]domain.Todo, end-offset)
	copy(page, tr.todos[offset:end])

	return page
}

func (tr *TodoRepository) Count(ctx context.Context) int {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	return len(tr.todos)
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Create", entity, map[string]interface{}{
		"todo.title": todo.Title,
	})
	defer span.End()

	startTime := time.Now()
	created, size, err := tr.insert(todo)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		tr.telemetry.RecordRepositoryOperation(ctx, "Create", entity, time.Since(startTime), err)
		return domain.Todo{}, err
	}

	span.SetAttributes(map[string]interface{}{"todo.id": created.ID})
	tr.telemetry.RecordRepositoryOperation(ctx, "Create", entity, time.Since(startTime), nil)
	tr.telemetry.RecordStoreSize(ctx, entity, size)

	return created, nil
}

func (tr *TodoRepository) insert(candidate domain.Todo) (domain.Todo, int, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.indexOfTitle(candidate.Title, "") >= 0 {
		return domain.Todo{}, len(tr.todos), domain.ErrDuplicateTitle
	}

	now := tr.now()

	todo := domain.Todo{
		ID:        tr.newID(),
		Title:     candidate.Title,
		Content:   candidate.Content,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	tr.todos = append(tr.todos, todo)

	return todo, len(tr.todos), nil
}

func (tr *TodoRepository) FindByID(ctx context.Context, id string) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "FindByID", entity, map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	startTime := time.Now()
	todo, err := tr.find(id)

	if err != nil {
		span.SetStatus("error", err.Error())
	}

	tr.telemetry.RecordRepositoryOperation(ctx, "FindByID", entity, time.Since(startTime), err)

	return todo, err
}

func (tr *TodoRepository) find(id string) (domain.Todo, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	idx := tr.indexOfID(id)
	if idx < 0 {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	return tr.todos[idx], nil
}

func (tr *TodoRepository) UpdateByID(ctx context.Context, id string, changes domain.TodoChanges) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "UpdateByID", entity, map[string]interface{}{
		"todo.id": id,
	})
	defer span.End()

	startTime := time.Now()
	todo, err := tr.update(id, changes)

	if err != nil {
		span.SetStatus("error", err.Error())
	}

	tr.telemetry.RecordRepositoryOperation(ctx, "UpdateByID", entity, time.Since(startTime), err)

	return todo, err
}

func (tr *TodoRepository) update(id string, changes domain.TodoChanges) (domain.Todo, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	idx := tr.indexOfID(id)
	if idx < 0 {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	if changes.Title != nil && tr.indexOfTitle(*changes.Title, id) >= 0 {
		return domain.Todo{}, domain.ErrDuplicateTitle
	}

	tr.todos[idx].Apply(changes, tr.now())

	return tr.todos[idx], nil
}

func (tr *TodoRepository) indexOfID(id string) int {
	for i := range tr.todos {
		if tr.todos[i].ID == id {
			return i
		}
	}

	return -1
}

// indexOfTitle ignores the todo identified by exceptID so a todo can keep its
// own title across updates.
func (tr *TodoRepository) indexOfTitle(title string, exceptID string) int {
	for i := range tr.todos {
		if tr.todos[i].ID != exceptID && tr.todos[i].HasTitle(title) {
			return i
		}
	}

	return -1
}
