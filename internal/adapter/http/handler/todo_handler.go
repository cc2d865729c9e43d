package handler

import (
	"errors"
	"fmt"
	"net/http"

	. "memtodo/internal/adapter/http/helper"
	"memtodo/internal/adapter/http/validation"
	"memtodo/internal/core/domain"
	"memtodo/internal/core/model/request"
	"memtodo/internal/core/port"
	"memtodo/internal/core/service"
	"memtodo/internal/core/util"
	"memtodo/pkg/config"
	. "memtodo/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type TodoHandler struct {
	svc    port.TodoService
	Logger *config.LokiLogger
}

func NewTodoHandler(todoService port.TodoService, logger *config.LokiLogger) *TodoHandler {
	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &TodoHandler{
		svc:    todoService,
		Logger: logger,
	}
}

func (t *TodoHandler) GetAllTodos(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.GetAllTodos", []attribute.KeyValue{
		attribute.String("handler.operation", "GetAllTodos"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
	defer span.End()

	query, err := util.BindQuery[request.QueryOptions](c)

	if err != nil {
		AddSpanError(span, err)
		SendBadRequestError(c, "Invalid query parameters: page and limit must be non-negative integers")
		return
	}

	page, limit := query.Pagination(service.DefaultPage, service.DefaultLimit)

	span.SetAttributes(
		attribute.Int("todo.page", page),
		attribute.Int("todo.limit", limit),
	)

	todos := t.svc.List(ctx, page, limit)

	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusOK)

	SendTodos(c, todos)
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.CreateTodo", []attribute.KeyValue{
		attribute.String("handler.operation", "CreateTodo"),
	})
	defer span.End()

	params, err := util.BindBody[request.CreateTodoRequest](c)

	if err != nil {
		AddSpanError(span, err)
		SendBadRequestError(c, "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err := t.svc.Create(ctx, params.ToDomain())

	if err != nil {
		if errors.Is(err, domain.ErrDuplicateTitle) {
			AddSpanEvent(span, "todo.conflict", []attribute.KeyValue{attribute.String("todo.title", params.Title)})
			SendConflictError(c, fmt.Sprintf("Todo with title: '%s' already exists", params.Title))
			return
		}

		AddSpanError(span, err)
		t.Logger.ErrorWithTrace(ctx, "Failed to create todo", zap.Error(err), zap.String("title", params.Title))

		SendInternalError(c, "Error creating todo")
		return
	}

	t.Logger.InfoWithTrace(ctx, "Todo created", zap.String("todo_id", todo.ID))
	AddHTTPAttributes(span, c.Request.Method, c.FullPath(), http.StatusCreated)

	SendTodo(c, http.StatusCreated, todo)
}

func (t *TodoHandler) GetTodoByID(c *gin.Context) {
	id := c.Param("id")

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.GetTodoByID", []attribute.KeyValue{
		attribute.String("handler.operation", "GetTodoByID"),
		attribute.String("todo.id", id),
	})
	defer span.End()

	todo, err := t.svc.FindByID(ctx, id)

	if err != nil {
		t.sendLookupError(c, id, err)
		return
	}

	SendTodo(c, http.StatusOK, todo)
}

func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	id := c.Param("id")

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.UpdateTodo", []attribute.KeyValue{
		attribute.String("handler.operation", "UpdateTodo"),
		attribute.String("todo.id", id),
	})
	defer span.End()

	params, err := util.BindBody[request.UpdateTodoRequest](c)

	if err != nil {
		AddSpanError(span, err)
		SendBadRequestError(c, "Invalid request body")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err := t.svc.UpdateByID(ctx, id, params.ToDomain())

	if err != nil {
		if errors.Is(err, domain.ErrDuplicateTitle) {
			AddSpanEvent(span, "todo.conflict", []attribute.KeyValue{attribute.String("todo.title", *params.Title)})
			SendConflictError(c, fmt.Sprintf("Todo with title: '%s' already exists", *params.Title))
			return
		}

		t.sendLookupError(c, id, err)
		return
	}

	SendTodo(c, http.StatusOK, todo)
}

func (t *TodoHandler) sendLookupError(c *gin.Context, id string, err error) {
	if errors.Is(err, domain.ErrTodoNotFound) {
		SendNotFoundError(c, fmt.Sprintf("Todo with ID: %s not found", id))
		return
	}

	t.Logger.ErrorWithTrace(c.Request.Context(), "Todo lookup failed", zap.Error(err), zap.String("todo_id", id))
	SendInternalError(c, "Error fetching todo")
}
