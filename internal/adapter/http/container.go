package http

import (
	"memtodo/internal/adapter/database/memory"
	"memtodo/internal/adapter/http/handler"
	"memtodo/internal/core/port"
	"memtodo/internal/core/service"
	"memtodo/pkg/config"
)

type Container struct {
	TodoRepo    port.TodoRepository
	TodoService port.TodoService
	TodoHandler *handler.TodoHandler
}

func NewContainer(logger *config.LokiLogger, probe port.Telemetry) *Container {
	todoRepo := memory.NewTodoRepository(probe)
	todoSvc := service.NewTodoService(todoRepo, probe)
	todoHandler := handler.NewTodoHandler(todoSvc, logger)

	return &Container{
		TodoRepo:    todoRepo,
		TodoService: todoSvc,
		TodoHandler: todoHandler,
	}
}
