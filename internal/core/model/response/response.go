package response

import (
	"time"

	"memtodo/internal/core/domain"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

type TodoResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewTodoResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:        todo.ID,
		Title:     todo.Title,
		Content:   todo.Content,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
}

func NewTodoResponses(todos []domain.Todo) []TodoResponse {
	data := make([]TodoResponse, 0, len(todos))

	for _, todo := range todos {
		data = append(data, NewTodoResponse(todo))
	}

	return data
}

type GenericResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type TodoData struct {
	Todo TodoResponse `json:"todo"`
}

type SingleTodoResponse struct {
	Status string   `json:"status"`
	Data   TodoData `json:"data"`
}

type TodoListResponse struct {
	Status  string         `json:"status"`
	Results int            `json:"results"`
	Todos   []TodoResponse `json:"todos"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}
