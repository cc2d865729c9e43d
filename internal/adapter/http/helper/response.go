package helper

import (
	"net/http"

	"memtodo/internal/adapter/http/validation"
	"memtodo/internal/core/domain"
	"memtodo/internal/core/model/response"

	"github.com/gin-gonic/gin"
)

func SendMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.GenericResponse{
		Status:  response.StatusSuccess,
		Message: message,
	})
}

func SendTodo(c *gin.Context, statusCode int, todo domain.Todo) {
	c.JSON(statusCode, response.SingleTodoResponse{
		Status: response.StatusSuccess,
		Data: response.TodoData{
			Todo: response.NewTodoResponse(todo),
		},
	})
}

func SendTodos(c *gin.Context, todos []domain.Todo) {
	data := response.NewTodoResponses(todos)

	c.JSON(http.StatusOK, response.TodoListResponse{
		Status:  response.StatusSuccess,
		Results: len(data),
		Todos:   data,
	})
}

func SendFail(c *gin.Context, statusCode int, message string, errors ...response.ValidationError) {
	c.JSON(statusCode, response.ErrorResponse{
		Status:  response.StatusFail,
		Message: message,
		Errors:  errors,
	})
}

// AbortWithFail writes the fail envelope and stops the handler chain; used by
// middleware.
func AbortWithFail(c *gin.Context, statusCode int, message string) {
	SendFail(c, statusCode, message)
	c.Abort()
}

func SendValidationError(c *gin.Context, err error) {
	errors := validation.FormatValidationErrors(err)

	message := "Validation failed"
	if len(errors) > 0 {
		message = errors[0].Message
	}

	SendFail(c, http.StatusBadRequest, message, errors...)
}

func SendBadRequestError(c *gin.Context, message string) {
	SendFail(c, http.StatusBadRequest, message)
}

func SendNotFoundError(c *gin.Context, message string) {
	SendFail(c, http.StatusNotFound, message)
}

func SendConflictError(c *gin.Context, message string) {
	SendFail(c, http.StatusConflict, message)
}

func SendInternalError(c *gin.Context, message string) {
	SendFail(c, http.StatusInternalServerError, message)
}
