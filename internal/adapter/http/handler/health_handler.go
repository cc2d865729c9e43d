package handler

import (
	"net/http"

	. "memtodo/internal/adapter/http/helper"

	"github.com/gin-gonic/gin"
)

const healthMessage = "Alive and kicking."

func HealthCheck(c *gin.Context) {
	SendMessage(c, http.StatusOK, healthMessage)
}

func NotFound(c *gin.Context) {
	SendNotFoundError(c, "Route "+c.Request.URL.Path+" not found")
}

func MethodNotAllowed(c *gin.Context) {
	SendFail(c, http.StatusMethodNotAllowed, "Method "+c.Request.Method+" not allowed on "+c.Request.URL.Path)
}
