package routes

import (
	"fmt"

	"memtodo/internal/adapter/http/handler"
	"memtodo/internal/adapter/http/middleware"
	"memtodo/internal/core/telemetry"
	"memtodo/pkg/config"

	"github.com/gin-gonic/gin"
)

type HandlersConfig struct {
	TodoHandler *handler.TodoHandler
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.LokiLogger, cfg *config.AppConfig) (*gin.Engine, middleware.Components, error) {
	router := newRouter()

	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, middleware.Components{}, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	components := middleware.SetupGinMiddlewareWithConfig(router, metrics, logger, cfg)
	router.Use(gin.Recovery())

	setupRoutes(router, handlers)

	return router, components, nil
}

func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := newRouter()
	router.Use(gin.Recovery())

	setupRoutes(router, handlers)

	return router
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	return router
}

func setupRoutes(router *gin.Engine, handlers HandlersConfig) {
	api := router.Group("/api")
	{
		api.GET("/health", handler.HealthCheck)

		if handlers.TodoHandler != nil {
			api.GET("/todos", handlers.TodoHandler.GetAllTodos)
			api.POST("/todos", handlers.TodoHandler.CreateTodo)
			api.GET("/todos/:id", handlers.TodoHandler.GetTodoByID)
			api.PATCH("/todos/:id", handlers.TodoHandler.UpdateTodo)
		}
	}

	router.NoRoute(handler.NotFound)
	router.NoMethod(handler.MethodNotAllowed)
}
