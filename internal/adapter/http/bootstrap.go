package http

import (
	"context"
	"errors"
	"net"
	"net/http"

	"memtodo/internal/adapter/http/middleware"
	"memtodo/internal/adapter/http/routes"
	"memtodo/internal/core/port"
	"memtodo/internal/core/telemetry"
	"memtodo/pkg/config"

	"go.uber.org/zap"
)

type Server struct {
	httpServer *http.Server
	container  *Container
	middleware middleware.Components
	logger     *config.LokiLogger
	config     *config.AppConfig
}

func NewServer(cfg *config.AppConfig, metrics *telemetry.AppMetrics, logger *config.LokiLogger, probe port.Telemetry) (*Server, error) {
	container := NewContainer(logger, probe)

	router, components, err := routes.SetupRouterWithConfig(routes.HandlersConfig{
		TodoHandler: container.TodoHandler,
	}, metrics, logger, cfg)
	if err != nil {
		return nil, err
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      middleware.CORS(cfg.CORS)(router),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		container:  container,
		middleware: components,
		logger:     logger,
		config:     cfg,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Serve blocks until the listener fails or Shutdown is called; the latter
// returns nil.
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Zap().Info("Server starting",
		zap.String("addr", listener.Addr().String()),
		zap.String("environment", s.config.Environment),
		zap.Bool("rate_limit_enabled", s.config.RateLimitEnabled),
		zap.Bool("cache_enabled", s.config.CacheEnabled),
		zap.Bool("https_enforced", s.config.EnforceHTTPS))

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	return s.Serve(listener)
}

func (s *Server) Shutdown(ctx context.Context) error {
	fields := append([]zap.Field{zap.Int("todos", s.container.TodoRepo.Count(ctx))}, s.middleware.Stats()...)
	s.logger.Zap().Info("Shutting down server", fields...)

	return s.httpServer.Shutdown(ctx)
}
