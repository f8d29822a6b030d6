package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/garrywilliams/cake/internal/adapter/handler/http"
	"github.com/garrywilliams/cake/internal/config"
	"github.com/garrywilliams/cake/internal/usecase"
	"github.com/garrywilliams/cake/pkg/logger"
)

// Server is the gateway's HTTP server.
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	workflow usecase.CakeWorkflow
}

// NewServer creates the HTTP server with its middleware stack.
func NewServer(cfg *config.Config, log *zap.Logger, workflow usecase.CakeWorkflow) *Server {
	e := echo.New()
	e.HideBanner = true

	logger.WithEchoLogger(e, log)

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(logger.NewEchoRequestLogger(log))

	return &Server{
		config:   cfg,
		logger:   log,
		echo:     e,
		workflow: workflow,
	}
}

// Start sets up the routes and begins serving.
func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	cakeHandler := handlers.NewCakeHandler(s.workflow, s.logger)
	cakeHandler.RegisterRoutes(s.echo)
}
