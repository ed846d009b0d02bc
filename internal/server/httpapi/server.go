// Package httpapi is the JSON-over-HTTP transport, built on echo. Routes live
// under /api; task routes require an "Authorization: Bearer <token>" header.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/metrics"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type AuthService interface {
	SignUp(ctx context.Context, username, password string) error
	SignIn(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type TaskService interface {
	CreateTask(ctx context.Context, userID, title, description string) (*models.Task, error)
	ListTasks(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error)
	GetTask(ctx context.Context, userID, id string) (*models.Task, error)
	DeleteTask(ctx context.Context, userID, id string) error
	UpdateStatus(ctx context.Context, userID, id string, status models.TaskStatus) (*models.Task, error)
}

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	echo    *echo.Echo
	logger  logging.Logger
}

func NewServer(address string, auth AuthService, tasks TaskService, logger logging.Logger, m *metrics.Metrics) *Server {
	s := &Server{
		address: address,
		echo:    echo.New(),
		logger:  logger.With("module", "http_server"),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler

	e.Use(requestLogger(s.logger, m))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("64K"))

	e.GET("/healthz", healthz)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	api := e.Group(common.APIPrefix)
	api.POST("/auth/signup", signUp(auth))
	api.POST("/auth/signin", signIn(auth))

	tg := api.Group("/tasks", bearerAuth(auth))
	tg.GET("", listTasks(tasks))
	tg.POST("", createTask(tasks))
	tg.GET("/:id", getTask(tasks))
	tg.DELETE("/:id", deleteTask(tasks))
	tg.PATCH("/:id/status", updateTaskStatus(tasks))

	return s
}

// Handler exposes the router, mostly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.echo,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
