// Package grpc is the gRPC transport of the task service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophtasks/internal/logging"
	pb "github.com/dmitrijs2005/gophtasks/internal/proto"
	"github.com/dmitrijs2005/gophtasks/internal/server/metrics"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"google.golang.org/grpc"
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

type GRPCServer struct {
	pb.UnimplementedTaskServiceServer
	address string
	auth    AuthService
	tasks   TaskService
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewGRPCServer(a string, l logging.Logger, as AuthService, ts TaskService, m *metrics.Metrics) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
		tasks:   ts,
		metrics: m,
	}
}

// NewServer builds a *grpc.Server with the interceptor chain and the task
// service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
	}, opts...)

	srv := grpc.NewServer(opts...)
	pb.RegisterTaskServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
