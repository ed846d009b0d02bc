package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	pb "github.com/dmitrijs2005/gophtasks/internal/proto"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/dmitrijs2005/gophtasks/internal/server/validation"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// toStatus maps service errors onto gRPC codes without leaking internals.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, common.ErrorConflict.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "task not found")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func toTask(t *models.Task) *pb.Task {
	return &pb.Task{
		Id:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		CreatedAt:   timestamppb.New(t.CreatedAt),
		UpdatedAt:   timestamppb.New(t.UpdatedAt),
	}
}

// caller returns the account set by accessTokenInterceptor.
func caller(ctx context.Context) (*models.User, error) {
	user, ok := userFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}
	return user, nil
}

func (s *GRPCServer) SignUp(ctx context.Context, req *pb.SignUpRequest) (*pb.SignUpResponse, error) {
	s.logger.Info(ctx, "Registration request")

	if err := validation.Credentials(req.Username, req.Password); err != nil {
		return nil, toStatus(err)
	}
	if err := s.auth.SignUp(ctx, req.Username, req.Password); err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username)
	return &pb.SignUpResponse{}, nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *pb.SignInRequest) (*pb.SignInResponse, error) {
	token, err := s.auth.SignIn(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &pb.SignInResponse{AccessToken: token}, nil
}

func (s *GRPCServer) ListTasks(ctx context.Context, req *pb.ListTasksRequest) (*pb.ListTasksResponse, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	st, err := validation.StatusFilter(req.Status)
	if err != nil {
		return nil, toStatus(err)
	}

	list, err := s.tasks.ListTasks(ctx, user.ID, models.TaskFilter{Status: st, Search: req.Search})
	if err != nil {
		return nil, toStatus(err)
	}

	out := &pb.ListTasksResponse{Tasks: make([]*pb.Task, 0, len(list))}
	for _, t := range list {
		out.Tasks = append(out.Tasks, toTask(t))
	}
	return out, nil
}

func (s *GRPCServer) CreateTask(ctx context.Context, req *pb.CreateTaskRequest) (*pb.Task, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := validation.Title(req.Title); err != nil {
		return nil, toStatus(err)
	}

	task, err := s.tasks.CreateTask(ctx, user.ID, req.Title, req.Description)
	if err != nil {
		return nil, toStatus(err)
	}
	return toTask(task), nil
}

func (s *GRPCServer) GetTask(ctx context.Context, req *pb.GetTaskRequest) (*pb.Task, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.GetTask(ctx, user.ID, req.Id)
	if err != nil {
		return nil, toStatus(err)
	}
	return toTask(task), nil
}

func (s *GRPCServer) DeleteTask(ctx context.Context, req *pb.DeleteTaskRequest) (*pb.DeleteTaskResponse, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.DeleteTask(ctx, user.ID, req.Id); err != nil {
		return nil, toStatus(err)
	}
	return &pb.DeleteTaskResponse{Status: "OK"}, nil
}

func (s *GRPCServer) UpdateTaskStatus(ctx context.Context, req *pb.UpdateTaskStatusRequest) (*pb.Task, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	st, err := validation.Status(req.Status)
	if err != nil {
		return nil, toStatus(err)
	}

	task, err := s.tasks.UpdateStatus(ctx, user.ID, req.Id, st)
	if err != nil {
		return nil, toStatus(err)
	}
	return toTask(task), nil
}
