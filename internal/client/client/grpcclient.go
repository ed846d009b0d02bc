package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/client/models"
	"github.com/dmitrijs2005/gophtasks/internal/common"
	pb "github.com/dmitrijs2005/gophtasks/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const callTimeout = 10 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.TaskServiceClient
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. Extra dial options are
// appended after the defaults (tests pass a bufconn dialer here).
func NewGRPCClient(endpointURL, accessToken string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, accessToken: accessToken}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewTaskServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// AccessToken returns the token attached to outgoing calls.
func (s *GRPCClient) AccessToken() string {
	return s.accessToken
}

func (s *GRPCClient) SignUp(ctx context.Context, userName, password string) error {
	_, err := s.client.SignUp(ctx, &pb.SignUpRequest{Username: userName, Password: password})
	return s.mapError(err)
}

// SignIn obtains an access token and keeps it for subsequent calls.
func (s *GRPCClient) SignIn(ctx context.Context, userName, password string) (string, error) {
	resp, err := s.client.SignIn(ctx, &pb.SignInRequest{Username: userName, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}

	s.accessToken = resp.GetAccessToken()
	return resp.GetAccessToken(), nil
}

func (s *GRPCClient) ListTasks(ctx context.Context, status, search string) ([]*models.Task, error) {
	resp, err := s.client.ListTasks(ctx, &pb.ListTasksRequest{Status: status, Search: search})
	if err != nil {
		return nil, s.mapError(err)
	}

	tasks := make([]*models.Task, 0, len(resp.GetTasks()))
	for _, t := range resp.GetTasks() {
		tasks = append(tasks, fromWire(t))
	}
	return tasks, nil
}

func (s *GRPCClient) CreateTask(ctx context.Context, title, description string) (*models.Task, error) {
	resp, err := s.client.CreateTask(ctx, &pb.CreateTaskRequest{Title: title, Description: description})
	if err != nil {
		return nil, s.mapError(err)
	}
	return fromWire(resp), nil
}

func (s *GRPCClient) GetTask(ctx context.Context, id string) (*models.Task, error) {
	resp, err := s.client.GetTask(ctx, &pb.GetTaskRequest{Id: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return fromWire(resp), nil
}

func (s *GRPCClient) DeleteTask(ctx context.Context, id string) error {
	_, err := s.client.DeleteTask(ctx, &pb.DeleteTaskRequest{Id: id})
	return s.mapError(err)
}

func (s *GRPCClient) UpdateStatus(ctx context.Context, id, status string) (*models.Task, error) {
	resp, err := s.client.UpdateTaskStatus(ctx, &pb.UpdateTaskStatusRequest{Id: id, Status: status})
	if err != nil {
		return nil, s.mapError(err)
	}
	return fromWire(resp), nil
}

func fromWire(t *pb.Task) *models.Task {
	return &models.Task{
		ID:          t.GetId(),
		Title:       t.GetTitle(),
		Description: t.GetDescription(),
		Status:      t.GetStatus(),
		CreatedAt:   t.GetCreatedAt().AsTime(),
		UpdatedAt:   t.GetUpdatedAt().AsTime(),
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrConflict
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalid, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
