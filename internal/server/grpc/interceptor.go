package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	pb "github.com/dmitrijs2005/gophtasks/internal/proto"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userKey ctxKey = "user"

// publicMethods can be called without an access token.
var publicMethods = map[string]bool{
	pb.TaskService_SignUp_FullMethodName: true,
	pb.TaskService_SignIn_FullMethodName: true,
}

func userFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// accessTokenInterceptor resolves the "authorization: Bearer <token>" metadata
// of every non-public call and puts the account into the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
			header = values[0]
		}
	}

	token, err := auth.BearerToken(header)
	if err != nil {
		if errors.Is(err, auth.ErrMissingAuthorization) {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	user, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(context.WithValue(ctx, userKey, user), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)

	s.metrics.ObserveGRPC(info.FullMethod, code.String())
	s.logger.Info(ctx, "rpc", "method", info.FullMethod, "code", code.String(), "latency", time.Since(start))

	return resp, err
}
