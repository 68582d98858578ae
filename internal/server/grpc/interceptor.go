package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"github.com/dmitrijs2005/authkeeper/internal/server/identity"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const callerKey ctxKey = "caller"

// guardedMethods run the guard chain before the handler.
var guardedMethods = map[string]bool{
	pb.IdentityService_Me_FullMethodName: true,
}

// CallerFromContext returns the identity resolved by the interceptor.
func CallerFromContext(ctx context.Context) *identity.PublicIdentity {
	c, _ := ctx.Value(callerKey).(*identity.PublicIdentity)
	return c
}

// authorizationFromMetadata returns the raw authorization value, "" if absent.
func authorizationFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(common.AuthorizationHeaderName)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !guardedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	caller, err := s.svc.ResolveAuthorization(ctx, authorizationFromMetadata(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(context.WithValue(ctx, callerKey, caller), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{
		"method", info.FullMethod,
		"code", code.String(),
		"duration_ms", float64(time.Since(start).Nanoseconds()) / float64(time.Millisecond),
	}

	switch code {
	case codes.OK:
		s.logger.Info(ctx, "grpc_request", args...)
	case codes.Internal, codes.Unknown:
		s.logger.Error(ctx, "grpc_request", args...)
	default:
		s.logger.Warn(ctx, "grpc_request", args...)
	}
	return resp, err
}
