// Package grpc serves authkeeper.v1.IdentityService over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/identity"
	"github.com/dmitrijs2005/authkeeper/internal/server/users"
	"google.golang.org/grpc"
)

// IdentityService is the subset of users.Service the handlers call.
type IdentityService interface {
	Register(ctx context.Context, req users.RegisterRequest) (*identity.PublicIdentity, error)
	Login(ctx context.Context, username, password string) (*auth.IssuedToken, error)
	ResolveAuthorization(ctx context.Context, header string) (*identity.PublicIdentity, error)
}

type GRPCServer struct {
	address string
	svc     IdentityService
	logger  logging.Logger
}

func NewGRPCServer(address string, l logging.Logger, svc IdentityService) *GRPCServer {
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		svc:     svc,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	pb.RegisterIdentityServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
