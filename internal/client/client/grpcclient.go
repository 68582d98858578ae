package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const callTimeout = 12 * time.Second

// Identity is the public view of an account as returned by the server.
type Identity struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Disabled bool    `json:"disabled"`
}

type Client interface {
	Close() error
	Register(ctx context.Context, username, email, password string, fullName *string) (*Identity, error)
	Login(ctx context.Context, username, password string) (string, error)
	Me(ctx context.Context, token string) (*Identity, error)
}

type GRPCClient struct {
	conn   *grpc.ClientConn
	client pb.IdentityServiceClient
}

// NewGRPCClient connects to endpoint without transport security. Extra dial
// options are appended.
func NewGRPCClient(endpoint string, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{conn: conn, client: pb.NewIdentityServiceClient(conn)}, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) Register(ctx context.Context, username, email, password string, fullName *string) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	fields := map[string]any{
		pb.FieldUsername: username,
		pb.FieldEmail:    email,
		pb.FieldPassword: password,
	}
	if fullName != nil {
		fields[pb.FieldFullName] = *fullName
	}
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Register(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return identityFromStruct(resp), nil
}

// Login returns the raw access token.
func (s *GRPCClient) Login(ctx context.Context, username, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	req, err := structpb.NewStruct(map[string]any{
		pb.FieldUsername: username,
		pb.FieldPassword: password,
	})
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Login(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}
	return pb.String(resp, pb.FieldAccessToken), nil
}

func (s *GRPCClient) Me(ctx context.Context, token string) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	resp, err := s.client.Me(withAccessToken(ctx, token), &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return identityFromStruct(resp), nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func identityFromStruct(st *structpb.Struct) *Identity {
	return &Identity{
		Username: pb.String(st, pb.FieldUsername),
		Email:    pb.String(st, pb.FieldEmail),
		FullName: pb.OptionalString(st, pb.FieldFullName),
		Disabled: pb.Bool(st, pb.FieldDisabled),
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.FailedPrecondition:
		return ErrInactive
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
