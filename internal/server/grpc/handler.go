package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"github.com/dmitrijs2005/authkeeper/internal/server/identity"
	"github.com/dmitrijs2005/authkeeper/internal/server/users"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	pub, err := s.svc.Register(ctx, users.RegisterRequest{
		Username: pb.String(req, pb.FieldUsername),
		Email:    pb.String(req, pb.FieldEmail),
		Password: pb.String(req, pb.FieldPassword),
		FullName: pb.OptionalString(req, pb.FieldFullName),
		Disabled: pb.Bool(req, pb.FieldDisabled),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return identityStruct(pub)
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tok, err := s.svc.Login(ctx, pb.String(req, pb.FieldUsername), pb.String(req, pb.FieldPassword))
	if err != nil {
		return nil, toStatus(err)
	}

	out, err := structpb.NewStruct(map[string]any{
		pb.FieldAccessToken: tok.AccessToken,
		pb.FieldTokenType:   tok.TokenType,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	caller := CallerFromContext(ctx)
	if caller == nil {
		return nil, status.Error(codes.Unauthenticated, "not authenticated")
	}
	return identityStruct(caller)
}

func identityStruct(p *identity.PublicIdentity) (*structpb.Struct, error) {
	var fullName any
	if p.FullName != nil {
		fullName = *p.FullName
	}

	out, err := structpb.NewStruct(map[string]any{
		pb.FieldUsername: p.Username,
		pb.FieldEmail:    p.Email,
		pb.FieldFullName: fullName,
		pb.FieldDisabled: p.Disabled,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}
