// Package proto describes the authkeeper.v1.IdentityService gRPC service.
//
// Requests and responses are google.protobuf.Struct values; the field names
// used in them are listed below. The descriptors and stubs are written by hand
// in the shape protoc-gen-go-grpc would produce.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	IdentityService_ServiceName = "authkeeper.v1.IdentityService"

	IdentityService_Register_FullMethodName = "/authkeeper.v1.IdentityService/Register"
	IdentityService_Login_FullMethodName    = "/authkeeper.v1.IdentityService/Login"
	IdentityService_Me_FullMethodName       = "/authkeeper.v1.IdentityService/Me"
)

// Struct field names.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldFullName    = "full_name"
	FieldDisabled    = "disabled"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
)

type IdentityServiceServer interface {
	// Register takes {username, email, password, full_name?, disabled?} and
	// returns the public identity.
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Login takes {username, password} and returns {access_token, token_type}.
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Me takes an empty struct and the bearer token in "authorization"
	// metadata, and returns the caller's public identity.
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterIdentityServiceServer(s grpc.ServiceRegistrar, srv IdentityServiceServer) {
	s.RegisterService(&IdentityService_ServiceDesc, srv)
}

var IdentityService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: IdentityService_ServiceName,
	HandlerType: (*IdentityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Register",
			Handler:    unaryHandler(IdentityService_Register_FullMethodName, IdentityServiceServer.Register),
		},
		{
			MethodName: "Login",
			Handler:    unaryHandler(IdentityService_Login_FullMethodName, IdentityServiceServer.Login),
		},
		{
			MethodName: "Me",
			Handler:    unaryHandler(IdentityService_Me_FullMethodName, IdentityServiceServer.Me),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "authkeeper/v1/identity.proto",
}

type unaryMethod func(IdentityServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(IdentityServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(IdentityServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type IdentityServiceClient interface {
	Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Me(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type identityServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityServiceClient(cc grpc.ClientConnInterface) IdentityServiceClient {
	return &identityServiceClient{cc}
}

func (c *identityServiceClient) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, IdentityService_Register_FullMethodName, in, opts...)
}

func (c *identityServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, IdentityService_Login_FullMethodName, in, opts...)
}

func (c *identityServiceClient) Me(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, IdentityService_Me_FullMethodName, in, opts...)
}

func (c *identityServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// String returns the string value of key, or "" when absent or not a string.
func String(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

// OptionalString returns nil when key is absent, null or not a string.
func OptionalString(s *structpb.Struct, key string) *string {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil
	}
	out := sv.StringValue
	return &out
}

func Bool(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}
