package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	pb "github.com/dmitrijs2005/authkeeper/internal/proto"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/identity"
	"github.com/dmitrijs2005/authkeeper/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type harness struct {
	client pb.IdentityServiceClient
	store  *identity.MemoryStore
	tokens *auth.TokenService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	tokens, err := auth.NewTokenService([]byte("grpc-secret"), "HS256", 30*time.Minute)
	require.NoError(t, err)
	store := identity.NewMemoryStore()
	svc := users.NewService(store, auth.NewBcryptHasher(bcrypt.MinCost), tokens, nil, nil)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	srv := NewGRPCServer("bufconn", logging.Nop{}, svc)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	conn, err := grpc.NewClient("passthrough:///bufconn",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop")
		}
	})

	return &harness{client: pb.NewIdentityServiceClient(conn), store: store, tokens: tokens}
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

func (h *harness) register(t *testing.T, username, email, password string) {
	t.Helper()
	_, err := h.client.Register(context.Background(), mustStruct(t, map[string]any{
		"username": username, "email": email, "password": password,
	}))
	require.NoError(t, err)
}

func (h *harness) login(t *testing.T, username, password string) string {
	t.Helper()
	out, err := h.client.Login(context.Background(), mustStruct(t, map[string]any{
		"username": username, "password": password,
	}))
	require.NoError(t, err)
	assert.Equal(t, "bearer", pb.String(out, pb.FieldTokenType))
	return pb.String(out, pb.FieldAccessToken)
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	out, err := h.client.Register(context.Background(), mustStruct(t, map[string]any{
		"username": "alice", "email": "alice@example.com", "password": "pw123", "full_name": "Alice",
	}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"username":  "alice",
		"email":     "alice@example.com",
		"full_name": "Alice",
		"disabled":  false,
	}, out.AsMap())
}

func TestRegister_Errors(t *testing.T) {
	h := newHarness(t)
	h.register(t, "alice", "alice@example.com", "pw")

	tests := []struct {
		name string
		req  map[string]any
		code codes.Code
	}{
		{"duplicate username", map[string]any{"username": "alice", "email": "x@example.com", "password": "pw"}, codes.AlreadyExists},
		{"duplicate email", map[string]any{"username": "alice2", "email": "alice@example.com", "password": "pw"}, codes.AlreadyExists},
		{"bad email", map[string]any{"username": "carol", "email": "nope", "password": "pw"}, codes.InvalidArgument},
		{"no password", map[string]any{"username": "carol", "email": "carol@example.com"}, codes.InvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.client.Register(context.Background(), mustStruct(t, tt.req))
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestLogin_Failures(t *testing.T) {
	h := newHarness(t)
	h.register(t, "alice", "alice@example.com", "pw123")

	_, wrong := h.client.Login(context.Background(), mustStruct(t, map[string]any{"username": "alice", "password": "bad"}))
	_, missing := h.client.Login(context.Background(), mustStruct(t, map[string]any{"username": "ghost", "password": "pw123"}))

	assert.Equal(t, codes.Unauthenticated, status.Code(wrong))
	assert.Equal(t, status.Convert(wrong).Message(), status.Convert(missing).Message())
}

func TestMe(t *testing.T) {
	h := newHarness(t)
	h.register(t, "alice", "alice@example.com", "pw123")
	token := h.login(t, "alice", "pw123")

	out, err := h.client.Me(withToken(context.Background(), token), nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", pb.String(out, pb.FieldUsername))
	assert.Nil(t, pb.OptionalString(out, pb.FieldFullName))
	_, hasHash := out.GetFields()["credential_hash"]
	assert.False(t, hasHash)
}

func TestMe_GuardStates(t *testing.T) {
	h := newHarness(t)
	h.register(t, "bob", "bob@example.com", "pw")
	token := h.login(t, "bob", "pw")

	_, err := h.client.Me(context.Background(), nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = h.client.Me(withToken(context.Background(), "invalidtoken"), nil)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	require.NoError(t, h.store.SetDisabled(context.Background(), "bob", true))
	_, err = h.client.Me(withToken(context.Background(), token), nil)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))
	assert.Equal(t, "inactive user", status.Convert(err).Message())
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, nil)
	err := srv.Run(context.Background())
	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.Nop{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}
