package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/common"
	pb "github.com/dmitrijs2005/ordo/internal/proto"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

/*************
 * Fake pb client
 *************/

type fakePB struct {
	pb.AccountServiceClient

	lastRefreshTokenReq *pb.RefreshTokenRequest
	refreshTokenResp    *pb.RefreshTokenResponse
	refreshTokenErr     error
}

func (f *fakePB) RefreshToken(ctx context.Context, in *pb.RefreshTokenRequest, opts ...grpc.CallOption) (*pb.RefreshTokenResponse, error) {
	f.lastRefreshTokenReq = in
	return f.refreshTokenResp, f.refreshTokenErr
}

type memTokenStore struct {
	mu    sync.Mutex
	token string
	saves int
}

func (m *memTokenStore) LoadRefreshToken(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memTokenStore) SaveRefreshToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.saves++
	return nil
}

func tokenFrom(t *testing.T, ctx context.Context) string {
	t.Helper()
	md, _ := metadata.FromOutgoingContext(ctx)
	toks := md.Get(common.AccessTokenHeaderName)
	require.Len(t, toks, 1)
	return toks[0]
}

/*************
 * accessTokenInterceptor tests
 *************/

func TestInterceptor_RefreshesTokenOnExpiredAndRetries(t *testing.T) {
	f := &fakePB{
		refreshTokenResp: &pb.RefreshTokenResponse{AccessToken: "A2", RefreshToken: "R2"},
	}
	store := &memTokenStore{}
	c := &GRPCClient{
		client:       f,
		store:        store,
		accessToken:  "A1",
		refreshToken: "R1",
	}

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		if callCount == 1 {
			require.Equal(t, "A1", tokenFrom(t, ctx))
			return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		require.Equal(t, "A2", tokenFrom(t, ctx))
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), pb.AccountService_ListSpaces_FullMethodName, nil, nil, nil, invoker)
	require.NoError(t, err)
	require.Equal(t, 2, callCount)
	require.Equal(t, "A2", c.accessToken)
	require.Equal(t, "R2", c.refreshToken)
	require.Equal(t, "R1", f.lastRefreshTokenReq.RefreshToken)
	require.Equal(t, "R2", store.token)
}

func TestInterceptor_NoRefreshIfNoRefreshToken(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{
		client:      f,
		accessToken: "A1",
	}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}

	err := c.accessTokenInterceptor(context.Background(), pb.AccountService_ListSpaces_FullMethodName, nil, nil, nil, invoker)
	require.Error(t, err)
	require.Nil(t, f.lastRefreshTokenReq)
}

func TestInterceptor_IgnoresOtherErrors(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f, accessToken: "X", refreshToken: "R"}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Internal, "boom")
	}
	err := c.accessTokenInterceptor(context.Background(), pb.AccountService_ListSpaces_FullMethodName, nil, nil, nil, invoker)
	require.Equal(t, codes.Internal, status.Code(err))
	require.Nil(t, f.lastRefreshTokenReq)
}

func TestInterceptor_PublicMethodsCarryNoToken(t *testing.T) {
	c := &GRPCClient{accessToken: "A1"}
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		md, _ := metadata.FromOutgoingContext(ctx)
		require.Empty(t, md.Get(common.AccessTokenHeaderName))
		return nil
	}
	for m := range publicMethods {
		require.NoError(t, c.accessTokenInterceptor(context.Background(), m, nil, nil, nil, invoker))
	}
}

func TestInterceptor_ResumesFromStoredRefreshToken(t *testing.T) {
	f := &fakePB{
		refreshTokenResp: &pb.RefreshTokenResponse{AccessToken: "A9", RefreshToken: "R9"},
	}
	store := &memTokenStore{token: "R-stored"}
	c := &GRPCClient{client: f, store: store}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		require.Equal(t, "A9", tokenFrom(t, ctx))
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), pb.AccountService_GetProfile_FullMethodName, nil, nil, nil, invoker)
	require.NoError(t, err)
	require.Equal(t, "R-stored", f.lastRefreshTokenReq.RefreshToken)
	require.Equal(t, "R9", store.token)
}

func TestInterceptor_RejectedRefreshForgetsTokens(t *testing.T) {
	f := &fakePB{refreshTokenErr: status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())}
	store := &memTokenStore{token: "R-old"}
	c := &GRPCClient{client: f, store: store}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		t.Fatal("call must not be attempted without a token")
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), pb.AccountService_ListSpaces_FullMethodName, nil, nil, nil, invoker)
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.Empty(t, c.refreshToken)
	require.Empty(t, store.token)
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.Unauthenticated, ErrUnauthorized},
		{codes.PermissionDenied, ErrUnauthorized},
		{codes.Unavailable, ErrUnavailable},
		{codes.DeadlineExceeded, ErrUnavailable},
		{codes.ResourceExhausted, ErrRateLimited},
		{codes.NotFound, common.ErrorNotFound},
		{codes.AlreadyExists, common.ErrorAlreadyExists},
		{codes.InvalidArgument, common.ErrorValidation},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			require.ErrorIs(t, c.mapError(status.Error(tt.code, "x")), tt.want)
		})
	}

	require.NoError(t, c.mapError(nil))
	require.ErrorContains(t, c.mapError(errors.New("plain")), "rpc error")
}

/*************
 * bufconn round trip
 *************/

type fakeServer struct {
	pb.UnimplementedAccountServiceServer

	mu      sync.Mutex
	tokens  []string
	created []*pb.Space
	updates []*pb.UpdateSpaceRequest
	logout  error
}

func (s *fakeServer) record(ctx context.Context) {
	md, _ := metadata.FromIncomingContext(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = append(s.tokens, md.Get(common.AccessTokenHeaderName)...)
}

func (s *fakeServer) Login(ctx context.Context, in *pb.LoginRequest) (*pb.LoginResponse, error) {
	if in.Email != "ada@example.com" {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}
	return &pb.LoginResponse{
		AccessToken:  "A1",
		RefreshToken: "R1",
		Profile: &pb.Profile{UserId: "u1", Email: in.Email, Name: "Ada", Settings: &pb.Settings{
			DefaultStyle: "Compact", DefaultFocusMinutes: 10,
		}},
	}, nil
}

func (s *fakeServer) Logout(ctx context.Context, in *pb.LogoutRequest) (*pb.LogoutResponse, error) {
	return &pb.LogoutResponse{}, s.logout
}

func (s *fakeServer) ListSpaces(ctx context.Context, _ *pb.ListSpacesRequest) (*pb.ListSpacesResponse, error) {
	s.record(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	return &pb.ListSpacesResponse{Spaces: s.created}, nil
}

func (s *fakeServer) CreateSpace(ctx context.Context, in *pb.CreateSpaceRequest) (*pb.CreateSpaceResponse, error) {
	s.record(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, in.Space)
	return &pb.CreateSpaceResponse{}, nil
}

func (s *fakeServer) UpdateSpace(ctx context.Context, in *pb.UpdateSpaceRequest) (*pb.UpdateSpaceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, in)
	return &pb.UpdateSpaceResponse{}, nil
}

func (s *fakeServer) GetProfile(ctx context.Context, _ *pb.GetProfileRequest) (*pb.ProfileResponse, error) {
	s.record(ctx)
	return &pb.ProfileResponse{Profile: &pb.Profile{UserId: "u1", Email: "ada@example.com", Name: "Ada"}}, nil
}

func (s *fakeServer) DeleteSpace(ctx context.Context, in *pb.DeleteSpaceRequest) (*pb.DeleteSpaceResponse, error) {
	return nil, status.Error(codes.NotFound, "space not found")
}

func (s *fakeServer) Ping(context.Context, *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func startBufconn(t *testing.T, srv pb.AccountServiceServer, store TokenStore) *GRPCClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	pb.RegisterAccountServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet", Options{
		Tokens: store,
		DialOptions: []grpc.DialOption{
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCClient_RoundTrip(t *testing.T) {
	srv := &fakeServer{}
	store := &memTokenStore{}
	c := startBufconn(t, srv, store)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	sess, err := c.Login(ctx, "ada@example.com", []byte("verifier"))
	require.NoError(t, err)
	require.Equal(t, "u1", sess.UserID)
	require.Equal(t, "Ada", sess.DisplayName)
	require.Equal(t, models.StyleCompact, sess.Settings.DefaultStyle)
	require.Equal(t, 10, sess.Settings.DefaultFocusMinutes)
	require.Equal(t, "R1", store.token)

	sp := models.SavedSpace{
		ID:          "1700000000000",
		Name:        "Desk",
		CreatedDate: "Nov 14, 2023",
		Kind:        models.KindDream,
		AfterImage:  models.NewJPEG([]byte{0xff, 0xd8, 0x00, 0x01}),
	}
	require.NoError(t, c.CreateSpace(ctx, sp))

	list, err := c.ListSpaces(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, sp, list[0])
	require.Equal(t, []string{"A1", "A1"}, srv.tokens)

	require.ErrorIs(t, c.DeleteSpace(ctx, "missing"), common.ErrorNotFound)
}

func TestGRPCClient_UpdateSpaceAndProfile(t *testing.T) {
	srv := &fakeServer{}
	c := startBufconn(t, srv, &memTokenStore{})
	ctx := context.Background()

	_, err := c.Login(ctx, "ada@example.com", []byte("verifier"))
	require.NoError(t, err)

	empty := ""
	require.NoError(t, c.UpdateSpace(ctx, "1", models.SpacePatch{Note: &empty}))
	name := "Den"
	require.NoError(t, c.UpdateSpace(ctx, "1", models.SpacePatch{Name: &name}))

	require.Len(t, srv.updates, 2)
	require.NotNil(t, srv.updates[0].Note, "an explicit empty note is sent")
	require.Empty(t, *srv.updates[0].Note)
	require.Empty(t, srv.updates[0].Name)
	require.Nil(t, srv.updates[1].Note)
	require.Equal(t, "Den", srv.updates[1].Name)

	sess, err := c.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "u1", sess.UserID)
	require.Equal(t, "Ada", sess.DisplayName)
}

func TestGRPCClient_LoginFailureMapsToUnauthorized(t *testing.T) {
	c := startBufconn(t, &fakeServer{}, nil)

	_, err := c.Login(context.Background(), "eve@example.com", []byte("v"))
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestGRPCClient_LogoutForgetsTokensOnFailure(t *testing.T) {
	srv := &fakeServer{logout: status.Error(codes.Unavailable, "down")}
	store := &memTokenStore{}
	c := startBufconn(t, srv, store)
	ctx := context.Background()

	_, err := c.Login(ctx, "ada@example.com", []byte("v"))
	require.NoError(t, err)

	require.ErrorIs(t, c.Logout(ctx), ErrUnavailable)
	require.Empty(t, store.token)
	require.Empty(t, c.accessToken)
}
