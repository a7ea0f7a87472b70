package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/common"
	pb "github.com/dmitrijs2005/ordo/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Methods that never carry an access token.
var publicMethods = map[string]bool{
	pb.AccountService_Register_FullMethodName:     true,
	pb.AccountService_GetSalt_FullMethodName:      true,
	pb.AccountService_Login_FullMethodName:        true,
	pb.AccountService_RefreshToken_FullMethodName: true,
	pb.AccountService_Logout_FullMethodName:       true,
	pb.AccountService_Ping_FullMethodName:         true,
}

type Options struct {
	// Timeout bounds every call; zero means no deadline.
	Timeout     time.Duration
	Tokens      TokenStore
	DialOptions []grpc.DialOption
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.AccountServiceClient
	timeout     time.Duration
	store       TokenStore
	dialOpts    []grpc.DialOption

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	loaded       bool
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens(ctx context.Context) (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded && s.refreshToken == "" && s.store != nil {
		s.loaded = true
		if tok, err := s.store.LoadRefreshToken(ctx); err == nil {
			s.refreshToken = tok
		}
	}
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(ctx context.Context, access, refresh string) error {
	s.mu.Lock()
	s.accessToken = access
	s.refreshToken = refresh
	s.loaded = true
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	if err := s.store.SaveRefreshToken(ctx, refresh); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (s *GRPCClient) refresh(ctx context.Context, refreshToken string) error {
	resp, err := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		if status.Code(err) == codes.Unauthenticated {
			_ = s.setTokens(ctx, "", "")
		}
		return err
	}
	return s.setTokens(ctx, resp.AccessToken, resp.RefreshToken)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if publicMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := s.tokens(ctx)
	if access == "" && refresh != "" {
		if err := s.refresh(ctx, refresh); err != nil {
			return err
		}
		access, refresh = s.tokens(ctx)
	}

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	if st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refresh == "" {
		return err
	}

	if err := s.refresh(ctx, refresh); err != nil {
		return err
	}

	access, _ = s.tokens(ctx)
	return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
}

func NewGRPCClient(endpointURL string, opts Options) (*GRPCClient, error) {
	c := &GRPCClient{
		endpointURL: endpointURL,
		timeout:     opts.Timeout,
		store:       opts.Tokens,
		dialOpts:    opts.DialOptions,
	}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, s.dialOpts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewAccountServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, email, name string, salt, verifier []byte) (string, error) {
	resp, err := s.client.Register(ctx, &pb.RegisterRequest{Email: email, Name: name, Salt: salt, Verifier: verifier})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.UserId, nil
}

func (s *GRPCClient) GetSalt(ctx context.Context, email string) ([]byte, error) {
	resp, err := s.client.GetSalt(ctx, &pb.GetSaltRequest{Email: email})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Salt, nil
}

func (s *GRPCClient) Login(ctx context.Context, email string, verifier []byte) (*models.Session, error) {
	resp, err := s.client.Login(ctx, &pb.LoginRequest{Email: email, Verifier: verifier})
	if err != nil {
		return nil, s.mapError(err)
	}

	if err := s.setTokens(ctx, resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, err
	}
	return sessionFromPB(resp.Profile), nil
}

// Logout revokes the refresh token on the server and forgets both tokens
// locally, even when the call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	_, refresh := s.tokens(ctx)
	clearErr := s.setTokens(ctx, "", "")

	if refresh != "" {
		if _, err := s.client.Logout(ctx, &pb.LogoutRequest{RefreshToken: refresh}); err != nil {
			return s.mapError(err)
		}
	}
	return clearErr
}

func (s *GRPCClient) Profile(ctx context.Context) (*models.Session, error) {
	resp, err := s.client.GetProfile(ctx, &pb.GetProfileRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return sessionFromPB(resp.Profile), nil
}

func (s *GRPCClient) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (*models.Session, error) {
	resp, err := s.client.UpdateSettings(ctx, &pb.UpdateSettingsRequest{Patch: patchToPB(patch)})
	if err != nil {
		return nil, s.mapError(err)
	}
	return sessionFromPB(resp.Profile), nil
}

func (s *GRPCClient) DeleteAccount(ctx context.Context) error {
	if _, err := s.client.DeleteAccount(ctx, &pb.DeleteAccountRequest{}); err != nil {
		return s.mapError(err)
	}
	return s.setTokens(ctx, "", "")
}

func (s *GRPCClient) ListSpaces(ctx context.Context) ([]models.SavedSpace, error) {
	resp, err := s.client.ListSpaces(ctx, &pb.ListSpacesRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]models.SavedSpace, 0, len(resp.Spaces))
	for _, sp := range resp.Spaces {
		out = append(out, spaceFromPB(sp))
	}
	return out, nil
}

func (s *GRPCClient) CreateSpace(ctx context.Context, sp models.SavedSpace) error {
	if _, err := s.client.CreateSpace(ctx, &pb.CreateSpaceRequest{Space: spaceToPB(sp)}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) UpdateSpace(ctx context.Context, id string, p models.SpacePatch) error {
	req := &pb.UpdateSpaceRequest{
		Id:          id,
		Note:        p.Note,
		AfterImage:  imageToPB(p.AfterImage),
		BeforeImage: imageToPB(p.BeforeImage),
	}
	if p.Name != nil {
		req.Name = *p.Name
	}
	if _, err := s.client.UpdateSpace(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) DeleteSpace(ctx context.Context, id string) error {
	if _, err := s.client.DeleteSpace(ctx, &pb.DeleteSpaceRequest{Id: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
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
	case codes.ResourceExhausted:
		return ErrRateLimited
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.AlreadyExists:
		return common.ErrorAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrorValidation, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
