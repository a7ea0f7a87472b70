// Package grpc exposes the account server over gRPC using the JSON codec
// from internal/proto.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/ordo/internal/logging"
	pb "github.com/dmitrijs2005/ordo/internal/proto"
	"github.com/dmitrijs2005/ordo/internal/server/models"
	"github.com/dmitrijs2005/ordo/internal/server/services"
	"google.golang.org/grpc"
)

type UserService interface {
	Register(ctx context.Context, email, name string, salt, verifier []byte) (*models.User, error)
	GetSalt(ctx context.Context, email string) ([]byte, error)
	Login(ctx context.Context, email string, verifier []byte) (*services.TokenPair, *models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateSettings(ctx context.Context, userID string, patch models.SettingsPatch) (*models.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type SpaceService interface {
	List(ctx context.Context, ownerID string) ([]*models.SpaceContent, error)
	Create(ctx context.Context, ownerID string, c *models.SpaceContent) error
	Update(ctx context.Context, ownerID, id string, u services.SpaceUpdate) error
	Delete(ctx context.Context, ownerID, id string) error
}

type Options struct {
	// RateLimitRPS of zero disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
	ServerOptions  []grpc.ServerOption
}

type GRPCServer struct {
	pb.UnimplementedAccountServiceServer
	address   string
	users     UserService
	spaces    SpaceService
	logger    logging.Logger
	jwtSecret []byte
	limiter   *userLimiter
	srvOpts   []grpc.ServerOption
}

func NewGRPCServer(a string, l logging.Logger, us UserService, ss SpaceService, secretKey string, opts Options) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		spaces:    ss,
		jwtSecret: []byte(secretKey),
		limiter:   newUserLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		srvOpts:   opts.ServerOptions,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	opts := append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor, s.rateLimitInterceptor),
	}, s.srvOpts...)

	srv := grpc.NewServer(opts...)
	pb.RegisterAccountServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}
	<-stopped
	return nil
}
