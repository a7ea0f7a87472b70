package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/ordo/internal/common"
	pb "github.com/dmitrijs2005/ordo/internal/proto"
	"github.com/dmitrijs2005/ordo/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// Methods callable without an access token.
var publicMethods = map[string]bool{
	pb.AccountService_Register_FullMethodName:     true,
	pb.AccountService_GetSalt_FullMethodName:      true,
	pb.AccountService_Login_FullMethodName:        true,
	pb.AccountService_RefreshToken_FullMethodName: true,
	pb.AccountService_Logout_FullMethodName:       true,
	pb.AccountService_Ping_FullMethodName:         true,
}

func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		// The client refreshes only on this exact message.
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	return handler(context.WithValue(ctx, userIDKey, userID), req)
}

// rateLimitInterceptor keys authenticated calls by user and the rest by
// peer address.
func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if s.limiter == nil {
		return handler(ctx, req)
	}

	key, ok := userIDFromContext(ctx)
	if !ok {
		key = "peer:unknown"
		if p, found := peer.FromContext(ctx); found && p.Addr != nil {
			key = "peer:" + p.Addr.String()
		}
	}

	if !s.limiter.allow(key) {
		return nil, status.Error(codes.ResourceExhausted, "too many requests")
	}
	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
	if code == codes.Internal || code == codes.Unknown {
		s.logger.Error(ctx, "rpc", append(args, "error", err)...)
	} else {
		s.logger.Debug(ctx, "rpc", args...)
	}
	return resp, err
}
