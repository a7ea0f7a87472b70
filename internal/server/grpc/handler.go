package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/ordo/internal/common"
	pb "github.com/dmitrijs2005/ordo/internal/proto"
	"github.com/dmitrijs2005/ordo/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC codes. Unknown errors are logged
// and reported as Internal without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) userID(ctx context.Context) (string, error) {
	id, ok := userIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return id, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *pb.RegisterRequest) (*pb.RegisterResponse, error) {
	user, err := s.users.Register(ctx, req.Email, req.Name, req.Salt, req.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.RegisterResponse{UserId: user.ID}, nil
}

func (s *GRPCServer) GetSalt(ctx context.Context, req *pb.GetSaltRequest) (*pb.GetSaltResponse, error) {
	salt, err := s.users.GetSalt(ctx, req.Email)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.GetSaltResponse{Salt: salt}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.LoginResponse, error) {
	tokens, user, err := s.users.Login(ctx, req.Email, req.Verifier)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		Profile:      profileToPB(user),
	}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.RefreshTokenResponse, error) {
	if req.RefreshToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing refresh token")
	}
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, req *pb.LogoutRequest) (*pb.LogoutResponse, error) {
	if err := s.users.Logout(ctx, req.RefreshToken); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.LogoutResponse{}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *pb.GetProfileRequest) (*pb.ProfileResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetProfile(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.ProfileResponse{Profile: profileToPB(user)}, nil
}

func (s *GRPCServer) UpdateSettings(ctx context.Context, req *pb.UpdateSettingsRequest) (*pb.ProfileResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.UpdateSettings(ctx, uid, patchFromPB(req.Patch))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.ProfileResponse{Profile: profileToPB(user)}, nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, _ *pb.DeleteAccountRequest) (*pb.DeleteAccountResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.users.DeleteAccount(ctx, uid); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.DeleteAccountResponse{}, nil
}

func (s *GRPCServer) ListSpaces(ctx context.Context, _ *pb.ListSpacesRequest) (*pb.ListSpacesResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.spaces.List(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := make([]*pb.Space, 0, len(list))
	for _, c := range list {
		out = append(out, spaceToPB(c))
	}
	return &pb.ListSpacesResponse{Spaces: out}, nil
}

func (s *GRPCServer) CreateSpace(ctx context.Context, req *pb.CreateSpaceRequest) (*pb.CreateSpaceResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Space == nil {
		return nil, status.Error(codes.InvalidArgument, "missing space")
	}
	if err := s.spaces.Create(ctx, uid, spaceFromPB(req.Space)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.CreateSpaceResponse{}, nil
}

func (s *GRPCServer) UpdateSpace(ctx context.Context, req *pb.UpdateSpaceRequest) (*pb.UpdateSpaceResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	u := services.SpaceUpdate{
		Name:   req.Name,
		Note:   req.Note,
		After:  imageFromPB(req.AfterImage),
		Before: imageFromPB(req.BeforeImage),
	}
	if err := s.spaces.Update(ctx, uid, req.Id, u); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.UpdateSpaceResponse{}, nil
}

func (s *GRPCServer) DeleteSpace(ctx context.Context, req *pb.DeleteSpaceRequest) (*pb.DeleteSpaceResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.spaces.Delete(ctx, uid, req.Id); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.DeleteSpaceResponse{}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}
