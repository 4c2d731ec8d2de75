package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/blob-api/services/auth-service/pkg/authrpc"
	authtypes "github.com/vasapolrittideah/blob-api/services/auth-service/pkg/types"
	"github.com/vasapolrittideah/blob-api/shared/errs"
	"github.com/vasapolrittideah/blob-api/shared/utilities"
)

type authGRPCHandler struct {
	authUsecase usecase.AuthUsecase
	logger      *zerolog.Logger
}

// NewAuthGRPCHandler registers the AuthService implementation on grpcServer.
func NewAuthGRPCHandler(grpcServer *grpc.Server, authUsecase usecase.AuthUsecase, logger *zerolog.Logger) {
	authrpc.RegisterAuthServiceServer(grpcServer, &authGRPCHandler{
		authUsecase: authUsecase,
		logger:      logger,
	})
}

func (h *authGRPCHandler) GoogleSignIn(
	ctx context.Context,
	req *authtypes.GoogleSignInRequest,
) (*authtypes.GoogleSignInResponse, error) {
	if strings.TrimSpace(req.IDToken) == "" {
		return nil, status.Errorf(codes.InvalidArgument, "id token is required")
	}

	resp, err := h.authUsecase.SignIn(ctx, req.IDToken)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrInvalidCredential):
			h.logger.Warn().Err(err).Msg("rejected google id token")
			return nil, status.Errorf(codes.Unauthenticated, "google sign-in failed: invalid credential")
		case errors.Is(err, errs.ErrMissingClaim):
			h.logger.Warn().Err(err).Msg("google id token lacks required claims")
			return nil, status.Errorf(codes.Unauthenticated, "google sign-in failed: account is missing an email")
		default:
			h.logger.Error().Err(err).Msg("failed to sign in with google")
			return nil, status.Errorf(codes.Internal, "something went wrong")
		}
	}

	h.logger.Info().Str("user_id", resp.User.ID).Msg("user signed in with google")

	return resp, nil
}

func (h *authGRPCHandler) Me(ctx context.Context, _ *authtypes.MeRequest) (*authtypes.MeResponse, error) {
	user, err := h.authUsecase.WhoAmI(ctx, utilities.AuthorizationFromIncoming(ctx))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load current user")
		return nil, status.Errorf(codes.Internal, "something went wrong")
	}

	return &authtypes.MeResponse{User: user}, nil
}
