package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vasapolrittideah/blob-api/services/api-gateway/internal/metrics"
	"github.com/vasapolrittideah/blob-api/services/api-gateway/internal/payload"
	"github.com/vasapolrittideah/blob-api/services/api-gateway/internal/validation"
	authtypes "github.com/vasapolrittideah/blob-api/services/auth-service/pkg/types"
	"github.com/vasapolrittideah/blob-api/shared/utilities"
)

// AuthClient is the subset of the auth service the gateway calls.
type AuthClient interface {
	GoogleSignIn(
		ctx context.Context,
		in *authtypes.GoogleSignInRequest,
		opts ...grpc.CallOption,
	) (*authtypes.GoogleSignInResponse, error)
	Me(ctx context.Context, in *authtypes.MeRequest, opts ...grpc.CallOption) (*authtypes.MeResponse, error)
}

// AuthHandler serves the auth RPC routes.
type AuthHandler struct {
	client    AuthClient
	validator *validation.Validator
	metrics   metrics.Recorder
	logger    *zerolog.Logger
}

func NewAuthHandler(
	client AuthClient,
	validator *validation.Validator,
	recorder metrics.Recorder,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		client:    client,
		validator: validator,
		metrics:   recorder,
		logger:    logger,
	}
}

// GoogleSignIn exchanges a Google ID token for a session.
// POST /rpc/auth.googleSignIn
func (h *AuthHandler) GoogleSignIn(w http.ResponseWriter, r *http.Request) {
	var req payload.GoogleSignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.metrics.RecordSignIn(metrics.SignInInvalid)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	details, err := h.validator.Struct(req)
	if err != nil {
		h.metrics.RecordSignIn(metrics.SignInFailed)
		h.logger.Error().Err(err).Msg("failed to validate sign-in request")
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	if len(details) > 0 {
		h.metrics.RecordSignIn(metrics.SignInInvalid)
		writeJSON(w, http.StatusBadRequest, payload.ErrorResponse{Error: "invalid request", Details: details})
		return
	}

	ctx := utilities.ForwardHTTPHeadersToGRPC(r.Context(), r)
	resp, err := h.client.GoogleSignIn(ctx, &authtypes.GoogleSignInRequest{IDToken: req.IDToken})
	if err != nil {
		st := status.Convert(err)
		switch st.Code() {
		case codes.InvalidArgument:
			h.metrics.RecordSignIn(metrics.SignInInvalid)
			writeError(w, http.StatusBadRequest, st.Message())
		case codes.Unauthenticated:
			h.metrics.RecordSignIn(metrics.SignInRejected)
			writeError(w, http.StatusUnauthorized, st.Message())
		default:
			h.metrics.RecordSignIn(metrics.SignInFailed)
			h.logger.Error().Err(err).Msg("auth service google sign-in failed")
			writeError(w, http.StatusInternalServerError, "something went wrong")
		}
		return
	}

	h.metrics.RecordSignIn(metrics.SignInSucceeded)
	writeJSON(w, http.StatusOK, payload.GoogleSignInResponse{
		SessionToken: resp.SessionToken,
		User:         resp.User,
	})
}

// Me returns the user behind the Authorization header, or null.
// GET /rpc/auth.me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := utilities.ForwardHTTPHeadersToGRPC(r.Context(), r)
	resp, err := h.client.Me(ctx, &authtypes.MeRequest{})
	if err != nil {
		if status.Code(err) == codes.Unauthenticated {
			h.metrics.RecordWhoAmI(metrics.WhoAmIAnonymous)
			writeJSON(w, http.StatusOK, payload.MeResponse{})
			return
		}

		h.metrics.RecordWhoAmI(metrics.WhoAmIFailed)
		h.logger.Error().Err(err).Msg("auth service me failed")
		writeError(w, http.StatusInternalServerError, "something went wrong")
		return
	}

	if resp.User == nil {
		h.metrics.RecordWhoAmI(metrics.WhoAmIAnonymous)
	} else {
		h.metrics.RecordWhoAmI(metrics.WhoAmIAuthenticated)
	}
	writeJSON(w, http.StatusOK, payload.MeResponse{User: resp.User})
}
