package interceptor

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vasapolrittideah/blob-api/shared/auth"
	"github.com/vasapolrittideah/blob-api/shared/utilities"
)

// HealthServicePrefix is the method prefix of the standard gRPC health service.
const HealthServicePrefix = "/grpc.health.v1.Health/"

type contextKey struct{}

var sessionKey = contextKey{}

// SessionVerifier verifies a session token.
type SessionVerifier interface {
	Verify(token string) (*auth.SessionIdentity, error)
}

// NewSessionInterceptor attaches the caller's verified session to the context.
// Public methods never fail on a missing or invalid session; every other method
// except the health service is rejected with Unauthenticated without one.
func NewSessionInterceptor(verifier SessionVerifier, publicMethods []string) grpc.UnaryServerInterceptor {
	public := make(map[string]bool)
	for _, method := range publicMethods {
		public[method] = true
	}

	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if strings.HasPrefix(info.FullMethod, HealthServicePrefix) {
			return handler(ctx, req)
		}

		session, err := sessionFromMetadata(ctx, verifier)
		if err != nil {
			if public[info.FullMethod] {
				return handler(ctx, req)
			}
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}

		return handler(context.WithValue(ctx, sessionKey, session), req)
	}
}

// SessionFromContext returns the session attached by the interceptor.
func SessionFromContext(ctx context.Context) (*auth.SessionIdentity, bool) {
	session, ok := ctx.Value(sessionKey).(*auth.SessionIdentity)
	return session, ok
}

// sessionFromMetadata accepts "Bearer <token>" as well as a bare token.
func sessionFromMetadata(ctx context.Context, verifier SessionVerifier) (*auth.SessionIdentity, error) {
	authHeader := strings.TrimSpace(utilities.AuthorizationFromIncoming(ctx))
	if scheme, token, ok := strings.Cut(authHeader, " "); ok && strings.EqualFold(scheme, "bearer") {
		authHeader = strings.TrimSpace(token)
	}
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}

	session, err := verifier.Verify(authHeader)
	if err != nil {
		return nil, errors.New("invalid or expired session")
	}

	return session, nil
}
