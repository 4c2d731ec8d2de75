package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/repository"
	authtypes "github.com/vasapolrittideah/blob-api/services/auth-service/pkg/types"
	"github.com/vasapolrittideah/blob-api/shared/auth"
	"github.com/vasapolrittideah/blob-api/shared/provider"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	// SignIn exchanges a provider ID token for a session token and the signed-in user.
	SignIn(ctx context.Context, idToken string) (*authtypes.GoogleSignInResponse, error)

	// WhoAmI resolves the user behind an authorization header.
	// It returns nil without error for anonymous callers and for invalid or stale sessions.
	WhoAmI(ctx context.Context, authorization string) (*authtypes.PublicUser, error)
}

// CredentialVerifier validates an external identity token.
type CredentialVerifier interface {
	Verify(ctx context.Context, idToken string) (*provider.Identity, error)
}

// SessionCodec issues and verifies session tokens.
type SessionCodec interface {
	Issue(identity auth.SessionIdentity) (string, error)
	Verify(token string) (*auth.SessionIdentity, error)
}

const bearerPrefix = "Bearer "

type authUsecase struct {
	verifier CredentialVerifier
	resolver AccountResolver
	codec    SessionCodec
	userRepo repository.UserRepository
}

func NewAuthUsecase(
	verifier CredentialVerifier,
	resolver AccountResolver,
	codec SessionCodec,
	userRepo repository.UserRepository,
) AuthUsecase {
	return &authUsecase{
		verifier: verifier,
		resolver: resolver,
		codec:    codec,
		userRepo: userRepo,
	}
}

func (u *authUsecase) SignIn(ctx context.Context, idToken string) (*authtypes.GoogleSignInResponse, error) {
	identity, err := u.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := u.resolver.ResolveOrCreate(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("resolve account: %w", err)
	}

	sessionToken, err := u.codec.Issue(auth.SessionIdentity{
		Subject: user.ID.Hex(),
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Image,
	})
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	return &authtypes.GoogleSignInResponse{
		SessionToken: sessionToken,
		User:         publicUser(user),
	}, nil
}

func (u *authUsecase) WhoAmI(ctx context.Context, authorization string) (*authtypes.PublicUser, error) {
	token := strings.TrimSpace(strings.TrimPrefix(authorization, bearerPrefix))
	if token == "" {
		return nil, nil
	}

	session, err := u.codec.Verify(token)
	if err != nil {
		return nil, nil
	}

	user, err := u.userRepo.GetUser(ctx, session.Subject)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}

	return publicUser(user), nil
}

func publicUser(user *model.User) *authtypes.PublicUser {
	out := &authtypes.PublicUser{
		ID:    user.ID.Hex(),
		Email: user.Email,
		Name:  user.Name,
	}
	if user.Image != "" {
		picture := user.Image
		out.Picture = &picture
	}
	return out
}
