package provider

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"

	"github.com/vasapolrittideah/blob-api/shared/errs"
)

const defaultVerifyTimeout = 10 * time.Second

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// PayloadValidator checks the signature and expiry of a Google ID token.
// An empty audience skips the audience check.
type PayloadValidator interface {
	Validate(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)
}

// GoogleVerifier validates Google ID tokens against a set of trusted client IDs.
type GoogleVerifier struct {
	audiences []string
	validator PayloadValidator
	timeout   time.Duration
	validate  *validator.Validate
}

// GoogleOption configures a GoogleVerifier.
type GoogleOption func(*GoogleVerifier)

// WithPayloadValidator replaces the validator that fetches Google's signing keys.
func WithPayloadValidator(v PayloadValidator) GoogleOption {
	return func(g *GoogleVerifier) {
		g.validator = v
	}
}

// WithVerifyTimeout bounds the time spent checking a token against Google's keys.
func WithVerifyTimeout(timeout time.Duration) GoogleOption {
	return func(g *GoogleVerifier) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

// NewGoogleVerifier creates a verifier trusting the given OAuth client IDs,
// typically one per client platform. Empty entries are ignored.
func NewGoogleVerifier(ctx context.Context, audiences []string, opts ...GoogleOption) (*GoogleVerifier, error) {
	trusted := make([]string, 0, len(audiences))
	for _, aud := range audiences {
		if aud = strings.TrimSpace(aud); aud != "" {
			trusted = append(trusted, aud)
		}
	}
	if len(trusted) == 0 {
		return nil, fmt.Errorf("%w: no Google client IDs configured", errs.ErrConfiguration)
	}

	g := &GoogleVerifier{
		audiences: trusted,
		timeout:   defaultVerifyTimeout,
		validate:  validator.New(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.validator == nil {
		v, err := idtoken.NewValidator(ctx, option.WithHTTPClient(&http.Client{Timeout: g.timeout}))
		if err != nil {
			return nil, fmt.Errorf("create google id token validator: %w", err)
		}
		g.validator = v
	}

	return g, nil
}

// Verify validates a Google ID token and returns the identity it asserts.
func (g *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, fmt.Errorf("%w: empty id token", errs.ErrInvalidCredential)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	payload, err := g.validator.Validate(ctx, idToken, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidCredential, err)
	}

	if !slices.Contains(googleIssuers, payload.Issuer) {
		return nil, fmt.Errorf("%w: untrusted issuer %q", errs.ErrInvalidCredential, payload.Issuer)
	}
	if !slices.Contains(g.audiences, payload.Audience) {
		return nil, fmt.Errorf("%w: audience %q is not trusted", errs.ErrInvalidCredential, payload.Audience)
	}

	if payload.Subject == "" {
		return nil, fmt.Errorf("%w: google token missing sub", errs.ErrMissingClaim)
	}

	email := stringClaim(payload.Claims, "email")
	if email == "" {
		return nil, fmt.Errorf("%w: google token missing email", errs.ErrMissingClaim)
	}
	if err := g.validate.Var(email, "email"); err != nil {
		return nil, fmt.Errorf("%w: malformed email claim", errs.ErrInvalidCredential)
	}

	return &Identity{
		Provider:       Google,
		ProviderUserID: payload.Subject,
		Email:          email,
		Name:           stringClaim(payload.Claims, "name"),
		Picture:        stringClaim(payload.Claims, "picture"),
	}, nil
}

func stringClaim(claims map[string]any, key string) string {
	if s, ok := claims[key].(string); ok {
		return s
	}
	return ""
}
