package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vasapolrittideah/blob-api/shared/errs"
)

// SessionTTL is the fixed validity window of an issued session token.
const SessionTTL = 30 * 24 * time.Hour

// SessionIdentity is the identity carried inside a session token.
type SessionIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// SessionClaims is the JWT payload of a session token.
type SessionClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// SessionCodec issues and verifies HS256 signed session tokens.
type SessionCodec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// CodecOption configures a SessionCodec.
type CodecOption func(*SessionCodec)

// WithIssuer sets the issuer written into and required from every token.
func WithIssuer(issuer string) CodecOption {
	return func(c *SessionCodec) {
		c.issuer = issuer
	}
}

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) CodecOption {
	return func(c *SessionCodec) {
		c.now = now
	}
}

// NewSessionCodec creates a SessionCodec signing with the given secret.
func NewSessionCodec(secret string, opts ...CodecOption) (*SessionCodec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%w: session signing secret is not set", errs.ErrConfiguration)
	}

	c := &SessionCodec{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Issue signs a new session token for the given identity.
func (c *SessionCodec) Issue(identity SessionIdentity) (string, error) {
	now := c.now()
	claims := SessionClaims{
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return tokenStr, nil
}

// Verify checks the signature, algorithm and expiry of a session token and
// returns the identity it carries. Every failure wraps errs.ErrInvalidSession.
func (c *SessionCodec) Verify(tokenString string) (*SessionIdentity, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(c.issuer))
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return c.secret, nil
	}, parserOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidSession, err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("%w: token is not valid", errs.ErrInvalidSession)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing sub", errs.ErrInvalidSession)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email", errs.ErrInvalidSession)
	}

	return &SessionIdentity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
