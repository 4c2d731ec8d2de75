package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"

	"github.com/vasapolrittideah/blob-api/shared/errs"
)

type stubValidator struct {
	payload *idtoken.Payload
	err     error
	calls   int
	block   bool
}

func (s *stubValidator) Validate(ctx context.Context, _ string, audience string) (*idtoken.Payload, error) {
	s.calls++
	if audience != "" {
		return nil, errors.New("audience must be checked by the verifier")
	}
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.payload, s.err
}

func googlePayload(aud string, claims map[string]any) *idtoken.Payload {
	sub, _ := claims["sub"].(string)
	return &idtoken.Payload{
		Issuer:   "https://accounts.google.com",
		Audience: aud,
		Subject:  sub,
		Expires:  time.Now().Add(time.Hour).Unix(),
		IssuedAt: time.Now().Unix(),
		Claims:   claims,
	}
}

func TestNewGoogleVerifier_RequiresAudience(t *testing.T) {
	stub := &stubValidator{}

	for _, audiences := range [][]string{nil, {}, {"", "  "}} {
		v, err := NewGoogleVerifier(context.Background(), audiences, WithPayloadValidator(stub))
		require.ErrorIs(t, err, errs.ErrConfiguration)
		assert.Nil(t, v)
	}
	assert.Zero(t, stub.calls)
}

func TestGoogleVerifier_Verify(t *testing.T) {
	stub := &stubValidator{payload: googlePayload("ios-client", map[string]any{
		"sub":     "g-123",
		"email":   "ada@example.com",
		"name":    "Ada Lovelace",
		"picture": "https://lh3.googleusercontent.com/a/ada",
	})}

	v, err := NewGoogleVerifier(context.Background(), []string{"web-client", "ios-client"}, WithPayloadValidator(stub))
	require.NoError(t, err)

	identity, err := v.Verify(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, &Identity{
		Provider:       Google,
		ProviderUserID: "g-123",
		Email:          "ada@example.com",
		Name:           "Ada Lovelace",
		Picture:        "https://lh3.googleusercontent.com/a/ada",
	}, identity)
}

func TestGoogleVerifier_OptionalProfileClaims(t *testing.T) {
	stub := &stubValidator{payload: googlePayload("web-client", map[string]any{
		"sub":   "g-1",
		"email": "a@x.com",
	})}

	v, err := NewGoogleVerifier(context.Background(), []string{"web-client"}, WithPayloadValidator(stub))
	require.NoError(t, err)

	identity, err := v.Verify(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Empty(t, identity.Name)
	assert.Empty(t, identity.Picture)
}

func TestGoogleVerifier_Failures(t *testing.T) {
	tests := []struct {
		name    string
		payload *idtoken.Payload
		err     error
		want    error
	}{
		{
			name: "validator rejects token",
			err:  errors.New("idtoken: token expired"),
			want: errs.ErrInvalidCredential,
		},
		{
			name:    "untrusted audience",
			payload: googlePayload("someone-else", map[string]any{"sub": "g-1", "email": "a@x.com"}),
			want:    errs.ErrInvalidCredential,
		},
		{
			name: "untrusted issuer",
			payload: func() *idtoken.Payload {
				p := googlePayload("web-client", map[string]any{"sub": "g-1", "email": "a@x.com"})
				p.Issuer = "https://evil.example.com"
				return p
			}(),
			want: errs.ErrInvalidCredential,
		},
		{
			name:    "missing subject",
			payload: googlePayload("web-client", map[string]any{"email": "a@x.com"}),
			want:    errs.ErrMissingClaim,
		},
		{
			name:    "missing email",
			payload: googlePayload("web-client", map[string]any{"sub": "g-1"}),
			want:    errs.ErrMissingClaim,
		},
		{
			name:    "malformed email",
			payload: googlePayload("web-client", map[string]any{"sub": "g-1", "email": "not-an-email"}),
			want:    errs.ErrInvalidCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubValidator{payload: tt.payload, err: tt.err}
			v, err := NewGoogleVerifier(context.Background(), []string{"web-client"}, WithPayloadValidator(stub))
			require.NoError(t, err)

			identity, err := v.Verify(context.Background(), "id-token")
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, identity)
		})
	}
}

func TestGoogleVerifier_EmptyTokenSkipsValidator(t *testing.T) {
	stub := &stubValidator{}
	v, err := NewGoogleVerifier(context.Background(), []string{"web-client"}, WithPayloadValidator(stub))
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), " ")
	require.ErrorIs(t, err, errs.ErrInvalidCredential)
	assert.Zero(t, stub.calls)
}

func TestGoogleVerifier_TimeoutIsInvalidCredential(t *testing.T) {
	stub := &stubValidator{block: true}
	v, err := NewGoogleVerifier(
		context.Background(),
		[]string{"web-client"},
		WithPayloadValidator(stub),
		WithVerifyTimeout(20*time.Millisecond),
	)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), "id-token")
	require.ErrorIs(t, err, errs.ErrInvalidCredential)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
