package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/blob-api/shared/errs"
)

const testSecret = "test-session-secret"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestCodec(t *testing.T, clock *fakeClock) *SessionCodec {
	t.Helper()

	codec, err := NewSessionCodec(testSecret, WithIssuer("blob-api"), WithClock(clock.Now))
	require.NoError(t, err)

	return codec
}

func TestNewSessionCodec_RequiresSecret(t *testing.T) {
	for _, secret := range []string{"", "   "} {
		codec, err := NewSessionCodec(secret)
		require.ErrorIs(t, err, errs.ErrConfiguration)
		assert.Nil(t, codec)
	}
}

func TestSessionCodec_RoundTrip(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: issuedAt}
	codec := newTestCodec(t, clock)

	cases := []SessionIdentity{
		{Subject: "u1", Email: "a@x.com", Name: "Ada", Picture: "https://img/a.png"},
		{Subject: "u2", Email: "b@x.com"},
		{Subject: "u3", Email: "c@x.com", Name: "Only Name"},
	}

	for _, identity := range cases {
		token, err := codec.Issue(identity)
		require.NoError(t, err)

		for _, at := range []time.Duration{0, time.Hour, SessionTTL - time.Second} {
			clock.now = issuedAt.Add(at)

			got, err := codec.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, identity, *got)
		}
		clock.now = issuedAt
	}
}

func TestSessionCodec_Expired(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: issuedAt}
	codec := newTestCodec(t, clock)

	token, err := codec.Issue(SessionIdentity{Subject: "u1", Email: "a@x.com"})
	require.NoError(t, err)

	clock.now = issuedAt.Add(SessionTTL + time.Second)

	_, err = codec.Verify(token)
	require.ErrorIs(t, err, errs.ErrInvalidSession)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSessionCodec_RejectsForeignSecret(t *testing.T) {
	clock := &fakeClock{now: time.Now().Truncate(time.Second)}
	codec := newTestCodec(t, clock)

	other, err := NewSessionCodec("another-secret", WithIssuer("blob-api"), WithClock(clock.Now))
	require.NoError(t, err)

	token, err := other.Issue(SessionIdentity{Subject: "u1", Email: "a@x.com"})
	require.NoError(t, err)

	_, err = codec.Verify(token)
	require.ErrorIs(t, err, errs.ErrInvalidSession)
}

func TestSessionCodec_RejectsOtherAlgorithm(t *testing.T) {
	clock := &fakeClock{now: time.Now().Truncate(time.Second)}
	codec := newTestCodec(t, clock)

	claims := SessionClaims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			Issuer:    "blob-api",
			IssuedAt:  jwt.NewNumericDate(clock.now),
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = codec.Verify(hs512)
	require.ErrorIs(t, err, errs.ErrInvalidSession)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Verify(unsigned)
	require.ErrorIs(t, err, errs.ErrInvalidSession)
}

func TestSessionCodec_RejectsMissingMandatoryClaims(t *testing.T) {
	clock := &fakeClock{now: time.Now().Truncate(time.Second)}
	codec := newTestCodec(t, clock)

	sign := func(claims jwt.Claims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return token
	}
	registered := jwt.RegisteredClaims{
		Issuer:    "blob-api",
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}

	withoutSubject := sign(SessionClaims{Email: "a@x.com", RegisteredClaims: registered})
	_, err := codec.Verify(withoutSubject)
	require.ErrorIs(t, err, errs.ErrInvalidSession)

	registered.Subject = "u1"
	withoutEmail := sign(SessionClaims{RegisteredClaims: registered})
	_, err = codec.Verify(withoutEmail)
	require.ErrorIs(t, err, errs.ErrInvalidSession)

	nonStringEmail := sign(jwt.MapClaims{
		"sub":   "u1",
		"iss":   "blob-api",
		"exp":   clock.now.Add(time.Hour).Unix(),
		"email": 42,
	})
	_, err = codec.Verify(nonStringEmail)
	require.ErrorIs(t, err, errs.ErrInvalidSession)
}

func TestSessionCodec_RejectsGarbage(t *testing.T) {
	codec := newTestCodec(t, &fakeClock{now: time.Now()})

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := codec.Verify(token)
		require.ErrorIs(t, err, errs.ErrInvalidSession)
	}
}
