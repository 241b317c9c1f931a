package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PepeePB/proyecto-asee/internal/access/domain"
	autherror "github.com/PepeePB/proyecto-asee/internal/errors"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "user-123",
		Username: "alice",
		Email:    "alice@example.com",
		Role:     "ROLE_USER",
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec("test-secret", 24*time.Hour)
	fp := Fingerprint{IPAddress: "10.0.0.1", UserAgent: "test-agent"}

	signed, err := codec.Issue(testUser(), fp)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := codec.Decode(signed)
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Username())
	assert.Equal(t, "10.0.0.1", claims.IP)
	assert.Equal(t, "test-agent", claims.WebAgent)
	assert.Equal(t, "ROLE_USER", claims.Role)
	assert.Equal(t, fp, claims.Fingerprint())
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(time.Now().Add(25*time.Hour)))
}

func TestCodec_Decode_InvalidInput(t *testing.T) {
	codec := NewCodec("test-secret", 24*time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "empty", token: ""},
		{name: "truncated", token: "eyJhbGciOiJIUzI1NiJ9.e30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := codec.Decode(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, autherror.ErrMalformedToken)
		})
	}
}

func TestCodec_Decode_WrongKey(t *testing.T) {
	issuer := NewCodec("right-secret", 24*time.Hour)
	verifier := NewCodec("wrong-secret", 24*time.Hour)

	signed, err := issuer.Issue(testUser(), Fingerprint{IPAddress: "10.0.0.1", UserAgent: "a"})
	require.NoError(t, err)

	_, err = verifier.Decode(signed)
	assert.ErrorIs(t, err, autherror.ErrMalformedToken)
}

func TestCodec_Decode_WrongSigningMethod(t *testing.T) {
	codec := NewCodec("test-secret", 24*time.Hour)

	// Unsigned token: alg "none" must never verify.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "alice"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Decode(unsigned)
	assert.ErrorIs(t, err, autherror.ErrMalformedToken)
}

func TestCodec_Decode_ExpiredStillDecodes(t *testing.T) {
	codec := NewCodec("test-secret", -time.Hour)

	signed, err := codec.Issue(testUser(), Fingerprint{IPAddress: "10.0.0.1", UserAgent: "a"})
	require.NoError(t, err)

	claims, err := codec.Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username())
	assert.True(t, claims.Expired(time.Now()))
	assert.Equal(t, time.Duration(0), claims.RemainingLifetime(time.Now()))
}

func TestFingerprint_Matches(t *testing.T) {
	full := Fingerprint{IPAddress: "10.0.0.1", UserAgent: "agent"}

	tests := []struct {
		name  string
		a, b  Fingerprint
		match bool
	}{
		{name: "equal", a: full, b: full, match: true},
		{name: "different ip", a: full, b: Fingerprint{IPAddress: "10.0.0.2", UserAgent: "agent"}, match: false},
		{name: "different agent", a: full, b: Fingerprint{IPAddress: "10.0.0.1", UserAgent: "other"}, match: false},
		// Absent fingerprint halves fail closed.
		{name: "missing agent on one side", a: full, b: Fingerprint{IPAddress: "10.0.0.1"}, match: false},
		{name: "missing ip on one side", a: Fingerprint{UserAgent: "agent"}, b: full, match: false},
		{name: "both empty", a: Fingerprint{}, b: Fingerprint{}, match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, tt.a.Matches(tt.b))
		})
	}
}

func TestClaims_RemainingLifetime(t *testing.T) {
	now := time.Now()

	claims := &Claims{}
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Hour))

	remaining := claims.RemainingLifetime(now)
	assert.InDelta(t, time.Hour, remaining, float64(time.Second))

	assert.Equal(t, time.Duration(0), claims.RemainingLifetime(now.Add(2*time.Hour)))

	var noExpiry Claims
	assert.Equal(t, time.Duration(0), noExpiry.RemainingLifetime(now))
	assert.True(t, noExpiry.Expired(now))
}
