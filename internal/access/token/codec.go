package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/PepeePB/proyecto-asee/internal/access/domain"
	autherror "github.com/PepeePB/proyecto-asee/internal/errors"
)

// Fingerprint is the device identity bound into every issued credential.
// Both fields are compared verbatim on refresh; an empty field never
// matches anything, so clients that omit a User-Agent fail closed.
type Fingerprint struct {
	IPAddress string
	UserAgent string
}

// Matches reports whether both fingerprint halves are present and equal.
func (f Fingerprint) Matches(other Fingerprint) bool {
	if f.IPAddress == "" || f.UserAgent == "" || other.IPAddress == "" || other.UserAgent == "" {
		return false
	}

	return f.IPAddress == other.IPAddress && f.UserAgent == other.UserAgent
}

type Claims struct {
	jwt.RegisteredClaims
	IP       string `json:"ip"`
	WebAgent string `json:"webAgent"`
	Role     string `json:"role"`
}

func (c *Claims) Username() string {
	return c.Subject
}

func (c *Claims) Fingerprint() Fingerprint {
	return Fingerprint{IPAddress: c.IP, UserAgent: c.WebAgent}
}

// Expired reports whether the credential's lifetime has run out at the
// given instant. A credential with no expiry claim is always expired.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}

	return !c.ExpiresAt.After(now)
}

// RemainingLifetime returns how long the credential is still valid for,
// never negative. Used to size revocation record TTLs.
func (c *Claims) RemainingLifetime(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}

	remaining := c.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}

	return remaining
}

// Codec signs and verifies the platform's bearer credentials. It holds no
// state besides its key material and is safe for unlimited concurrent use.
type Codec struct {
	secret   []byte
	lifetime time.Duration
}

func NewCodec(secret string, lifetime time.Duration) *Codec {
	return &Codec{
		secret:   []byte(secret),
		lifetime: lifetime,
	}
}

func (c *Codec) Lifetime() time.Duration {
	return c.lifetime
}

// Issue builds a fresh credential for the user with the device fingerprint
// embedded as claims. Pure function of its inputs plus the clock.
func (c *Codec) Issue(user *domain.User, fp Fingerprint) (string, error) {
	now := time.Now()

	claims := Claims{
		IP:       fp.IPAddress,
		WebAgent: fp.UserAgent,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode verifies the signature and structure of a credential and returns
// its claims. Expired credentials still decode: the lifecycle needs to read
// claims out of stale tokens (for rotation and revocation), so expiry is a
// separate check via Claims.Expired.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return c.secret, nil
	})
	if err != nil {
		return nil, autherror.ErrMalformedToken
	}

	return claims, nil
}
