package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/PepeePB/proyecto-asee/config"
	"github.com/PepeePB/proyecto-asee/internal/access/domain"
	"github.com/PepeePB/proyecto-asee/internal/access/service"
	"github.com/PepeePB/proyecto-asee/internal/access/store"
	"github.com/PepeePB/proyecto-asee/pkg/constant"
)

const userLocalsKey = "currentUser"

// Paths that never require a credential: documentation, service discovery
// and the root probe.
var openPathPrefixes = []string{"/swagger-ui", "/v3/api-docs", "/eureka"}

// AuthMiddleware is the per-request authentication filter of the identity
// service. It only guards: it performs no writes, and requests without a
// credential pass through unauthenticated for downstream authorization to
// judge.
type AuthMiddleware struct {
	codec service.TokenCodec
	store store.SessionStore
	repo  domain.UserRepository
	cfg   *config.Config
	log   zerolog.Logger
}

func NewAuthMiddleware(codec service.TokenCodec, sessions store.SessionStore, repo domain.UserRepository,
	cfg *config.Config, log zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		codec: codec,
		store: sessions,
		repo:  repo,
		cfg:   cfg,
		log:   log,
	}
}

func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/" || hasAnyPrefix(path, openPathPrefixes) {
			return c.Next()
		}

		if m.cfg.OpenDoors {
			return c.Next()
		}

		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			m.log.Debug().Str("ip", c.IP()).Str("uri", c.OriginalURL()).Msg("request without token")
			return c.Next()
		}

		claims, err := m.codec.Decode(tokenString)
		if err != nil {
			m.log.Warn().Str("ip", c.IP()).Str("uri", c.OriginalURL()).Err(err).Msg("invalid token provided")
			return writeErrorCode(c, fiber.StatusUnauthorized, "token_is_invalid", "This token is invalid.")
		}

		ctx := c.UserContext()

		blacklisted, err := m.store.Exists(ctx, store.Blacklist, tokenString)
		if err != nil {
			// Store unreachable: fail closed, never grant.
			m.log.Error().Err(err).Msg("blacklist lookup failed")
			return writeErrorCode(c, fiber.StatusInternalServerError, "internal_error", "Could not validate the token.")
		}

		if blacklisted {
			m.log.Warn().Str("ip", c.IP()).Str("uri", c.OriginalURL()).Msg("request with blacklisted token")
			return writeErrorCode(c, fiber.StatusUnauthorized, "token_is_blacklist", "This token is blacklisted.")
		}

		user, err := m.repo.GetByUsername(ctx, claims.Username())
		if err != nil {
			m.log.Error().Err(err).Msg("user lookup failed")
			return writeErrorCode(c, fiber.StatusInternalServerError, "internal_error", "Could not validate the token.")
		}

		if user == nil || user.Username != claims.Username() || claims.Expired(time.Now()) {
			m.log.Warn().Str("ip", c.IP()).Str("uri", c.OriginalURL()).Msg("request with token failed")
			return writeErrorCode(c, fiber.StatusUnauthorized, "token_invalid", "This token is not valid.")
		}

		m.log.Info().Str("ip", c.IP()).Str("uri", c.OriginalURL()).Str("username", user.Username).
			Msg("request with token success")
		c.Locals(userLocalsKey, user)

		return c.Next()
	}
}

// RequireRole guards a route group behind an authenticated principal with
// the given role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return writeErrorCode(c, fiber.StatusUnauthorized, "token_invalid", "This token is not valid.")
		}

		if user.Role != role {
			return writeErrorCode(c, fiber.StatusForbidden, "forbidden", "Insufficient role for this resource.")
		}

		return c.Next()
	}
}

// CurrentUser returns the authenticated principal attached by the
// middleware, or nil for unauthenticated requests.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(userLocalsKey).(*domain.User)
	return user
}

// TokenFromRequest extracts the credential from the Authorization header,
// falling back to the token cookie.
func TokenFromRequest(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return c.Cookies(constant.TokenCookie)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}
