package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/PepeePB/proyecto-asee/pkg/constant"
)

// TokenFilter is the edge authentication filter. It never reasons about
// claims itself: the trust decision is delegated to the identity service's
// verification endpoint, which keeps the signing key out of the gateway.
type TokenFilter struct {
	verifyURL string
	client    *http.Client
	log       zerolog.Logger
}

func NewTokenFilter(usersBaseURL string, timeout time.Duration, log zerolog.Logger) *TokenFilter {
	return &TokenFilter{
		verifyURL: strings.TrimSuffix(usersBaseURL, "/") + "/api/verified",
		client:    &http.Client{Timeout: timeout},
		log:       log,
	}
}

// Middleware rejects every request that the identity service does not
// vouch for. Pre-flight requests and the session management path family
// pass through unconditionally; everything else needs a credential. The
// edge has no partial-trust mode: a missing token is an immediate 401, and
// a verification transport failure fails closed with a 500.
func (f *TokenFilter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions || strings.HasPrefix(c.Path(), "/access") {
			return c.Next()
		}

		token := tokenFromRequest(c)
		if token == "" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), f.client.Timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.verifyURL, nil)
		if err != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}

		req.AddCookie(&http.Cookie{Name: constant.TokenCookie, Value: token})

		resp, err := f.client.Do(req)
		if err != nil {
			f.log.Error().Err(err).Str("uri", c.OriginalURL()).Msg("token verification call failed")
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			f.log.Warn().Int("status", resp.StatusCode).Str("uri", c.OriginalURL()).
				Msg("token rejected by identity service")
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		return c.Next()
	}
}

// tokenFromRequest mirrors the identity service's extraction: bearer
// header first, token cookie as fallback. The bearer prefix is stripped so
// only the bare token travels to the verification endpoint.
func tokenFromRequest(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return c.Cookies(constant.TokenCookie)
}
