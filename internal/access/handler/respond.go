package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/PepeePB/proyecto-asee/internal/access/domain"
	"github.com/PepeePB/proyecto-asee/internal/access/dto"
	autherror "github.com/PepeePB/proyecto-asee/internal/errors"
	"github.com/PepeePB/proyecto-asee/pkg/constant"
)

func writeErrorCode(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.NewErrorResponse(code, message, status))
}

// writeError maps the sentinel errors of the subsystem onto the original
// wire codes. Everything unexpected becomes a 500.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, autherror.ErrMissingToken):
		return writeErrorCode(c, fiber.StatusBadRequest, "missing_token", "No token provided for refresh.")
	case errors.Is(err, autherror.ErrMalformedToken):
		return writeErrorCode(c, fiber.StatusUnauthorized, "token_is_invalid", "This token is invalid.")
	case errors.Is(err, autherror.ErrTokenBlacklisted):
		return writeErrorCode(c, fiber.StatusUnauthorized, "token_is_blacklist", "This token is blacklisted.")
	case errors.Is(err, autherror.ErrTokenNotOwned):
		return writeErrorCode(c, fiber.StatusUnauthorized, "not_property_token",
			"This token has expired or is not owned by the client")
	case errors.Is(err, autherror.ErrTokenInvalid), errors.Is(err, autherror.ErrTokenExpired):
		return writeErrorCode(c, fiber.StatusUnauthorized, "token_invalid", "This token is not valid.")
	case errors.Is(err, autherror.ErrUserNotVerified):
		return writeErrorCode(c, fiber.StatusForbidden, "not_verified", "User email not verified.")
	case errors.Is(err, autherror.ErrUserNotFound), errors.Is(err, autherror.ErrInvalidCredentials):
		return writeErrorCode(c, fiber.StatusUnauthorized, "unauthorized", "Invalid username or password.")
	case errors.Is(err, autherror.ErrUserAlreadyExists):
		return writeErrorCode(c, fiber.StatusBadRequest, "already_exists", "User already exists.")
	case errors.Is(err, autherror.ErrVerificationExists):
		return writeErrorCode(c, fiber.StatusBadRequest, "verified_exists",
			"You already have an active verification code.")
	case errors.Is(err, autherror.ErrVerificationExpired):
		return writeErrorCode(c, fiber.StatusBadRequest, "verified_expired", "Please, renew your verified id!")
	case errors.Is(err, autherror.ErrInvalidVerifyID):
		return writeErrorCode(c, fiber.StatusBadRequest, "invalid_id", "Invalid ID to confirm an account.")
	case errors.Is(err, autherror.ErrInvalidResetCode):
		return writeErrorCode(c, fiber.StatusBadRequest, "invalid_code",
			"The code provided does not match any user.")
	default:
		return writeErrorCode(c, fiber.StatusInternalServerError, "internal_error", "Unexpected error.")
	}
}

// isBrowserRequest detects interactive browser clients, which get redirects
// to human-facing pages on success paths instead of JSON.
func isBrowserRequest(c *fiber.Ctx) bool {
	accept := c.Get(fiber.HeaderAccept)
	userAgent := c.Get(fiber.HeaderUserAgent)

	return strings.Contains(accept, "text/html") &&
		userAgent != "" && !strings.Contains(strings.ToLower(userAgent), "httpclient")
}

func setTokenCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     constant.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   constant.TokenCookieMaxAge,
		HTTPOnly: true,
	})
}

func clearTokenCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     constant.TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
	})
}

// setCompanionCookies exposes non-sensitive account facts to browser
// clients. They carry no trust weight.
func setCompanionCookies(c *fiber.Ctx, user *domain.User) {
	for name, value := range map[string]string{
		constant.UsernameCookie: user.Username,
		constant.IsArtistCookie: strconv.FormatBool(user.IsArtist),
		constant.UserIDCookie:   user.ID,
	} {
		c.Cookie(&fiber.Cookie{
			Name:   name,
			Value:  value,
			Path:   "/",
			MaxAge: constant.TokenCookieMaxAge,
		})
	}
}
