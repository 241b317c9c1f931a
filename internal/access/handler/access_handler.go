package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/PepeePB/proyecto-asee/config"
	"github.com/PepeePB/proyecto-asee/internal/access/dto"
	"github.com/PepeePB/proyecto-asee/internal/access/service"
	"github.com/PepeePB/proyecto-asee/pkg/constant"
)

type AccessHandler struct {
	access   *service.AccessService
	accounts *service.AccountService
	cfg      *config.Config
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAccessHandler(access *service.AccessService, accounts *service.AccountService,
	cfg *config.Config, log zerolog.Logger) *AccessHandler {
	return &AccessHandler{
		access:   access,
		accounts: accounts,
		cfg:      cfg,
		validate: validator.New(),
		log:      log,
	}
}

// Login authenticates and issues a credential. 201 with the token for API
// clients, 302 to the frontend home for browsers, 202 when the login
// rotated an existing session instead of creating a second one.
func (h *AccessHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "invalid_request", "Username and password are required.")
	}

	if err := h.validate.Struct(input); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "invalid_request", "Username and password are required.")
	}

	input.IPAddress = c.IP()
	input.UserAgent = c.Get(fiber.HeaderUserAgent)

	result, err := h.access.Login(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}

	setCompanionCookies(c, result.User)
	setTokenCookie(c, result.Token)

	if result.State == constant.TokenStateRenewed {
		return c.Status(fiber.StatusAccepted).JSON(dto.AuthResponse{Token: result.Token, State: result.State})
	}

	if isBrowserRequest(c) {
		return c.Redirect(h.cfg.FrontendDomain+"home", fiber.StatusFound)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{Token: result.Token, State: result.State})
}

// Refresh rotates the presented credential. A fingerprint or session
// mismatch degrades to logout semantics and still answers 202, but with
// the deleted state and a cleared cookie.
func (h *AccessHandler) Refresh(c *fiber.Ctx) error {
	input := dto.RefreshInput{
		Token:     TokenFromRequest(c),
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}

	result, err := h.access.Refresh(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}

	if result.State == constant.TokenStateDeleted {
		clearTokenCookie(c)
	} else {
		setTokenCookie(c, result.Token)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.AuthResponse{Token: result.Token, State: result.State})
}

// Logout revokes the presented credential and deletes the client cookie.
// The cookie is cleared even when the token turns out not to be owned.
func (h *AccessHandler) Logout(c *fiber.Ctx) error {
	clearTokenCookie(c)

	result, err := h.access.Logout(c.UserContext(), TokenFromRequest(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.AuthResponse{Token: result.Token, State: result.State})
}

// Verified answers 200 for any request carrying a valid credential. The
// gateway delegates its trust decision to this endpoint.
func (h *AccessHandler) Verified(c *fiber.Ctx) error {
	if CurrentUser(c) == nil {
		return writeErrorCode(c, fiber.StatusUnauthorized, "token_invalid", "This token is not valid.")
	}

	return c.SendStatus(fiber.StatusOK)
}

// Sessions lists the live sessions. Admin observability endpoint.
func (h *AccessHandler) Sessions(c *fiber.Ctx) error {
	sessions, err := h.access.ActiveSessions(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(sessions)
}

// ForceLogout revokes the current session of the given user.
func (h *AccessHandler) ForceLogout(c *fiber.Ctx) error {
	result, err := h.access.ForceLogout(c.UserContext(), c.Params("username"))
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.AuthResponse{Token: result.Token, State: result.State})
}
