package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PepeePB/proyecto-asee/internal/access/dto"
)

// Register creates an unverified account and mails a confirmation link.
func (h *AccessHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "invalid_request",
			"The request does not contain all the required fields.")
	}

	if err := h.validate.Struct(input); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "invalid_request",
			"The request does not contain all the required fields.")
	}

	if _, err := h.accounts.Register(c.UserContext(), input); err != nil {
		return writeError(c, err)
	}

	if isBrowserRequest(c) {
		return c.Redirect(h.cfg.Domain+"/core/views/register/success", fiber.StatusFound)
	}

	return c.JSON(dto.NewSuccessResponse("registration_ok",
		"User created and validation email sent successfully.", fiber.StatusOK))
}

// ConfirmAccount burns a verification id and marks the account verified.
func (h *AccessHandler) ConfirmAccount(c *fiber.Ctx) error {
	if err := h.accounts.ConfirmAccount(c.UserContext(), c.Query("id")); err != nil {
		return writeError(c, err)
	}

	if isBrowserRequest(c) {
		return c.Redirect(h.cfg.Domain+"/core/views/verified/success", fiber.StatusFound)
	}

	return c.JSON(dto.NewSuccessResponse("confirmed_email", "Confirmed email successfully.", fiber.StatusOK))
}

// NewVerifiedID hands out a fresh confirmation code when none is active.
func (h *AccessHandler) NewVerifiedID(c *fiber.Ctx) error {
	if err := h.accounts.NewVerificationID(c.UserContext(), c.Query("username")); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.NewSuccessResponse("again_verified_id",
		"An email with the new verification ID has been sent again.", fiber.StatusAccepted))
}

// ResendVerification re-mails the active confirmation link.
func (h *AccessHandler) ResendVerification(c *fiber.Ctx) error {
	if err := h.accounts.ResendVerification(c.UserContext(), c.Query("username")); err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(dto.NewSuccessResponse("again_verified_id",
		"An email with the new verification ID has been sent again.", fiber.StatusAccepted))
}

// PasswordResetRequest mails a six digit reset code.
func (h *AccessHandler) PasswordResetRequest(c *fiber.Ctx) error {
	var input dto.PasswordResetRequestInput
	if err := c.BodyParser(&input); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "invalid_request",
			"The request does not contain all the required fields.")
	}

	if err := h.validate.Struct(input); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "invalid_request",
			"The request does not contain all the required fields.")
	}

	if err := h.accounts.RequestPasswordReset(c.UserContext(), input); err != nil {
		return writeError(c, err)
	}

	return c.JSON(dto.NewSuccessResponse("sent_password_reset",
		"Sent password reset email successfully.", fiber.StatusOK))
}

// PasswordReset replaces the password after checking the six digit code.
func (h *AccessHandler) PasswordReset(c *fiber.Ctx) error {
	var input dto.PasswordResetInput
	if err := c.BodyParser(&input); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "invalid_request",
			"The request does not contain all the required fields.")
	}

	if err := h.validate.Struct(input); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "invalid_request",
			"The request does not contain all the required fields.")
	}

	if err := h.accounts.ResetPassword(c.UserContext(), input); err != nil {
		return writeError(c, err)
	}

	return c.JSON(dto.NewSuccessResponse("password_reset", "Password reset successfully.", fiber.StatusOK))
}

// ConfirmResetPassword is the link-based reset variant.
func (h *AccessHandler) ConfirmResetPassword(c *fiber.Ctx) error {
	var input dto.ConfirmResetInput
	if err := c.BodyParser(&input); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "invalid_request",
			"Both id and password are required.")
	}

	if err := h.validate.Struct(input); err != nil {
		return writeErrorCode(c, fiber.StatusBadRequest, "invalid_request",
			"Both id and password are required.")
	}

	if err := h.accounts.ConfirmResetPassword(c.UserContext(), input); err != nil {
		return writeError(c, err)
	}

	return c.JSON(dto.NewSuccessResponse("password_reset", "Password reset successfully.", fiber.StatusOK))
}
