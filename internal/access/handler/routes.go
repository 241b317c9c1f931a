package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PepeePB/proyecto-asee/pkg/constant"
)

// RegisterRoutes mounts the session subsystem. The authentication filter
// runs before every route; ordering matters because the allow-list and
// open-doors checks must precede any credential check.
func RegisterRoutes(app *fiber.App, h *AccessHandler, auth *AuthMiddleware) {
	app.Use(auth.Authenticate())

	access := app.Group("/access")
	access.Post("/login", h.Login)
	access.Post("/register", h.Register)
	access.Post("/refreshToken", h.Refresh)
	access.Post("/logout", h.Logout)
	access.Get("/confirmAccount", h.ConfirmAccount)
	access.Get("/newVerifiedId", h.NewVerifiedID)
	access.Get("/getAgainVerifiedID", h.ResendVerification)
	access.Post("/public/passwordResetRequest", h.PasswordResetRequest)
	access.Post("/passwordReset", h.PasswordReset)
	access.Post("/confirmResetPassword", h.ConfirmResetPassword)

	// Admin-only session observability.
	admin := access.Group("/admin", RequireRole(constant.RoleAdmin))
	admin.Get("/sessions", h.Sessions)
	admin.Delete("/sessions/:username", h.ForceLogout)

	// Edge-delegated validation check.
	app.Post("/api/verified", h.Verified)
}
