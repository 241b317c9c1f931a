package gateway

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"

	"github.com/PepeePB/proyecto-asee/config"
)

// RegisterRoutes wires the filter and the per-service reverse proxies. The
// filter must run first: a request is only ever forwarded after the
// identity service vouched for its credential (or the path is exempt).
func RegisterRoutes(app *fiber.App, filter *TokenFilter, cfg *config.Config) {
	app.Use(filter.Middleware())

	app.All("/access/*", forwardTo(cfg.UsersServiceURL))
	app.All("/api/*", forwardTo(cfg.UsersServiceURL))
	app.All("/users/*", forwardTo(cfg.UsersServiceURL))
	app.All("/artists/*", forwardTo(cfg.UsersServiceURL))
	app.All("/content/*", forwardTo(cfg.ContentURL))
	app.All("/stats/*", forwardTo(cfg.StatsURL))
}

func forwardTo(base string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return proxy.Do(c, base+c.OriginalURL())
	}
}
