package main

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/PepeePB/proyecto-asee/config"
	"github.com/PepeePB/proyecto-asee/internal/gateway"
)

func main() {
	cfg := config.LoadGateway()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.Env == "development" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	filter := gateway.NewTokenFilter(cfg.UsersServiceURL, cfg.VerifyTimeout, log)

	app := fiber.New()
	gateway.RegisterRoutes(app, filter, cfg)

	log.Info().Str("port", cfg.GatewayPort).Msg("gateway listening")

	if err := app.Listen(":" + cfg.GatewayPort); err != nil {
		log.Fatal().Err(err).Msg("gateway stopped")
	}
}
