package main

import (
	"context"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/PepeePB/proyecto-asee/config"
	"github.com/PepeePB/proyecto-asee/db"
	"github.com/PepeePB/proyecto-asee/internal/access/handler"
	repo "github.com/PepeePB/proyecto-asee/internal/access/repository/postgres"
	"github.com/PepeePB/proyecto-asee/internal/access/service"
	"github.com/PepeePB/proyecto-asee/internal/access/store"
	"github.com/PepeePB/proyecto-asee/internal/access/token"
	"github.com/PepeePB/proyecto-asee/internal/mail"
)

func main() {
	cfg := config.Load()
	log := newLogger(cfg)
	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer dbPool.Close()

	redisClient, err := db.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	userRepo := repo.NewPostgresRepository(dbPool)
	sessions := store.NewRedisStore(redisClient)
	codec := token.NewCodec(cfg.TokenSecret, cfg.TokenLifetime)
	mailer := mail.NewLogMailer(log)

	accessService := service.NewAccessService(userRepo, sessions, codec, cfg, log)
	accountService := service.NewAccountService(userRepo, sessions, mailer, cfg, log)

	accessHandler := handler.NewAccessHandler(accessService, accountService, cfg, log)
	authMiddleware := handler.NewAuthMiddleware(codec, sessions, userRepo, cfg, log)

	app := fiber.New()
	handler.RegisterRoutes(app, accessHandler, authMiddleware)

	log.Info().Str("port", cfg.Port).Msg("users service listening")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.Env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
