package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"bookreview-backend/pkg/container"
	"bookreview-backend/pkg/logger"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	logger.Init(os.Getenv("APP_ENV"))

	c, err := container.New(context.Background())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer c.Cleanup()

	srv := newServer(c.Config.App.Port, setupRouter(c))
	if err := srv.run(); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}
