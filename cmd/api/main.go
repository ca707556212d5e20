package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/lekan/attendease/internal/bootstrap"
	"github.com/lekan/attendease/internal/config"
	"github.com/lekan/attendease/internal/pkg/logger"
	"github.com/lekan/attendease/internal/server"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		logger.Info().Msg("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	app, err := bootstrap.Setup(context.Background(), cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
	}

	if err := server.Run(app); err != nil {
		logger.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}
