package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rotaplan/internal/app"
	"github.com/rotaplan/internal/common/config"
	"github.com/rotaplan/internal/common/logger"
	"github.com/rotaplan/internal/i18n"
	"github.com/rotaplan/internal/routeapi"
)

func main() {
	// .env is optional for the client; the defaults point at the service
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Failed to load .env file:", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(1)
	}

	// stdout is the UI, so logs only reach the console when asked for
	loggerConfig := logger.DefaultLoggerConfig()
	loggerConfig.Level = logger.ParseLogLevel(cfg.Logging.Level)
	loggerConfig.Console = cfg.Logging.Console
	loggerConfig.FilePath = cfg.Logging.FilePath
	log := logger.NewFromConfig(loggerConfig)

	log.Info("rotaplan starting",
		"version", "1.0.0",
		"api_base", cfg.API.BaseURL,
		"language", cfg.UI.Language,
		"debounce", cfg.Search.Debounce.String(),
	)

	tr, err := i18n.New(cfg.UI.Language)
	if err != nil {
		log.Fatal("Failed to load translations", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := routeapi.NewHTTPClient(cfg.API.BaseURL, cfg.API.Timeout, log)
	session := app.NewSession(ctx, cfg, client, tr, os.Stdout, log)
	defer session.Close()

	if err := session.Run(ctx, os.Stdin); err != nil {
		log.Error("Session ended with error", "error", err)
	}

	log.Info("rotaplan stopped")
}
