// Package main is the entry point for problemcrawl.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/samdwyer/problemcrawl/internal/config"
	"github.com/samdwyer/problemcrawl/internal/difficulty"
	"github.com/samdwyer/problemcrawl/internal/game"
	"github.com/samdwyer/problemcrawl/internal/gamedata"
	"github.com/samdwyer/problemcrawl/internal/logger"
	"github.com/samdwyer/problemcrawl/internal/random"
	"github.com/samdwyer/problemcrawl/internal/solvedac"
	"github.com/samdwyer/problemcrawl/internal/telemetry"
	"github.com/samdwyer/problemcrawl/internal/ui"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	setupOTelEnv()

	if err := run(context.Background()); err != nil {
		log.Fatalf("problemcrawl: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logs := logger.New(logFile, cfg.LogLevel, cfg.LogFormat)

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logs.WithError(err).Warn("telemetry setup failed, running without tracing")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logs.WithError(err).Error("telemetry shutdown failed")
			}
		}()
	}

	rng, seed, err := random.New(cfg.Seed)
	if err != nil {
		return fmt.Errorf("seed random source: %w", err)
	}
	logs.WithField("seed", seed).Info("starting problemcrawl")

	styles, err := gamedata.LoadRoomStyles()
	if err != nil {
		return fmt.Errorf("load room styles: %w", err)
	}
	catalog := gamedata.MustLoadCatalog()
	sampler := difficulty.NewSampler(rng)

	api := solvedac.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, &http.Client{}, logger.Component(logs, "solvedac"))
	problems := difficulty.NewGenerator(api, gamedata.MustLoadProblemPool(), sampler, difficulty.Options{
		Attempts:       cfg.SearchAttempts,
		AttemptTimeout: cfg.RequestTimeout,
		RetryDelay:     cfg.RetryDelay,
		Log:            logger.Component(logs, "difficulty"),
	})

	screen, err := ui.NewScreen()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	ctrl := game.NewController(game.Deps{
		Tiers:    api,
		Checker:  api,
		Problems: problems,
		Catalog:  catalog,
		Sampler:  sampler,
		Log:      logger.Component(logs, "game"),
		OnChange: func() { screen.Post(nil) },
	})

	app := ui.NewApp(screen, ctrl, catalog, styles, cfg.Handle, game.Config{
		GridSize: cfg.GridSize,
		TestMode: cfg.TestMode,
	}, logger.Component(logs, "ui"))
	return app.Run(ctx)
}

// setupOTelEnv builds the OTLP exporter settings from Honeycomb variables
// when they are present.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_PROBLEMCRAWL_API_KEY")
	if apiKey == "" {
		return
	}
	dataset := os.Getenv("HONEYCOMB_PROBLEMCRAWL_DATASET")
	if dataset == "" {
		dataset = "problemcrawl"
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
