package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"adspilot/internal/delivery"
	"adspilot/internal/infrastructure"
	"adspilot/internal/usecase"
	"adspilot/pkg/config"
	"adspilot/pkg/logger"
	"adspilot/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("Starting server")

	m := metrics.New()

	// remote control document overrides the env defaults
	resolver := infrastructure.NewControlResolver(cfg.Control.GistURL, cfg.Control.RequestTimeout, infrastructure.ControlSettings{
		ScriptURL:   cfg.Backend.ScriptURL,
		GeminiKey:   cfg.Gemini.APIKey,
		GeminiModel: cfg.Gemini.Model,
	}, log)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	settings := resolver.Resolve(ctx)
	cancel()

	log.WithFields(map[string]interface{}{
		"source": settings.Source,
		"model":  settings.GeminiModel,
	}).Info("Resolved connection settings")

	if settings.ScriptURL == "" {
		log.Error("No backend script URL configured, set BACKEND_SCRIPT_URL or CONTROL_GIST_URL")
		os.Exit(1)
	}

	backend := infrastructure.NewSheetClient(
		settings.ScriptURL,
		cfg.Backend.RequestTimeout,
		cfg.Backend.CacheTTL,
		cfg.Backend.RateLimitPerSecond,
		log,
		m,
	)

	generator := infrastructure.NewGeminiClient(
		settings.GeminiKey,
		settings.GeminiModel,
		cfg.Gemini.RequestTimeout,
		log,
		m,
	)

	feedbackService := usecase.NewFeedbackService(backend, log, m)
	assemblyService := usecase.NewAssemblyService(backend, generator, log, m, cfg.Output.Dir)

	handlers := delivery.NewHTTPHandlers(feedbackService, assemblyService, backend, log, m)
	router := delivery.NewHTTPRouter(handlers, log, m)

	engine := router.SetupRoutes()

	log.WithField("port", cfg.Server.Port).Info("Server listening")
	if err := engine.Run(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Error("Server stopped")
		os.Exit(1)
	}
}
