package app

import (
	"context"
	"fmt"

	"github.com/kbukum/meetscribe/api"
	"github.com/kbukum/meetscribe/bootstrap"
	"github.com/kbukum/meetscribe/component"
	"github.com/kbukum/meetscribe/llm/openai"
	"github.com/kbukum/meetscribe/logger"
	"github.com/kbukum/meetscribe/observability"
	"github.com/kbukum/meetscribe/provider"
	"github.com/kbukum/meetscribe/proxy"
	"github.com/kbukum/meetscribe/server"
	"github.com/kbukum/meetscribe/transcription/whisper"
	"github.com/kbukum/meetscribe/upload"
	"github.com/kbukum/meetscribe/util"
)

// Configure registers the telemetry and HTTP server components and mounts
// the API on the server. It is an OnConfigure callback.
func Configure(_ context.Context, a *bootstrap.App[*Config]) error {
	cfg := a.Cfg
	log := a.Logger

	telemetry := observability.NewComponent(cfg.Observability, cfg.Name, cfg.Version, cfg.Environment)
	if err := a.RegisterComponent(telemetry); err != nil {
		return err
	}

	var metrics *observability.Metrics
	if cfg.Observability.Enabled {
		m, err := observability.NewMetrics(observability.Meter(ServiceName))
		if err != nil {
			return fmt.Errorf("create metrics: %w", err)
		}
		metrics = m
	}

	srv, err := NewServer(cfg, log, metrics, a.Components.RegisterChecker)
	if err != nil {
		return err
	}
	srv.RegisterDefaultEndpoints(cfg.Name, a.Components.HealthAll)
	return a.RegisterComponent(server.NewComponent(srv))
}

// NewServer builds the HTTP server with the API mounted. Provider health
// checks are handed to register. /health and /info are left to the caller.
func NewServer(cfg *Config, log *logger.Logger, metrics *observability.Metrics, register func(component.Checker)) (*server.Server, error) {
	log.Info("provider configured", map[string]any{
		"base_url": cfg.Provider.BaseURL,
		"api_key":  util.MaskSecret(cfg.Provider.APIKey, 4),
	})
	if cfg.Provider.APIKey == "" {
		log.Warn("provider.api_key is empty; /transcribe and /analyze will fail until it is set")
	}

	store, err := upload.NewStore(cfg.Upload, log)
	if err != nil {
		return nil, err
	}

	stt, err := whisper.NewProvider(whisper.Config{
		BaseURL:  cfg.Provider.BaseURL,
		APIKey:   cfg.Provider.APIKey,
		Model:    cfg.Provider.TranscriptionModel,
		Language: cfg.Provider.Language,
		Timeout:  cfg.Provider.Timeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create transcription provider: %w", err)
	}
	chat, err := openai.NewProvider(openai.Config{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Model:   cfg.Provider.ChatModel,
		Timeout: cfg.Provider.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat provider: %w", err)
	}
	if register != nil {
		register(provider.NewHealthCheck(stt))
		register(provider.NewHealthCheck(chat))
	}

	opts := proxy.Options{Timeout: cfg.Provider.Timeout, Metrics: metrics, Logger: log}
	handlers := api.NewHandlers(store,
		proxy.NewTranscriptionProxy(stt, opts),
		proxy.NewAnalysisProxy(chat, opts),
		log,
	)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	api.Register(srv.GinEngine(), handlers, api.RouteConfig{
		AnalysisMaxBody: cfg.Analysis.MaxBodySize,
		Metrics:         metrics,
	})
	return srv, nil
}
