package providers

import (
	"fmt"
	"log/slog"

	"harmonyhealth/internal/capabilities"
	"harmonyhealth/internal/config"
	assistantSvc "harmonyhealth/internal/domain/services/assistant"
	"harmonyhealth/internal/service/assistant/providers/openai"
	"harmonyhealth/internal/service/assistant/providers/scripted"
)

// New builds the configured provider behind a circuit breaker. The model
// must be listed in the capability registry with tool support.
func New(cfg *config.Config, caps *capabilities.Registry, logger *slog.Logger) (assistantSvc.Provider, error) {
	var inner assistantSvc.Provider

	switch cfg.LLMProvider {
	case "openai":
		model, err := caps.RequireTools("openai", cfg.LLMModel)
		if err != nil {
			return nil, fmt.Errorf("openai provider: %w", err)
		}
		client, err := openai.NewClient(openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   model.ID,
			Timeout: cfg.LLMTimeout,
		}, nil, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("provider available", "name", client.Name(), "model", model.ID, "context_window", model.ContextWindow)
		inner = client

	case "scripted":
		model, err := caps.DefaultModel("scripted")
		if err != nil {
			return nil, err
		}
		logger.Warn("using scripted provider - replies are rule-based", "model", model)
		inner = scripted.NewProvider()

	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.LLMProvider)
	}

	return NewBreakerProvider(inner, BreakerConfig{
		MaxFailures: uint32(cfg.BreakerMaxFailures),
		Timeout:     cfg.BreakerTimeout,
	}, logger), nil
}
