package assistant

import (
	"fmt"
	"log/slog"

	"harmonyhealth/internal/capabilities"
	"harmonyhealth/internal/config"
	"harmonyhealth/internal/domain/services"
	assistantSvc "harmonyhealth/internal/domain/services/assistant"
	"harmonyhealth/internal/service/assistant/history"
	"harmonyhealth/internal/service/assistant/prompt"
	"harmonyhealth/internal/service/assistant/providers"
	"harmonyhealth/internal/service/assistant/tools"
)

// SetupChatService wires the prompt, tool registry, provider and loop into a ChatService
func SetupChatService(
	cfg *config.Config,
	profiles services.ProfileService,
	plans services.PlanService,
	logger *slog.Logger,
) (assistantSvc.ChatService, error) {
	caps, err := capabilities.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("load model capabilities: %w", err)
	}

	provider, err := providers.New(cfg, caps, logger)
	if err != nil {
		return nil, err
	}

	return NewChatServiceWithProvider(provider, cfg.AssistantMaxTurns, profiles, plans, logger)
}

// NewChatServiceWithProvider builds the chat service around an already constructed provider
func NewChatServiceWithProvider(
	provider assistantSvc.Provider,
	maxTurns int,
	profiles services.ProfileService,
	plans services.PlanService,
	logger *slog.Logger,
) (assistantSvc.ChatService, error) {
	policy, err := prompt.Load()
	if err != nil {
		return nil, fmt.Errorf("load system prompt: %w", err)
	}

	registry, err := tools.NewDefaultRegistry(profiles, plans)
	if err != nil {
		return nil, fmt.Errorf("build tool registry: %w", err)
	}

	builder := history.NewBuilder(policy.System(), logger)
	invoker := tools.NewInvoker(registry, logger)
	loop := NewLoop(provider, invoker, maxTurns, logger)

	logger.Info("assistant initialized",
		"provider", provider.Name(),
		"prompt_version", policy.Version,
		"tools", len(registry.Definitions()),
		"max_turns", maxTurns,
	)

	return NewChatService(builder, loop, logger), nil
}
