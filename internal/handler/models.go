package handler

import (
	"log/slog"
	"net/http"

	"harmonyhealth/internal/capabilities"
	"harmonyhealth/internal/config"
	"harmonyhealth/internal/httputil"
)

// ModelsHandler handles HTTP requests for model capabilities
type ModelsHandler struct {
	config   *config.Config
	logger   *slog.Logger
	registry *capabilities.Registry
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(cfg *config.Config, logger *slog.Logger, registry *capabilities.Registry) *ModelsHandler {
	return &ModelsHandler{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}
}

// ModelResponse represents a model's capabilities for the API response
type ModelResponse struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	ContextWindow int    `json:"context_window"`
	ToolCalls     bool   `json:"tool_calls"`
	Active        bool   `json:"active"`
}

// GetCapabilities returns the models of the configured provider
// GET /api/models
func (h *ModelsHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	models, err := h.registry.ListProviderModels(h.config.LLMProvider)
	if err != nil {
		handleError(w, err)
		return
	}

	active := h.config.LLMModel
	if h.config.LLMProvider == "scripted" {
		active, _ = h.registry.DefaultModel("scripted")
	}

	response := make([]ModelResponse, 0, len(models))
	for _, m := range models {
		response = append(response, ModelResponse{
			ID:            m.ID,
			DisplayName:   m.DisplayName,
			ContextWindow: m.ContextWindow,
			ToolCalls:     m.SupportsTools,
			Active:        m.ID == active,
		})
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"provider": h.config.LLMProvider,
		"models":   response,
	})
}
