package assistant

import (
	"context"

	models "harmonyhealth/internal/domain/models/assistant"
)

// CompletionRequest is one model round-trip
type CompletionRequest struct {
	Messages []models.Message
	Tools    []models.ToolDefinition
}

// Provider is the hosted model. Complete returns the assistant reply message,
// which carries content, tool calls, or both. Provider errors are not retried.
type Provider interface {
	Complete(ctx context.Context, req *CompletionRequest) (*models.Message, error)

	// Name returns the provider name (e.g., "openai", "scripted")
	Name() string
}
