package assistant

import (
	"context"
	"encoding/json"

	models "harmonyhealth/internal/domain/models/assistant"
)

// ChatRequest is a new user utterance plus the client-held transcript
type ChatRequest struct {
	OwnerID int64
	Message string
	History []json.RawMessage
}

// ChatReply is the final assistant answer and the full transcript to persist client-side
type ChatReply struct {
	Reply   string           `json:"reply"`
	History []models.Message `json:"history"`
}

// ChatService runs the bounded tool-calling loop for one request
type ChatService interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatReply, error)
}
