package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	assistant "harmonyhealth/internal/domain/models/assistant"
	assistantSvc "harmonyhealth/internal/domain/services/assistant"
	"harmonyhealth/internal/httputil"
)

// ChatHandler handles assistant HTTP requests.
// The transcript lives on the client and is replayed on every request.
type ChatHandler struct {
	chatService assistantSvc.ChatService
	logger      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService assistantSvc.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

type chatRequest struct {
	Message string            `json:"message"`
	History []json.RawMessage `json:"history"`
}

// Chat runs one assistant exchange
// POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req chatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reply, err := h.chatService.Chat(r.Context(), &assistantSvc.ChatRequest{
		OwnerID: userID,
		Message: req.Message,
		History: req.History,
	})
	if err != nil {
		handleAssistantError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, assistant.OK("ok", reply))
}
