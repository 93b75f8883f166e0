// Package history rebuilds the model transcript from client-held history.
package history

import (
	"bytes"
	"encoding/json"
	"log/slog"

	models "harmonyhealth/internal/domain/models/assistant"
)

// Builder turns the client-supplied history plus a new utterance into a
// transcript that starts with exactly one system message. Malformed entries
// are skipped rather than reported so a corrupted client history never
// blocks a conversation.
type Builder struct {
	systemPrompt string
	logger       *slog.Logger
}

// NewBuilder creates a builder that opens every transcript with systemPrompt
func NewBuilder(systemPrompt string, logger *slog.Logger) *Builder {
	return &Builder{systemPrompt: systemPrompt, logger: logger}
}

// rawEntry decodes one history entry without trusting its shape
type rawEntry struct {
	Role       string            `json:"role"`
	Content    json.RawMessage   `json:"content"`
	ToolCalls  []json.RawMessage `json:"tool_calls"`
	ToolCallID string            `json:"tool_call_id"`
	Name       string            `json:"name"`
}

type rawToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"function"`
}

// Build never fails. The returned transcript is system prompt, the surviving
// prior entries in order, then the new user message.
func (b *Builder) Build(prior []json.RawMessage, userText string) []models.Message {
	kept := make([]models.Message, 0, len(prior))
	dropped := 0
	for _, raw := range prior {
		msg, ok := parseEntry(raw)
		if !ok {
			dropped++
			continue
		}
		kept = append(kept, msg)
	}

	consistent := pairToolResults(kept)
	dropped += len(kept) - len(consistent)
	if dropped > 0 {
		b.logger.Debug("dropped malformed history entries", "dropped", dropped, "kept", len(consistent))
	}

	transcript := make([]models.Message, 0, len(consistent)+2)
	transcript = append(transcript, models.SystemMessage(b.systemPrompt))
	transcript = append(transcript, consistent...)
	transcript = append(transcript, models.UserMessage(userText))
	return transcript
}

func parseEntry(raw json.RawMessage) (models.Message, bool) {
	var e rawEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return models.Message{}, false
	}
	content, hasContent := textContent(e.Content)

	switch models.Role(e.Role) {
	case models.RoleUser:
		if !hasContent {
			return models.Message{}, false
		}
		return models.UserMessage(content), true

	case models.RoleAssistant:
		calls := parseToolCalls(e.ToolCalls)
		if !hasContent && len(calls) == 0 {
			return models.Message{}, false
		}
		return models.Message{Role: models.RoleAssistant, Content: content, ToolCalls: calls}, true

	case models.RoleTool:
		if e.ToolCallID == "" || e.Name == "" || !hasContent {
			return models.Message{}, false
		}
		return models.Message{
			Role:       models.RoleTool,
			Content:    content,
			ToolCallID: e.ToolCallID,
			Name:       e.Name,
		}, true

	default:
		// Missing or unknown role. Client-sent system entries are also
		// dropped; the transcript gets a fresh system prompt.
		return models.Message{}, false
	}
}

// textContent accepts only a non-empty JSON string
func textContent(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

func parseToolCalls(raws []json.RawMessage) []models.ToolCall {
	var calls []models.ToolCall
	for _, raw := range raws {
		var c rawToolCall
		if err := json.Unmarshal(raw, &c); err != nil {
			continue
		}
		if c.ID == "" || c.Function.Name == "" {
			continue
		}
		calls = append(calls, models.NewToolCall(c.ID, c.Function.Name, argumentString(c.Function.Arguments)))
	}
	return calls
}

// argumentString accepts the wire form (a JSON string holding an object)
// as well as a bare object
func argumentString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "{}"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// pairToolResults keeps a tool message only when it answers a call of the
// assistant message directly before its run of tool messages, and strips
// calls that never received a result.
func pairToolResults(msgs []models.Message) []models.Message {
	out := make([]models.Message, 0, len(msgs))

	for i := 0; i < len(msgs); i++ {
		msg := msgs[i]
		if msg.Role == models.RoleTool {
			// Orphan: not preceded by an assistant tool request
			continue
		}
		if msg.Role != models.RoleAssistant || !msg.HasToolCalls() {
			out = append(out, msg)
			continue
		}

		pending := make(map[string]bool, len(msg.ToolCalls))
		for _, c := range msg.ToolCalls {
			pending[c.ID] = true
		}
		answered := make(map[string]bool, len(msg.ToolCalls))

		var results []models.Message
		for i+1 < len(msgs) && msgs[i+1].Role == models.RoleTool {
			i++
			tm := msgs[i]
			if pending[tm.ToolCallID] && !answered[tm.ToolCallID] {
				answered[tm.ToolCallID] = true
				results = append(results, tm)
			}
		}

		var calls []models.ToolCall
		for _, c := range msg.ToolCalls {
			if answered[c.ID] {
				calls = append(calls, c)
			}
		}
		msg.ToolCalls = calls
		if msg.Content == "" && len(calls) == 0 {
			continue
		}
		out = append(out, msg)
		out = append(out, results...)
	}

	return out
}
