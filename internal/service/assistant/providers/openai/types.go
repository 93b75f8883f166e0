package openai

import models "harmonyhealth/internal/domain/models/assistant"

// Request is the chat-completions request body
type Request struct {
	Model      string                  `json:"model"`
	Messages   []Message               `json:"messages"`
	Tools      []models.ToolDefinition `json:"tools,omitempty"`
	ToolChoice string                  `json:"tool_choice,omitempty"`
}

// Message mirrors the wire message. Content is a pointer so an assistant
// message carrying only tool calls serializes content as null.
type Message struct {
	Role       string            `json:"role"`
	Content    *string           `json:"content"`
	Name       string            `json:"name,omitempty"`
	ToolCalls  []models.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
}

// Response is the chat-completions response body
type Response struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one completion alternative
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage reports token accounting for one call
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// errorEnvelope is the body of a non-2xx response
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

func toWire(messages []models.Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		wire := Message{
			Role:       string(m.Role),
			Name:       m.Name,
			ToolCalls:  m.ToolCalls,
			ToolCallID: m.ToolCallID,
		}
		if m.Content != "" || len(m.ToolCalls) == 0 {
			content := m.Content
			wire.Content = &content
		}
		// name is only meaningful on tool messages
		if m.Role != models.RoleTool {
			wire.Name = ""
		}
		out = append(out, wire)
	}
	return out
}

func fromWire(m Message) *models.Message {
	msg := &models.Message{
		Role:      models.RoleAssistant,
		ToolCalls: m.ToolCalls,
	}
	if m.Content != nil {
		msg.Content = *m.Content
	}
	for i := range msg.ToolCalls {
		if msg.ToolCalls[i].Type == "" {
			msg.ToolCalls[i].Type = "function"
		}
	}
	return msg
}
