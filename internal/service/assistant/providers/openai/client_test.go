package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "harmonyhealth/internal/domain/models/assistant"
	assistantSvc "harmonyhealth/internal/domain/services/assistant"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		APIKey:  "sk-test",
		BaseURL: server.URL + "/",
		Model:   "gpt-4o-2024-08-06",
	}, server.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresKeyAndModel(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewClient(Config{Model: "gpt-4o"}, nil, logger)
	assert.ErrorContains(t, err, "API key")

	_, err = NewClient(Config{APIKey: "k"}, nil, logger)
	assert.ErrorContains(t, err, "model")

	c, err := NewClient(Config{APIKey: "k", Model: "gpt-4o"}, nil, logger)
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, c.baseURL)
	assert.Equal(t, "openai", c.Name())
}

func TestComplete_SendsToolsAndParsesToolCalls(t *testing.T) {
	var captured map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"model": "gpt-4o-2024-08-06",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": null,
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "update_user_info", "arguments": "{\"height\":180}"}
					}]
				}
			}],
			"usage": {"prompt_tokens": 90, "completion_tokens": 12, "total_tokens": 102}
		}`)
	})

	tool := models.NewFunctionTool("update_user_info", "Update profile", map[string]interface{}{"type": "object"})
	reply, err := client.Complete(context.Background(), &assistantSvc.CompletionRequest{
		Messages: []models.Message{
			models.SystemMessage("policy"),
			models.UserMessage("我身高180"),
		},
		Tools: []models.ToolDefinition{tool},
	})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-2024-08-06", captured["model"])
	assert.Equal(t, "auto", captured["tool_choice"])
	assert.Len(t, captured["tools"], 1)
	assert.Len(t, captured["messages"], 2)

	assert.Equal(t, models.RoleAssistant, reply.Role)
	assert.Empty(t, reply.Content)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "call_1", reply.ToolCalls[0].ID)
	assert.Equal(t, "update_user_info", reply.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"height":180}`, reply.ToolCalls[0].Function.Arguments)
}

func TestComplete_ToolOnlyAssistantMessageHasNullContent(t *testing.T) {
	var raw struct {
		Messages []map[string]json.RawMessage `json:"messages"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"已更新"},"finish_reason":"stop"}]}`)
	})

	call := models.NewToolCall("call_1", "update_user_info", `{"height":180}`)
	reply, err := client.Complete(context.Background(), &assistantSvc.CompletionRequest{
		Messages: []models.Message{
			models.UserMessage("我身高180"),
			{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{call}},
			models.ToolMessage(call, `{"code":200}`),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "已更新", reply.Content)

	require.Len(t, raw.Messages, 3)
	assert.Equal(t, "null", string(raw.Messages[1]["content"]))
	assert.Equal(t, `"call_1"`, string(raw.Messages[2]["tool_call_id"]))
	assert.Equal(t, `"update_user_info"`, string(raw.Messages[2]["name"]))
}

func TestComplete_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"Rate limit reached","type":"requests"}}`)
	})

	_, err := client.Complete(context.Background(), &assistantSvc.CompletionRequest{
		Messages: []models.Message{models.UserMessage("hi")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestComplete_NoChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"choices":[]}`)
	})

	_, err := client.Complete(context.Background(), &assistantSvc.CompletionRequest{
		Messages: []models.Message{models.UserMessage("hi")},
	})
	assert.ErrorContains(t, err, "no choices")
}

func TestComplete_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})

	_, err := client.Complete(context.Background(), &assistantSvc.CompletionRequest{
		Messages: []models.Message{models.UserMessage("hi")},
	})
	assert.ErrorContains(t, err, "decode response")
}
