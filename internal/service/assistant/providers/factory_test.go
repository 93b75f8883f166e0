package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmonyhealth/internal/capabilities"
	"harmonyhealth/internal/config"
)

func TestNew_SelectsProvider(t *testing.T) {
	caps, err := capabilities.NewRegistry()
	require.NoError(t, err)

	p, err := New(&config.Config{LLMProvider: "scripted"}, caps, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "scripted", p.Name())

	p, err = New(&config.Config{
		LLMProvider:  "openai",
		OpenAIAPIKey: "sk-test",
		LLMModel:     "gpt-4o-mini",
	}, caps, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestNew_Rejects(t *testing.T) {
	caps, err := capabilities.NewRegistry()
	require.NoError(t, err)

	_, err = New(&config.Config{LLMProvider: "anthropic"}, caps, discardLogger())
	assert.ErrorContains(t, err, "unknown LLM provider")

	_, err = New(&config.Config{LLMProvider: "openai", OpenAIAPIKey: "k", LLMModel: "gpt-3.5-turbo-instruct"}, caps, discardLogger())
	assert.ErrorContains(t, err, "does not support tool calling")

	_, err = New(&config.Config{LLMProvider: "openai", LLMModel: "gpt-4o-mini"}, caps, discardLogger())
	assert.ErrorContains(t, err, "API key")
}
