package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "dev")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("ASSISTANT_MAX_TURNS", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.TablePrefix != "dev_" {
		t.Errorf("TablePrefix = %q, want dev_", cfg.TablePrefix)
	}
	if cfg.LLMProvider != "scripted" {
		t.Errorf("LLMProvider = %q, want scripted without an API key", cfg.LLMProvider)
	}
	if cfg.AssistantMaxTurns != DefaultAssistantMaxTurns {
		t.Errorf("AssistantMaxTurns = %d, want %d", cfg.AssistantMaxTurns, DefaultAssistantMaxTurns)
	}
	if cfg.LLMModel != "gpt-4o-2024-08-06" {
		t.Errorf("LLMModel = %q", cfg.LLMModel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("TABLE_PREFIX", "custom_")
	t.Setenv("ASSISTANT_MAX_TURNS", "3")
	t.Setenv("LLM_TIMEOUT", "5s")

	cfg := Load()

	if cfg.TablePrefix != "custom_" {
		t.Errorf("TablePrefix = %q, want custom_", cfg.TablePrefix)
	}
	if cfg.LLMProvider != "openai" {
		t.Errorf("LLMProvider = %q, want openai", cfg.LLMProvider)
	}
	if cfg.AssistantMaxTurns != 3 {
		t.Errorf("AssistantMaxTurns = %d, want 3", cfg.AssistantMaxTurns)
	}
	if cfg.LLMTimeout != 5*time.Second {
		t.Errorf("LLMTimeout = %v, want 5s", cfg.LLMTimeout)
	}
}

func TestGetInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	if got := getInt("SOME_INT", 7); got != 7 {
		t.Errorf("getInt = %d, want 7", got)
	}
	t.Setenv("SOME_INT", "-2")
	if got := getInt("SOME_INT", 7); got != 7 {
		t.Errorf("getInt = %d, want 7 for negative", got)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"server-2024-01-01T00-00-00.log",
		"server-2024-01-02T00-00-00.log",
		"server-2024-01-03T00-00-00.log",
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := cleanupOldLogs(dir, 2); err != nil {
		t.Fatalf("cleanupOldLogs: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, names[0])); !os.IsNotExist(err) {
		t.Error("oldest log file should have been removed")
	}
	for _, n := range names[1:] {
		if _, err := os.Stat(filepath.Join(dir, n)); err != nil {
			t.Errorf("%s should remain: %v", n, err)
		}
	}
}
