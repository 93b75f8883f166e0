package prompt

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	system := p.System()
	for _, tool := range []string{"get_user_info", "get_user_plans", "create_or_update_plans"} {
		if !strings.Contains(system, tool) {
			t.Errorf("system prompt does not mention %s", tool)
		}
	}
	if !strings.Contains(system, "\n1. ") {
		t.Error("workflow steps should be numbered")
	}
}

func TestParse(t *testing.T) {
	p, err := Parse([]byte("persona: helper\nrules:\n  - be brief\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := p.System(), "helper\n\n- be brief"; got != want {
		t.Errorf("System() = %q, want %q", got, want)
	}

	if _, err := Parse([]byte("rules: [x]")); err == nil {
		t.Error("expected error without persona")
	}
	if _, err := Parse([]byte("persona: [")); err == nil {
		t.Error("expected error for invalid yaml")
	}
}
