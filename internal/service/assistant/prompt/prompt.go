// Package prompt holds the assistant's system prompt.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed system.yaml
var systemYAML []byte

// Policy is the behavioral policy sent as the first transcript message
type Policy struct {
	Version      int      `yaml:"version"`
	Persona      string   `yaml:"persona"`
	PlanWorkflow Workflow `yaml:"plan_workflow"`
	Rules        []string `yaml:"rules"`
}

// Workflow is an ordered procedure the model should follow
type Workflow struct {
	Intro string   `yaml:"intro"`
	Steps []string `yaml:"steps"`
}

// Load parses the embedded policy
func Load() (*Policy, error) {
	return Parse(systemYAML)
}

// Parse decodes a policy document. A persona is required.
func Parse(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal system prompt: %w", err)
	}
	if strings.TrimSpace(p.Persona) == "" {
		return nil, fmt.Errorf("system prompt has no persona")
	}
	return &p, nil
}

// System renders the policy as a single system message
func (p *Policy) System() string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(p.Persona))

	if len(p.PlanWorkflow.Steps) > 0 {
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(p.PlanWorkflow.Intro))
		for i, step := range p.PlanWorkflow.Steps {
			fmt.Fprintf(&b, "\n%d. %s", i+1, strings.TrimSpace(step))
		}
	}

	if len(p.Rules) > 0 {
		b.WriteString("\n")
		for _, rule := range p.Rules {
			b.WriteString("\n- ")
			b.WriteString(strings.TrimSpace(rule))
		}
	}

	return b.String()
}
