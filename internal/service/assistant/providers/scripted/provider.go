package scripted

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	models "harmonyhealth/internal/domain/models/assistant"
	assistantSvc "harmonyhealth/internal/domain/services/assistant"
)

// Provider is a rule-based stand-in for the hosted model.
// Used for development and tests without requiring an API key.
//
// It recognises a handful of phrasings and answers with the matching tool
// call. When the transcript ends in tool results it summarises them.
type Provider struct {
	rules []rule
	newID func() string
}

type rule struct {
	pattern *regexp.Regexp
	build   func(match []string) (string, map[string]interface{})
}

// NewProvider creates the scripted provider with the default rules
func NewProvider() *Provider {
	return &Provider{
		rules: defaultRules(),
		newID: func() string { return "call_" + uuid.NewString() },
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "scripted"
}

func (p *Provider) Complete(ctx context.Context, req *assistantSvc.CompletionRequest) (*models.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("scripted provider: empty transcript")
	}

	last := req.Messages[len(req.Messages)-1]
	switch last.Role {
	case models.RoleTool:
		return &models.Message{Role: models.RoleAssistant, Content: summarize(trailingToolMessages(req.Messages))}, nil
	case models.RoleUser:
		return p.answer(last.Content, offered(req.Tools))
	default:
		return &models.Message{Role: models.RoleAssistant, Content: "请告诉我你想做什么。"}, nil
	}
}

func (p *Provider) answer(text string, tools map[string]bool) (*models.Message, error) {
	var calls []models.ToolCall
	for _, r := range p.rules {
		match := r.pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		name, args := r.build(match)
		if !tools[name] {
			continue
		}
		encoded, err := json.Marshal(args)
		if err != nil {
			return nil, fmt.Errorf("scripted provider: encode %s arguments: %w", name, err)
		}
		calls = append(calls, models.NewToolCall(p.newID(), name, string(encoded)))
	}

	if len(calls) == 0 {
		return &models.Message{
			Role:    models.RoleAssistant,
			Content: "我可以帮你记录身高体重，或者查看和管理你的运动计划。",
		}, nil
	}
	return &models.Message{Role: models.RoleAssistant, ToolCalls: calls}, nil
}

func defaultRules() []rule {
	number := func(s string) float64 {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	return []rule{
		{
			pattern: regexp.MustCompile(`身高\s*(\d+(?:\.\d+)?)`),
			build: func(m []string) (string, map[string]interface{}) {
				return "update_user_info", map[string]interface{}{"height": number(m[1])}
			},
		},
		{
			pattern: regexp.MustCompile(`体重\s*(\d+(?:\.\d+)?)`),
			build: func(m []string) (string, map[string]interface{}) {
				return "update_user_info", map[string]interface{}{"weight": number(m[1])}
			},
		},
		{
			pattern: regexp.MustCompile(`(\d+)\s*岁`),
			build: func(m []string) (string, map[string]interface{}) {
				return "update_user_info", map[string]interface{}{"age": number(m[1])}
			},
		},
		{
			pattern: regexp.MustCompile(`我的(资料|信息)`),
			build: func([]string) (string, map[string]interface{}) {
				return "get_user_info", map[string]interface{}{}
			},
		},
		{
			pattern: regexp.MustCompile(`(查看|我的)计划`),
			build: func([]string) (string, map[string]interface{}) {
				return "get_user_plans", map[string]interface{}{}
			},
		},
		{
			pattern: regexp.MustCompile(`删除所有计划`),
			build: func([]string) (string, map[string]interface{}) {
				return "delete_all_plans", map[string]interface{}{}
			},
		},
	}
}

func offered(defs []models.ToolDefinition) map[string]bool {
	names := make(map[string]bool, len(defs))
	for _, d := range defs {
		names[d.Function.Name] = true
	}
	return names
}

func trailingToolMessages(messages []models.Message) []models.Message {
	i := len(messages)
	for i > 0 && messages[i-1].Role == models.RoleTool {
		i--
	}
	return messages[i:]
}

func summarize(results []models.Message) string {
	lines := make([]string, 0, len(results))
	for _, m := range results {
		var result models.Result
		if err := json.Unmarshal([]byte(m.Content), &result); err != nil || result.Message == "" {
			lines = append(lines, fmt.Sprintf("%s 已完成", m.Name))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", m.Name, result.Message))
	}
	return "已更新。\n" + strings.Join(lines, "\n")
}

var _ assistantSvc.Provider = (*Provider)(nil)
