package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "harmonyhealth/internal/domain/models/assistant"
)

func stubTool(name ToolName) Tool {
	return Tool{
		Name:       name,
		Parameters: map[string]interface{}{"type": "object"},
		Handler: func(ctx context.Context, args Args) (models.Result, error) {
			return models.OK(name.String(), nil), nil
		},
	}
}

func stubTools() []Tool {
	var tools []Tool
	for _, name := range AllToolNames() {
		tools = append(tools, stubTool(name))
	}
	return tools
}

func TestToolNames(t *testing.T) {
	want := []string{
		"update_user_info",
		"get_user_info",
		"create_or_update_plans",
		"get_user_plans",
		"delete_plan",
		"delete_all_plans",
		"create_bulk_plans",
	}
	names := AllToolNames()
	require.Len(t, names, len(want))
	for i, name := range names {
		assert.Equal(t, want[i], name.String())
		parsed, ok := ParseToolName(want[i])
		assert.True(t, ok)
		assert.Equal(t, name, parsed)
	}

	_, ok := ParseToolName("drop_database")
	assert.False(t, ok)
	assert.Equal(t, "unknown", ToolName(99).String())
}

func TestNewRegistry_RequiresEveryTool(t *testing.T) {
	tools := stubTools()

	_, err := NewRegistry(tools[:len(tools)-1]...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create_bulk_plans is not registered")

	_, err = NewRegistry(append(tools, stubTool(GetUserInfo))...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registered twice")

	_, err = NewRegistry(append(tools[1:], Tool{Name: UpdateUserInfo, Parameters: map[string]interface{}{"type": "object"}})...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler")

	_, err = NewRegistry(append(tools, stubTool(ToolName(42)))...)
	require.Error(t, err)
}

func TestNewRegistry_RejectsBadSchema(t *testing.T) {
	tools := stubTools()
	tools[0].Parameters = map[string]interface{}{"type": "no-such-type"}

	_, err := NewRegistry(tools...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile schema for update_user_info")
}

func TestRegistry_Definitions(t *testing.T) {
	registry, err := NewRegistry(stubTools()...)
	require.NoError(t, err)

	defs := registry.Definitions()
	require.Len(t, defs, int(toolCount))
	for i, def := range defs {
		assert.Equal(t, "function", def.Type)
		assert.Equal(t, ToolName(i).String(), def.Function.Name)
	}
}

func TestRegistry_Resolve(t *testing.T) {
	registry, err := NewRegistry(stubTools()...)
	require.NoError(t, err)

	name, err := registry.Resolve("delete_plan")
	require.NoError(t, err)
	assert.Equal(t, DeletePlan, name)

	_, err = registry.Resolve("launch_rockets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "launch_rockets")
}

func TestParseArguments(t *testing.T) {
	args, err := ParseArguments("")
	require.NoError(t, err)
	assert.Empty(t, args)

	args, err = ParseArguments(`{"height": 180, "extra": true}`)
	require.NoError(t, err)
	assert.Equal(t, 180.0, args["height"])
	assert.Equal(t, true, args["extra"])

	for _, bad := range []string{`{"height":`, `[1,2]`, `"text"`, `null`} {
		_, err := ParseArguments(bad)
		assert.Error(t, err, bad)
	}
}
