package tools

// ToolName is the closed set of tools the assistant may call. Adding a
// value requires a matching Tool in the registry; NewRegistry refuses to
// build otherwise.
type ToolName int

const (
	UpdateUserInfo ToolName = iota
	GetUserInfo
	CreateOrUpdatePlans
	GetUserPlans
	DeletePlan
	DeleteAllPlans
	CreateBulkPlans

	toolCount
)

var toolNames = [toolCount]string{
	UpdateUserInfo:      "update_user_info",
	GetUserInfo:         "get_user_info",
	CreateOrUpdatePlans: "create_or_update_plans",
	GetUserPlans:        "get_user_plans",
	DeletePlan:          "delete_plan",
	DeleteAllPlans:      "delete_all_plans",
	CreateBulkPlans:     "create_bulk_plans",
}

// String returns the wire name sent to and received from the model
func (n ToolName) String() string {
	if !n.valid() {
		return "unknown"
	}
	return toolNames[n]
}

func (n ToolName) valid() bool {
	return n >= 0 && n < toolCount
}

// ParseToolName resolves a model-supplied name
func ParseToolName(s string) (ToolName, bool) {
	for i, name := range toolNames {
		if name == s {
			return ToolName(i), true
		}
	}
	return 0, false
}

// AllToolNames lists every tool in declaration order
func AllToolNames() []ToolName {
	names := make([]ToolName, toolCount)
	for i := range names {
		names[i] = ToolName(i)
	}
	return names
}
