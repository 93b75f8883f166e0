package tools

import (
	"harmonyhealth/internal/domain/services"
)

// NewToolset binds every ToolName to its handler over the given services
func NewToolset(profiles services.ProfileService, plans services.PlanService) []Tool {
	return []Tool{
		updateUserInfoTool(profiles),
		getUserInfoTool(profiles),
		createOrUpdatePlansTool(plans),
		getUserPlansTool(plans),
		deletePlanTool(plans),
		deleteAllPlansTool(plans),
		createBulkPlansTool(plans),
	}
}

// NewDefaultRegistry builds the registry for the assistant
func NewDefaultRegistry(profiles services.ProfileService, plans services.PlanService) (*Registry, error) {
	return NewRegistry(NewToolset(profiles, plans)...)
}
