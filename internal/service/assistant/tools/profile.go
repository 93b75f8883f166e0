package tools

import (
	"context"

	models "harmonyhealth/internal/domain/models/assistant"
	"harmonyhealth/internal/domain/services"
)

// legacyUpdatesKey wraps the fields in older clients' update_user_info calls
const legacyUpdatesKey = "updates"

func updateUserInfoTool(profiles services.ProfileService) Tool {
	return Tool{
		Name:        UpdateUserInfo,
		Description: "Update the user's body metrics or goals. Only include the fields the user asked to change.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"height":      map[string]interface{}{"type": numberOrString, "description": "Height in centimeters"},
				"weight":      map[string]interface{}{"type": numberOrString, "description": "Weight in kilograms"},
				"age":         map[string]interface{}{"type": intOrString, "description": "Age in years"},
				"information": map[string]interface{}{"type": "string", "description": "Free-text health background"},
				"target":      map[string]interface{}{"type": "string", "description": "Free-text fitness or diet goal"},
			},
		},
		Handler: func(ctx context.Context, args Args) (models.Result, error) {
			owner, err := args.Owner()
			if err != nil {
				return models.Result{}, err
			}

			updates := args.Without(OwnerKey)
			if nested, ok := updates[legacyUpdatesKey].(map[string]interface{}); ok {
				updates = Args(nested).Without(OwnerKey)
			}

			out, err := profiles.UpdateInfo(ctx, owner, updates)
			if err != nil {
				return serviceResult(err)
			}

			return models.OK("profile updated", map[string]interface{}{
				"updated_fields": out.UpdatedFields,
				"ignored_fields": out.IgnoredFields,
			}), nil
		},
	}
}

func getUserInfoTool(profiles services.ProfileService) Tool {
	return Tool{
		Name:        GetUserInfo,
		Description: "Read the user's profile. Omit attributes to read every field.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"attributes": map[string]interface{}{
					"type":        []string{"array", "string"},
					"description": "Any of height, weight, age, gender, information, target",
					"items":       map[string]interface{}{"type": "string"},
				},
			},
		},
		Handler: func(ctx context.Context, args Args) (models.Result, error) {
			owner, err := args.Owner()
			if err != nil {
				return models.Result{}, err
			}

			attributes, err := args.Strings("attributes")
			if err != nil {
				return argumentResult(err), nil
			}

			info, err := profiles.GetInfo(ctx, owner, attributes)
			if err != nil {
				return serviceResult(err)
			}
			return models.OK("ok", info), nil
		},
	}
}
