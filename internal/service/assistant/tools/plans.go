package tools

import (
	"context"
	"fmt"
	"time"

	"harmonyhealth/internal/domain/models"
	assistant "harmonyhealth/internal/domain/models/assistant"
	"harmonyhealth/internal/domain/services"
)

const clockPattern = `^([01]?[0-9]|2[0-3]):[0-5][0-9](:[0-5][0-9])?$`

// EmptyPlansMessage is the get_user_plans message when nothing matches
const EmptyPlansMessage = "You do not have any relevant plans."

func planProperties() map[string]interface{} {
	return map[string]interface{}{
		"title":        map[string]interface{}{"type": "string", "description": "Short name of the activity or meal"},
		"description":  map[string]interface{}{"type": "string"},
		"day_of_week":  map[string]interface{}{"type": intOrString, "minimum": 1, "maximum": 7, "description": "1 = Monday ... 7 = Sunday"},
		"start_time":   map[string]interface{}{"type": "string", "pattern": clockPattern, "description": "HH:MM"},
		"end_time":     map[string]interface{}{"type": "string", "pattern": clockPattern, "description": "HH:MM, may be earlier than start_time to cross midnight"},
		"is_completed": map[string]interface{}{"type": boolOrString},
	}
}

func createOrUpdatePlansTool(plans services.PlanService) Tool {
	props := planProperties()
	props["id"] = map[string]interface{}{"type": intOrString, "description": "Existing plan id. When set, only the supplied fields are changed."}

	return Tool{
		Name: CreateOrUpdatePlans,
		Description: "Create a weekly plan, or update an existing one when id is given. " +
			"Creating requires title, day_of_week, start_time and end_time.",
		Parameters: map[string]interface{}{
			"type":       "object",
			"properties": props,
		},
		Handler: func(ctx context.Context, args Args) (assistant.Result, error) {
			owner, err := args.Owner()
			if err != nil {
				return assistant.Result{}, err
			}

			fields, err := planFields(args)
			if err != nil {
				return argumentResult(err), nil
			}
			id, err := args.Int64("id")
			if err != nil {
				return argumentResult(err), nil
			}

			out, err := plans.UpsertPlan(ctx, owner, fields, id)
			if err != nil {
				return serviceResult(err)
			}

			if out.Created > 0 {
				return assistant.Created("plan created", map[string]interface{}{
					"created": out.Created,
					"id":      out.ID,
				}), nil
			}
			return assistant.OK("plan updated", map[string]interface{}{
				"updated": out.Updated,
				"id":      out.ID,
			}), nil
		},
	}
}

func getUserPlansTool(plans services.PlanService) Tool {
	return Tool{
		Name:        GetUserPlans,
		Description: "List the user's weekly plans ordered by start time, optionally for one day.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"day_of_week":    map[string]interface{}{"type": intOrString, "minimum": 1, "maximum": 7},
				"created_after":  map[string]interface{}{"type": "string", "description": "YYYY-MM-DD"},
				"created_before": map[string]interface{}{"type": "string", "description": "YYYY-MM-DD"},
				"limit":          map[string]interface{}{"type": intOrString, "minimum": 1},
				"offset":         map[string]interface{}{"type": intOrString, "minimum": 0},
			},
		},
		Handler: func(ctx context.Context, args Args) (assistant.Result, error) {
			owner, err := args.Owner()
			if err != nil {
				return assistant.Result{}, err
			}

			filter, err := planFilter(args)
			if err != nil {
				return argumentResult(err), nil
			}

			list, err := plans.ListPlans(ctx, owner, filter)
			if err != nil {
				return serviceResult(err)
			}

			message := "ok"
			if list.Count == 0 {
				message = EmptyPlansMessage
			}
			return assistant.OK(message, map[string]interface{}{
				"plans": list.Plans,
				"count": list.Count,
			}), nil
		},
	}
}

func deletePlanTool(plans services.PlanService) Tool {
	return Tool{
		Name:        DeletePlan,
		Description: "Permanently delete one plan by id.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"plan_id": map[string]interface{}{"type": intOrString},
			},
			"required": []string{"plan_id"},
		},
		Handler: func(ctx context.Context, args Args) (assistant.Result, error) {
			owner, err := args.Owner()
			if err != nil {
				return assistant.Result{}, err
			}

			id, err := args.Int64("plan_id")
			if err != nil {
				return argumentResult(err), nil
			}
			if id == nil {
				return assistant.Invalid("plan_id is required", nil), nil
			}

			if err := plans.DeletePlan(ctx, owner, *id); err != nil {
				return serviceResult(err)
			}
			return assistant.OK("plan deleted", map[string]interface{}{"deleted": 1, "id": *id}), nil
		},
	}
}

func deleteAllPlansTool(plans services.PlanService) Tool {
	return Tool{
		Name:        DeleteAllPlans,
		Description: "Permanently delete all of the user's plans, or only those on one day.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"day_of_week": map[string]interface{}{"type": intOrString, "minimum": 1, "maximum": 7},
			},
		},
		Handler: func(ctx context.Context, args Args) (assistant.Result, error) {
			owner, err := args.Owner()
			if err != nil {
				return assistant.Result{}, err
			}

			day, err := args.Int("day_of_week")
			if err != nil {
				return argumentResult(err), nil
			}

			deleted, err := plans.DeleteAllPlans(ctx, owner, day)
			if err != nil {
				return serviceResult(err)
			}
			return assistant.OK(fmt.Sprintf("%d plans deleted", deleted), map[string]interface{}{"deleted": deleted}), nil
		},
	}
}

func createBulkPlansTool(plans services.PlanService) Tool {
	return Tool{
		Name:        CreateBulkPlans,
		Description: "Create several plans at once. Either every plan is created or none is.",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"plans_data": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type":       "object",
						"properties": planProperties(),
						"required":   []string{"title", "day_of_week", "start_time", "end_time"},
					},
				},
			},
			"required": []string{"plans_data"},
		},
		Handler: func(ctx context.Context, args Args) (assistant.Result, error) {
			owner, err := args.Owner()
			if err != nil {
				return assistant.Result{}, err
			}

			items, err := args.Objects("plans_data")
			if err != nil {
				return argumentResult(err), nil
			}

			batch := make([]models.PlanFields, len(items))
			var invalid []int
			reasons := map[int]string{}
			for i, item := range items {
				fields, err := planFields(item)
				if err != nil {
					invalid = append(invalid, i)
					reasons[i] = err.Error()
					continue
				}
				batch[i] = *fields
			}
			if len(invalid) > 0 {
				return assistant.Invalid(fmt.Sprintf("%d of %d plans are invalid", len(invalid), len(items)), map[string]interface{}{
					"invalid_indices": invalid,
					"reasons":         reasons,
				}), nil
			}

			out, err := plans.BulkCreate(ctx, owner, batch)
			if err != nil {
				return serviceResult(err)
			}
			return assistant.Created("plans created", map[string]interface{}{
				"created": out.Created,
				"ids":     out.IDs,
			}), nil
		},
	}
}

func planFields(args Args) (*models.PlanFields, error) {
	var (
		f   models.PlanFields
		err error
	)
	if f.Title, err = args.String("title"); err != nil {
		return nil, err
	}
	if f.Description, err = args.String("description"); err != nil {
		return nil, err
	}
	if f.DayOfWeek, err = args.Int("day_of_week"); err != nil {
		return nil, err
	}
	if f.StartTime, err = args.Clock("start_time"); err != nil {
		return nil, err
	}
	if f.EndTime, err = args.Clock("end_time"); err != nil {
		return nil, err
	}
	if f.IsCompleted, err = args.Bool("is_completed"); err != nil {
		return nil, err
	}
	return &f, nil
}

func planFilter(args Args) (models.PlanFilter, error) {
	var filter models.PlanFilter

	day, err := args.Int("day_of_week")
	if err != nil {
		return filter, err
	}
	filter.DayOfWeek = day

	for key, dst := range map[string]**time.Time{
		"created_after":  &filter.CreatedAfter,
		"created_before": &filter.CreatedBefore,
	} {
		s, err := args.String(key)
		if err != nil {
			return filter, err
		}
		if s == nil {
			continue
		}
		d, err := time.Parse(models.DateLayout, *s)
		if err != nil {
			return filter, fmt.Errorf("%s: expected YYYY-MM-DD", key)
		}
		*dst = &d
	}

	for key, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		n, err := args.Int(key)
		if err != nil {
			return filter, err
		}
		if n != nil {
			*dst = *n
		}
	}

	return filter, nil
}
