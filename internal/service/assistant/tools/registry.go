package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	models "harmonyhealth/internal/domain/models/assistant"
	assistantSvc "harmonyhealth/internal/domain/services/assistant"
)

// Handler runs one tool. A returned error is not a tool outcome: it aborts
// the whole chat request as an internal failure.
type Handler func(ctx context.Context, args Args) (models.Result, error)

// Tool binds a name to its model-facing declaration and handler
type Tool struct {
	Name        ToolName
	Description string
	Parameters  map[string]interface{}
	Handler     Handler
}

type entry struct {
	tool   Tool
	schema *jsonschema.Schema
}

// Registry is the static tool table. It is built once at startup and only
// read afterwards, so it is safe for concurrent use without locking.
type Registry struct {
	entries [toolCount]*entry
}

// NewRegistry builds the registry. Every ToolName must be bound exactly once
// and every parameter schema must compile.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{}

	for _, t := range tools {
		if !t.Name.valid() {
			return nil, fmt.Errorf("tool %d is not a known tool name", int(t.Name))
		}
		if r.entries[t.Name] != nil {
			return nil, fmt.Errorf("tool %s registered twice", t.Name)
		}
		if t.Handler == nil {
			return nil, fmt.Errorf("tool %s has no handler", t.Name)
		}

		schema, err := compileSchema(t.Name, t.Parameters)
		if err != nil {
			return nil, err
		}
		r.entries[t.Name] = &entry{tool: t, schema: schema}
	}

	for _, name := range AllToolNames() {
		if r.entries[name] == nil {
			return nil, fmt.Errorf("tool %s is not registered", name)
		}
	}

	return r, nil
}

func compileSchema(name ToolName, params map[string]interface{}) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode schema for %s: %w", name, err)
	}

	resource := name.String() + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resource, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource for %s: %w", name, err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", name, err)
	}
	return compiled, nil
}

// Resolve maps a model-supplied tool name to a registered tool
func (r *Registry) Resolve(name string) (ToolName, error) {
	n, ok := ParseToolName(name)
	if !ok {
		return 0, &assistantSvc.UnknownToolError{Name: name}
	}
	return n, nil
}

// Definitions returns the tool declarations sent to the model, in
// declaration order
func (r *Registry) Definitions() []models.ToolDefinition {
	defs := make([]models.ToolDefinition, 0, toolCount)
	for _, e := range r.entries {
		defs = append(defs, models.NewFunctionTool(e.tool.Name.String(), e.tool.Description, e.tool.Parameters))
	}
	return defs
}

// Validate checks args against the tool's parameter schema
func (r *Registry) Validate(name ToolName, args Args) error {
	return r.entries[name].schema.Validate(map[string]interface{}(args))
}

// schemaFailure reports a schema violation as a validation outcome. The
// offending argument paths (such as /plans_data/1/day_of_week) are listed
// so the model can correct the exact element.
func schemaFailure(name ToolName, err error) models.Result {
	data := map[string]interface{}{"error": err.Error()}

	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		seen := map[string]bool{}
		collectLocations(verr, seen)
		locations := make([]string, 0, len(seen))
		for loc := range seen {
			locations = append(locations, loc)
		}
		sort.Strings(locations)
		data["locations"] = locations
	}

	return models.Invalid("invalid arguments for "+name.String(), data)
}

func collectLocations(verr *jsonschema.ValidationError, seen map[string]bool) {
	if len(verr.Causes) == 0 {
		seen[verr.InstanceLocation] = true
		return
	}
	for _, cause := range verr.Causes {
		collectLocations(cause, seen)
	}
}

// Invoke runs the handler. Handler errors are returned unchanged.
func (r *Registry) Invoke(ctx context.Context, name ToolName, args Args) (models.Result, error) {
	return r.entries[name].tool.Handler(ctx, args)
}
