package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	models "harmonyhealth/internal/domain/models/assistant"
	assistantSvc "harmonyhealth/internal/domain/services/assistant"
	"harmonyhealth/internal/tracing"
)

// Invoker executes a single model-issued tool call on behalf of one owner
type Invoker struct {
	registry *Registry
	logger   *slog.Logger
}

// NewInvoker creates an invoker over registry
func NewInvoker(registry *Registry, logger *slog.Logger) *Invoker {
	return &Invoker{registry: registry, logger: logger}
}

// Registry returns the underlying tool table
func (inv *Invoker) Registry() *Registry {
	return inv.registry
}

// Invoke resolves, decodes and runs call with ownerID injected as the
// caller identity. It returns the handler's Result; a non-success Result is
// not an error here. Errors are UnknownToolError or InternalError.
func (inv *Invoker) Invoke(ctx context.Context, ownerID int64, call models.ToolCall) (models.Result, error) {
	ctx, span := tracing.StartSpan(ctx, "assistant.tool",
		attribute.String("tool.name", call.Function.Name),
		attribute.String("tool.call_id", call.ID),
	)
	defer span.End()

	name, err := inv.registry.Resolve(call.Function.Name)
	if err != nil {
		tracing.RecordError(span, err)
		return models.Result{}, err
	}

	args, err := ParseArguments(call.Function.Arguments)
	if err != nil {
		err = &assistantSvc.InternalError{Op: "parse " + name.String() + " arguments", Err: err}
		tracing.RecordError(span, err)
		return models.Result{}, err
	}

	args = args.Compact()
	// The model never chooses whose data a tool touches
	delete(args, OwnerKey)
	if err := inv.registry.Validate(name, args); err != nil {
		result := schemaFailure(name, err)
		inv.logResult(name, call, ownerID, result, 0)
		span.SetAttributes(attribute.Int("tool.code", result.Code))
		return result, nil
	}
	args[OwnerKey] = ownerID

	start := time.Now()
	result, err := inv.registry.Invoke(ctx, name, args)
	if err != nil {
		err = &assistantSvc.InternalError{Op: name.String(), Err: err}
		tracing.RecordError(span, err)
		inv.logger.Error("tool handler failed",
			"tool", name.String(),
			"call_id", call.ID,
			"user_id", ownerID,
			"error", err,
		)
		return models.Result{}, err
	}

	inv.logResult(name, call, ownerID, result, time.Since(start))
	span.SetAttributes(attribute.Int("tool.code", result.Code))
	if result.Succeeded() {
		tracing.SetOK(span)
	}
	return result, nil
}

// ResultMessage serializes result as the tool message answering call
func ResultMessage(call models.ToolCall, result models.Result) (models.Message, error) {
	body, err := json.Marshal(result)
	if err != nil {
		return models.Message{}, &assistantSvc.InternalError{Op: "encode tool result", Err: err}
	}
	return models.ToolMessage(call, string(body)), nil
}

func (inv *Invoker) logResult(name ToolName, call models.ToolCall, ownerID int64, result models.Result, elapsed time.Duration) {
	inv.logger.Info("tool executed",
		"tool", name.String(),
		"call_id", call.ID,
		"user_id", ownerID,
		"code", result.Code,
		"duration_ms", elapsed.Milliseconds(),
	)
}
