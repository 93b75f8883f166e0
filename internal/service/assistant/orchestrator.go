package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	models "harmonyhealth/internal/domain/models/assistant"
	assistantSvc "harmonyhealth/internal/domain/services/assistant"
	"harmonyhealth/internal/service/assistant/tools"
	"harmonyhealth/internal/tracing"
)

// Loop drives the bounded tool-calling exchange with the model. Tool calls
// in one reply run sequentially in the order the model listed them. The
// first non-success result aborts the request; calls already applied in
// that round stay applied.
type Loop struct {
	provider assistantSvc.Provider
	invoker  *tools.Invoker
	maxTurns int
	logger   *slog.Logger
}

// NewLoop creates a loop allowing at most maxTurns model calls per request
func NewLoop(provider assistantSvc.Provider, invoker *tools.Invoker, maxTurns int, logger *slog.Logger) *Loop {
	if maxTurns <= 0 {
		maxTurns = 1
	}
	return &Loop{
		provider: provider,
		invoker:  invoker,
		maxTurns: maxTurns,
		logger:   logger,
	}
}

// Run extends transcript until the model answers without tool calls.
// Errors are UnknownToolError, ToolFailedError, InternalError or TimeoutError.
func (l *Loop) Run(ctx context.Context, ownerID int64, transcript []models.Message) (*assistantSvc.ChatReply, error) {
	definitions := l.invoker.Registry().Definitions()

	for turn := 1; turn <= l.maxTurns; turn++ {
		reply, err := l.complete(ctx, turn, transcript, definitions)
		if err != nil {
			return nil, err
		}
		transcript = append(transcript, *reply)

		if !reply.HasToolCalls() {
			l.logger.Debug("assistant answered",
				"user_id", ownerID,
				"turns", turn,
				"messages", len(transcript),
			)
			return &assistantSvc.ChatReply{Reply: reply.Content, History: transcript}, nil
		}

		for _, call := range reply.ToolCalls {
			result, err := l.invoker.Invoke(ctx, ownerID, call)
			if err != nil {
				return nil, err
			}
			if !result.Succeeded() {
				l.logger.Info("tool call aborted chat",
					"user_id", ownerID,
					"tool", call.Function.Name,
					"code", result.Code,
					"turn", turn,
				)
				return nil, &assistantSvc.ToolFailedError{Tool: call.Function.Name, CallID: call.ID, Outcome: result}
			}

			msg, err := tools.ResultMessage(call, result)
			if err != nil {
				return nil, err
			}
			transcript = append(transcript, msg)
		}
	}

	l.logger.Warn("assistant turn budget exhausted", "user_id", ownerID, "turns", l.maxTurns)
	return nil, &assistantSvc.TimeoutError{Turns: l.maxTurns}
}

func (l *Loop) complete(ctx context.Context, turn int, transcript []models.Message, definitions []models.ToolDefinition) (*models.Message, error) {
	ctx, span := tracing.StartSpan(ctx, "assistant.model",
		attribute.String("llm.provider", l.provider.Name()),
		attribute.Int("assistant.turn", turn),
		attribute.Int("assistant.messages", len(transcript)),
	)
	defer span.End()

	reply, err := l.provider.Complete(ctx, &assistantSvc.CompletionRequest{
		Messages: transcript,
		Tools:    definitions,
	})
	if err != nil {
		err = &assistantSvc.InternalError{Op: "model completion", Err: err}
		tracing.RecordError(span, err)
		return nil, err
	}
	if reply == nil {
		err = &assistantSvc.InternalError{Op: "model completion", Err: fmt.Errorf("provider %s returned no message", l.provider.Name())}
		tracing.RecordError(span, err)
		return nil, err
	}

	reply.Role = models.RoleAssistant
	span.SetAttributes(attribute.Int("assistant.tool_calls", len(reply.ToolCalls)))
	tracing.SetOK(span)
	return reply, nil
}
