package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"harmonyhealth/internal/config"
	"harmonyhealth/internal/domain"
	assistantSvc "harmonyhealth/internal/domain/services/assistant"
	"harmonyhealth/internal/service/assistant/history"
	"harmonyhealth/internal/tracing"
)

// chatService implements assistantSvc.ChatService
type chatService struct {
	builder *history.Builder
	loop    *Loop
	logger  *slog.Logger
}

// NewChatService creates the chat service
func NewChatService(builder *history.Builder, loop *Loop, logger *slog.Logger) assistantSvc.ChatService {
	return &chatService{
		builder: builder,
		loop:    loop,
		logger:  logger,
	}
}

func (s *chatService) Chat(ctx context.Context, req *assistantSvc.ChatRequest) (*assistantSvc.ChatReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, &domain.ValidationError{Message: "message must not be empty"}
	}
	if utf8.RuneCountInString(message) > config.MaxChatMessageLength {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("message exceeds %d characters", config.MaxChatMessageLength),
		}
	}

	ctx, span := tracing.StartSpan(ctx, "assistant.chat",
		attribute.Int64("user.id", req.OwnerID),
		attribute.Int("history.entries", len(req.History)),
	)
	defer span.End()

	start := time.Now()
	transcript := s.builder.Build(req.History, message)

	reply, err := s.loop.Run(ctx, req.OwnerID, transcript)
	if err != nil {
		tracing.RecordError(span, err)
		s.logFailure(req.OwnerID, err, time.Since(start))
		return nil, err
	}

	tracing.SetOK(span)
	s.logger.Info("chat completed",
		"user_id", req.OwnerID,
		"messages", len(reply.History),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return reply, nil
}

func (s *chatService) logFailure(ownerID int64, err error, elapsed time.Duration) {
	var internal *assistantSvc.InternalError
	if errors.As(err, &internal) {
		s.logger.Error("chat failed",
			"user_id", ownerID,
			"op", internal.Op,
			"error", internal.Err,
			"duration_ms", elapsed.Milliseconds(),
		)
		return
	}
	s.logger.Info("chat aborted",
		"user_id", ownerID,
		"reason", err.Error(),
		"duration_ms", elapsed.Milliseconds(),
	)
}
