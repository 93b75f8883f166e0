package assistant

import (
	"fmt"

	models "harmonyhealth/internal/domain/models/assistant"
)

// UnknownToolError is returned when the model names a tool that is not registered
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("model requested unknown tool %q", e.Name)
}

// Result is the body surfaced to the client
func (e *UnknownToolError) Result() models.Result {
	return models.NotFound(e.Error(), map[string]interface{}{"tool": e.Name})
}

// ToolFailedError carries the first non-success tool result of a round
type ToolFailedError struct {
	Tool    string
	CallID  string
	Outcome models.Result
}

func (e *ToolFailedError) Error() string {
	return fmt.Sprintf("tool %s failed with code %d: %s", e.Tool, e.Outcome.Code, e.Outcome.Message)
}

func (e *ToolFailedError) Result() models.Result {
	return e.Outcome
}

// InternalError covers provider failures, malformed tool arguments and handler errors
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

func (e *InternalError) Result() models.Result {
	return models.Result{
		Code:    models.CodeInternal,
		Message: "internal error",
		Data:    map[string]interface{}{"kind": "internal", "op": e.Op},
	}
}

// TimeoutError is returned when the turn budget runs out
type TimeoutError struct {
	Turns int
}

func (e *TimeoutError) Error() string {
	return "max turns exceeded"
}

func (e *TimeoutError) Result() models.Result {
	return models.Result{
		Code:    models.CodeInternal,
		Message: e.Error(),
		Data:    map[string]interface{}{"kind": "timeout", "turns": e.Turns},
	}
}
