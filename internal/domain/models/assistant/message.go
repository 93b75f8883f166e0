package assistant

// Role tags a transcript entry
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one transcript entry in chat-completions shape. The transcript
// is owned by the client and replayed on every request.
//
// ToolCalls is only set on assistant messages. ToolCallID and Name are only
// set on tool messages and must reference a call in the immediately
// preceding assistant message.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall is a model-issued request to run a named tool
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"` // always "function"
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the tool name and its JSON-encoded argument object
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// NewToolCall builds a function-type tool call
func NewToolCall(id, name, arguments string) ToolCall {
	return ToolCall{
		ID:   id,
		Type: "function",
		Function: FunctionCall{
			Name:      name,
			Arguments: arguments,
		},
	}
}

// SystemMessage builds the policy message that opens every transcript
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user utterance
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// ToolMessage builds a tool result entry correlated to call
func ToolMessage(call ToolCall, content string) Message {
	return Message{
		Role:       RoleTool,
		ToolCallID: call.ID,
		Name:       call.Function.Name,
		Content:    content,
	}
}

// HasToolCalls reports whether the message requests tools
func (m *Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}
