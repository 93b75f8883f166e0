package assistant

// ToolDefinition declares a tool to the model (function-calling format)
type ToolDefinition struct {
	Type     string          `json:"type"`
	Function FunctionDetails `json:"function"`
}

// FunctionDetails represents the function definition
type FunctionDetails struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// NewFunctionTool builds a function-type ToolDefinition
func NewFunctionTool(name, description string, parameters map[string]interface{}) ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: FunctionDetails{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}
