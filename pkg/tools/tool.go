package tools

import "context"

// Tool describes one invokable capability. The input/output schemas are
// documentation-grade field->type maps rendered into the agent
// instruction; they are not enforced at runtime.
type Tool interface {
	ID() string
	Description() string
	InputSchema() map[string]string
	OutputSchema() map[string]string

	// Execute runs the tool. It returns the structured payload, a short
	// human-readable message, and an error. Executors may also panic; the
	// dispatcher isolates both failure modes into a Result.
	Execute(ctx context.Context, args map[string]any) (data any, message string, err error)
}

// Result is the normalized outcome of one tool invocation. When Success
// is false, Data carries nothing meaningful and downstream consumers must
// never present output for the call; Error holds the reason instead.
type Result struct {
	ToolID  string `json:"toolId"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// SuccessResult builds a successful Result.
func SuccessResult(toolID string, data any, message string) Result {
	return Result{
		ToolID:  toolID,
		Success: true,
		Data:    data,
		Message: message,
	}
}

// FailureResult builds a failed Result. Data is deliberately left unset.
func FailureResult(toolID, reason string) Result {
	return Result{
		ToolID:  toolID,
		Success: false,
		Message: "tool " + toolID + " failed",
		Error:   reason,
	}
}
