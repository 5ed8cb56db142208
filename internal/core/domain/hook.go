package domain

// ContentItem is a single piece of textual content in a tool result.
type ContentItem struct {
	Text string `json:"text"`
}

// Outcome is the loosely structured result of a wrapped API call.
// It mirrors the tool-result shape emitted by the host environment.
type Outcome struct {
	IsError   bool          `json:"isError,omitempty"`
	ErrorText string        `json:"error,omitempty"`
	Content   []ContentItem `json:"content,omitempty"`
}

// Tool identifies the wrapped operation and its arguments.
type Tool struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
}

// HookInput is one invocation record presented to the resilience core.
type HookInput struct {
	Tool       Tool    `json:"tool"`
	Result     Outcome `json:"result"`
	DurationMS float64 `json:"duration_ms,omitempty"`
}

// Decision is the advisory record returned to the caller.
// Continue is always true: this layer never halts the caller.
type Decision struct {
	Continue bool           `json:"continue"`
	Metadata map[string]any `json:"metadata"`
	Context  string         `json:"context,omitempty"`
	Warning  string         `json:"warning,omitempty"`
}
