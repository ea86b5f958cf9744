// Package protocoltypes holds the transport-level request types shared by
// the providers package and its SDK-specific implementations. Keeping them
// in a leaf package lets the providers package import the implementations
// for its factory without a cycle.
package protocoltypes

// Message is one turn of conversation as the transport sees it.
// Role is "user" or "assistant"; the system instruction travels separately
// in CompletionRequest so providers that take it out-of-band (Anthropic)
// and providers that take it as a leading message (OpenAI) both work.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest carries a single completion call: one system
// instruction, the prior history, and the new message to answer.
type CompletionRequest struct {
	Model             string
	SystemInstruction string
	History           []Message
	NewMessage        string
	MaxTokens         int
	Temperature       float64
}
