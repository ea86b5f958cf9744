package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/KarakuriAgent/clawdroid/pkg/llm"
	"github.com/KarakuriAgent/clawdroid/pkg/logger"
	"github.com/KarakuriAgent/clawdroid/pkg/persona"
	"github.com/KarakuriAgent/clawdroid/pkg/prompt"
	"github.com/KarakuriAgent/clawdroid/pkg/providers"
	"github.com/KarakuriAgent/clawdroid/pkg/thread"
	"github.com/KarakuriAgent/clawdroid/pkg/tools"
)

// Engine drives the two-phase tool orchestration protocol: one model
// call that may produce a tool directive, one dispatch round, and one
// synthesis call that turns tool results into the final answer. The
// engine holds no per-conversation state and never persists anything;
// callers hand it history and append what it returns.
type Engine struct {
	client   *llm.Client
	registry *tools.Registry
	composer *prompt.Composer
	opts     EngineOptions
}

// EngineOptions carries the per-installation settings the engine needs.
type EngineOptions struct {
	HasCredential      bool
	MaxTokens          int
	Temperature        float64
	ParallelTools      bool
	MaxToolConcurrency int
}

func NewEngine(client *llm.Client, registry *tools.Registry, composer *prompt.Composer, opts EngineOptions) *Engine {
	return &Engine{
		client:   client,
		registry: registry,
		composer: composer,
		opts:     opts,
	}
}

// ConverseRequest is one turn's input.
type ConverseRequest struct {
	ModelID   string
	Character persona.Character
	// History is the conversation so far, hidden messages included. The
	// new user text travels separately.
	History  []thread.Message
	UserText string
	// AgentMode enables the directive protocol. When false the turn is a
	// single plain call with the persona's own system prompt.
	AgentMode bool
	// OnToolCall fires synchronously after a directive is parsed and
	// before any tool executes, so the caller can show activity while
	// slow tools run. Never called on the plain path.
	OnToolCall func(calls []tools.Call)
}

// ConverseResult is one turn's outcome.
type ConverseResult struct {
	// Text is the final display text, returned verbatim from whichever
	// call produced it.
	Text string
	// ToolResults holds the dispatch outcomes in directive order when the
	// turn used tools; nil otherwise.
	ToolResults []tools.Result
}

// Converse runs one turn. It returns ErrCredentialMissing before any
// model call when no key is configured and *UpstreamError when a model
// call fails; per-tool failures are not errors, they are carried in the
// results and explained by the synthesis call.
func (e *Engine) Converse(ctx context.Context, req ConverseRequest) (*ConverseResult, error) {
	if !e.opts.HasCredential {
		return nil, ErrCredentialMissing
	}

	if !req.AgentMode {
		return e.plainTurn(ctx, req)
	}
	return e.agentTurn(ctx, req)
}

func (e *Engine) plainTurn(ctx context.Context, req ConverseRequest) (*ConverseResult, error) {
	text, err := e.client.Complete(ctx, e.completionRequest(req, req.Character.SystemPrompt, req.History, req.UserText))
	if err != nil {
		return nil, &UpstreamError{Phase: "plain", Err: err}
	}
	return &ConverseResult{Text: text}, nil
}

func (e *Engine) agentTurn(ctx context.Context, req ConverseRequest) (*ConverseResult, error) {
	instruction := e.composer.AgentInstruction(req.Character.AllowedTools, req.ModelID)
	effective := make(map[string]bool)
	for _, id := range e.composer.Effective(req.Character.AllowedTools, req.ModelID) {
		effective[id] = true
	}

	first, err := e.client.Complete(ctx, e.completionRequest(req, instruction, req.History, req.UserText))
	if err != nil {
		return nil, &UpstreamError{Phase: "first_call", Err: err}
	}

	reply := ParseReply(first, effective)
	if reply.Kind == ReplyPlain {
		// The model chose not to use tools; its text is the answer.
		return &ConverseResult{Text: reply.Text}, nil
	}

	logger.InfoCF("agent", "Tool directive parsed", map[string]any{
		"model": req.ModelID,
		"tools": toolIDs(reply.Calls),
	})
	if req.OnToolCall != nil {
		req.OnToolCall(reply.Calls)
	}

	results := tools.ExecuteCalls(ctx, e.registry, reply.Calls, tools.ExecOptions{
		Parallel:       e.opts.ParallelTools,
		MaxConcurrency: e.opts.MaxToolConcurrency,
	})

	// Synthesis: same instruction, the conversation extended with the
	// user's message and the model's directive, plus the serialized
	// results. The response is final text no matter its shape - exactly
	// one dispatch round per turn.
	history := append(append([]thread.Message{}, req.History...),
		thread.NewMessage(thread.RoleUser, req.UserText),
		thread.NewMessage(thread.RoleModel, reply.Text),
	)
	final, err := e.client.Complete(ctx, e.completionRequest(req, instruction, history, synthesisPrompt(results)))
	if err != nil {
		return nil, &UpstreamError{Phase: "synthesis", Err: err}
	}

	return &ConverseResult{Text: final, ToolResults: results}, nil
}

func (e *Engine) completionRequest(req ConverseRequest, instruction string, history []thread.Message, newMessage string) providers.CompletionRequest {
	return providers.CompletionRequest{
		Model:             req.ModelID,
		SystemInstruction: instruction,
		History:           toProviderMessages(history),
		NewMessage:        newMessage,
		MaxTokens:         e.opts.MaxTokens,
		Temperature:       e.opts.Temperature,
	}
}

// toProviderMessages converts thread messages to wire messages. Hidden
// messages are context like any other; transient and error entries carry
// no conversational content and are skipped.
func toProviderMessages(history []thread.Message) []providers.Message {
	out := make([]providers.Message, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case thread.RoleUser:
			out = append(out, providers.Message{Role: "user", Content: msg.Text})
		case thread.RoleModel:
			out = append(out, providers.Message{Role: "assistant", Content: msg.Text})
		}
	}
	return out
}

// synthesisPrompt serializes the tool results for the second call. Every
// result is included, failures too: the instruction's rules require the
// model to check each success flag and explain failures instead of
// inventing output for them.
func synthesisPrompt(results []tools.Result) string {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		data = []byte("[]")
	}
	return fmt.Sprintf("Tool results:\n```json\n%s\n```\nWrite the final answer for the user following the operating rules. Check each result's \"success\" flag; explain any failure instead of presenting made-up output for it.", data)
}

func toolIDs(calls []tools.Call) []string {
	ids := make([]string, len(calls))
	for i, call := range calls {
		ids[i] = call.ToolID
	}
	return ids
}
