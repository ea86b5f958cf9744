package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/KarakuriAgent/clawdroid/pkg/persona"
	"github.com/KarakuriAgent/clawdroid/pkg/thread"
	"github.com/KarakuriAgent/clawdroid/pkg/tools"
)

// TurnRunner is the caller-side glue around Converse: it owns the thread
// mutations for one turn, including the transient thinking placeholder's
// lifecycle. The engine stays persistence-free; this is where message
// appending lives.
type TurnRunner struct {
	engine *Engine
}

func NewTurnRunner(engine *Engine) *TurnRunner {
	return &TurnRunner{engine: engine}
}

// Run executes one turn against the thread: appends the user message,
// shows a thinking placeholder while tools run, and appends either the
// final model message or an error message. The placeholder is removed on
// every path before the final append. The appended message is returned;
// the error is also returned so callers can log or retry.
func (r *TurnRunner) Run(ctx context.Context, th *thread.Thread, modelID string, character persona.Character, userText string, agentMode bool) (thread.Message, error) {
	history := th.History()
	th.Append(thread.NewMessage(thread.RoleUser, userText))

	// Guaranteed cleanup: the placeholder never survives the turn,
	// success or failure.
	defer th.RemoveThinking()

	result, err := r.engine.Converse(ctx, ConverseRequest{
		ModelID:   modelID,
		Character: character,
		History:   history,
		UserText:  userText,
		AgentMode: agentMode,
		OnToolCall: func(calls []tools.Call) {
			th.AppendThinking(thinkingText(calls))
		},
	})
	if err != nil {
		th.RemoveThinking()
		errMsg := thread.NewMessage(thread.RoleError, UserFacingMessage(err))
		th.Append(errMsg)
		return errMsg, err
	}

	th.RemoveThinking()
	final := thread.NewMessage(thread.RoleModel, result.Text)
	final.CharacterID = character.ID
	th.Append(final)
	return final, nil
}

// thinkingText names the tools in flight so the placeholder shows what
// is actually happening.
func thinkingText(calls []tools.Call) string {
	if len(calls) == 0 {
		return "Thinking..."
	}
	ids := make([]string, len(calls))
	for i, call := range calls {
		ids[i] = call.ToolID
	}
	return fmt.Sprintf("Using %s...", strings.Join(ids, ", "))
}
