package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/KarakuriAgent/clawdroid/pkg/llm"
	"github.com/KarakuriAgent/clawdroid/pkg/providers"
	"github.com/KarakuriAgent/clawdroid/pkg/thread"
)

// One-shot agents: single-call helpers that reuse the request wrapper
// but sit outside the two-phase protocol. They are collaborators of the
// engine, not part of it.

// TitleForThread asks the model for a short thread title based on the
// opening exchange. Falls back to the first user message when the model
// does not produce the expected JSON.
func TitleForThread(ctx context.Context, client *llm.Client, modelID string, th *thread.Thread) (string, error) {
	var firstUser string
	var b strings.Builder
	for _, msg := range th.History() {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Text)
		if firstUser == "" && msg.Role == thread.RoleUser {
			firstUser = msg.Text
		}
	}

	object, _, err := client.CompleteJSON(ctx, providers.CompletionRequest{
		Model:             modelID,
		SystemInstruction: `Generate a short title (at most 5 words) for the conversation. Reply with JSON only: {"title": "..."}`,
		NewMessage:        b.String(),
	})
	if err != nil {
		return "", err
	}

	if title, ok := object["title"].(string); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title), nil
	}
	if firstUser != "" {
		return truncate(firstUser, 40), nil
	}
	return "New chat", nil
}

// ImproveDescription rewrites a character description into cleaner prose.
func ImproveDescription(ctx context.Context, client *llm.Client, modelID, description string) (string, error) {
	object, raw, err := client.CompleteJSON(ctx, providers.CompletionRequest{
		Model:             modelID,
		SystemInstruction: `Improve the given character description: fix grammar, tighten wording, keep the meaning. Reply with JSON only: {"description": "..."}`,
		NewMessage:        description,
	})
	if err != nil {
		return "", err
	}

	if improved, ok := object["description"].(string); ok && strings.TrimSpace(improved) != "" {
		return strings.TrimSpace(improved), nil
	}
	// The model ignored the format; its raw text is still an improvement
	// attempt worth returning.
	return strings.TrimSpace(raw), nil
}

// Translate renders text in the target language, returning only the
// translation.
func Translate(ctx context.Context, client *llm.Client, modelID, text, targetLanguage string) (string, error) {
	reply, err := client.Complete(ctx, providers.CompletionRequest{
		Model:             modelID,
		SystemInstruction: fmt.Sprintf("Translate the user's text into %s. Reply with the translation only, no commentary.", targetLanguage),
		NewMessage:        text,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// Correction is the tutor helper's structured reply.
type Correction struct {
	Corrected   string
	Explanation string
}

// CorrectSentence asks for a grammar correction with a short
// explanation, for the tutor persona's practice flow.
func CorrectSentence(ctx context.Context, client *llm.Client, modelID, sentence string) (*Correction, error) {
	object, raw, err := client.CompleteJSON(ctx, providers.CompletionRequest{
		Model:             modelID,
		SystemInstruction: `Correct the user's sentence. Reply with JSON only: {"corrected": "...", "explanation": "..."}. If the sentence is already correct, return it unchanged with a brief note.`,
		NewMessage:        sentence,
	})
	if err != nil {
		return nil, err
	}

	corrected, _ := object["corrected"].(string)
	explanation, _ := object["explanation"].(string)
	if strings.TrimSpace(corrected) == "" {
		return &Correction{Corrected: sentence, Explanation: strings.TrimSpace(raw)}, nil
	}
	return &Correction{
		Corrected:   strings.TrimSpace(corrected),
		Explanation: strings.TrimSpace(explanation),
	}, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
