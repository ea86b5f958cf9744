package agent

import (
	"context"
	"sync"
	"time"

	"github.com/KarakuriAgent/clawdroid/pkg/catalog"
	"github.com/KarakuriAgent/clawdroid/pkg/config"
	"github.com/KarakuriAgent/clawdroid/pkg/llm"
	"github.com/KarakuriAgent/clawdroid/pkg/persona"
	"github.com/KarakuriAgent/clawdroid/pkg/prompt"
	"github.com/KarakuriAgent/clawdroid/pkg/providers"
	"github.com/KarakuriAgent/clawdroid/pkg/tools"
)

// mockProvider replays scripted responses and records every request for
// assertions on what the engine sent.
type mockProvider struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	requests  []providers.CompletionRequest
}

func (p *mockProvider) Complete(ctx context.Context, req providers.CompletionRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := len(p.requests)
	p.requests = append(p.requests, req)

	if idx < len(p.errs) && p.errs[idx] != nil {
		return "", p.errs[idx]
	}
	if idx < len(p.responses) {
		return p.responses[idx], nil
	}
	return "out of scripted responses", nil
}

func (p *mockProvider) GetDefaultModel() string { return "mock-model" }

func (p *mockProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func (p *mockProvider) request(idx int) providers.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[idx]
}

// testHarness wires a full engine around the mock provider with the
// calculator and search tools registered and effective.
type testHarness struct {
	provider *mockProvider
	engine   *Engine
	runner   *TurnRunner
	char     persona.Character
}

const testModelID = "test-model"

func newHarness(provider *mockProvider, extraTools ...tools.Tool) *testHarness {
	registry := tools.NewRegistry()
	registry.Register(tools.NewCalculatorTool())
	for _, tool := range extraTools {
		registry.Register(tool)
	}

	cat := catalog.FromConfig([]config.ModelConfig{
		{
			ID:            testModelID,
			AgentCapable:  true,
			SupportsTools: []string{"calculator", "search_web"},
		},
	})
	composer := prompt.NewComposer(registry, cat)

	client := llm.NewClient(provider, llm.Options{
		Policy: &llm.RetryPolicy{AttemptTimeouts: []time.Duration{5 * time.Second}},
	})

	engine := NewEngine(client, registry, composer, EngineOptions{
		HasCredential:      true,
		MaxTokens:          1024,
		ParallelTools:      false,
		MaxToolConcurrency: 2,
	})

	return &testHarness{
		provider: provider,
		engine:   engine,
		runner:   NewTurnRunner(engine),
		char: persona.Character{
			ID:           "assistant",
			SystemPrompt: "You are helpful.",
			AllowedTools: []string{"calculator", "search_web"},
		},
	}
}
