package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KarakuriAgent/clawdroid/pkg/tools"
)

// stubSearchTool stands in for the network-backed search tool.
type stubSearchTool struct {
	fail bool
}

func (t *stubSearchTool) ID() string          { return "search_web" }
func (t *stubSearchTool) Description() string { return "Search the web" }
func (t *stubSearchTool) InputSchema() map[string]string {
	return map[string]string{"query": "string"}
}
func (t *stubSearchTool) OutputSchema() map[string]string {
	return map[string]string{"query": "string", "results": "list"}
}
func (t *stubSearchTool) Execute(ctx context.Context, args map[string]any) (any, string, error) {
	if t.fail {
		return nil, "", errors.New("search backend unreachable")
	}
	query, _ := args["query"].(string)
	return map[string]any{
		"query":   query,
		"results": []map[string]any{{"title": "Quantum leap", "url": "https://example.com/q"}},
	}, "1 results for: " + query, nil
}

func TestConverseCredentialMissing(t *testing.T) {
	h := newHarness(&mockProvider{})
	h.engine.opts.HasCredential = false

	_, err := h.engine.Converse(context.Background(), ConverseRequest{
		ModelID:   testModelID,
		Character: h.char,
		UserText:  "hi",
		AgentMode: true,
	})

	require.ErrorIs(t, err, ErrCredentialMissing)
	assert.Equal(t, 0, h.provider.callCount(), "no model call without a credential")
}

func TestConversePlainModeSingleCall(t *testing.T) {
	h := newHarness(&mockProvider{responses: []string{"Hello there!"}})

	observed := false
	result, err := h.engine.Converse(context.Background(), ConverseRequest{
		ModelID:    testModelID,
		Character:  h.char,
		UserText:   "hi",
		AgentMode:  false,
		OnToolCall: func([]tools.Call) { observed = true },
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello there!", result.Text)
	assert.Nil(t, result.ToolResults)
	assert.False(t, observed, "plain mode never observes tool calls")
	require.Equal(t, 1, h.provider.callCount())

	// Plain mode uses the persona prompt, not the agent instruction.
	req := h.provider.request(0)
	assert.Equal(t, "You are helpful.", req.SystemInstruction)
}

func TestConverseAgentModePlainReply(t *testing.T) {
	h := newHarness(&mockProvider{responses: []string{"No tools needed: the capital is Paris."}})

	observed := false
	result, err := h.engine.Converse(context.Background(), ConverseRequest{
		ModelID:    testModelID,
		Character:  h.char,
		UserText:   "capital of France?",
		AgentMode:  true,
		OnToolCall: func([]tools.Call) { observed = true },
	})

	require.NoError(t, err)
	assert.Equal(t, "No tools needed: the capital is Paris.", result.Text)
	assert.False(t, observed)
	assert.Equal(t, 1, h.provider.callCount(), "plain reply makes no second call")
}

func TestConverseEndToEndTwoTools(t *testing.T) {
	directive := `{"tools-required":true,"calculator":{"expression":"(345/5)*2"},"search_web":{"query":"quantum computing news"}}`
	h := newHarness(&mockProvider{responses: []string{
		directive,
		"The calculation gives **138**. In quantum computing news: Quantum leap (https://example.com/q).",
	}}, &stubSearchTool{})

	var observedCalls []tools.Call
	result, err := h.engine.Converse(context.Background(), ConverseRequest{
		ModelID:   testModelID,
		Character: h.char,
		UserText:  "calculate (345/5)*2 and search for quantum computing news",
		AgentMode: true,
		OnToolCall: func(calls []tools.Call) {
			observedCalls = calls
			// Fired before dispatch: no results exist yet.
		},
	})

	require.NoError(t, err)
	require.Equal(t, 2, h.provider.callCount())

	require.Len(t, observedCalls, 2)
	assert.Equal(t, "calculator", observedCalls[0].ToolID)
	assert.Equal(t, "search_web", observedCalls[1].ToolID)

	require.Len(t, result.ToolResults, 2)
	assert.True(t, result.ToolResults[0].Success)
	assert.True(t, result.ToolResults[1].Success)

	// The synthesis call carries both serialized results and the same
	// agent instruction as the first call.
	synthesis := h.provider.request(1)
	assert.Equal(t, h.provider.request(0).SystemInstruction, synthesis.SystemInstruction)
	assert.Contains(t, synthesis.NewMessage, `"toolId": "calculator"`)
	assert.Contains(t, synthesis.NewMessage, `"toolId": "search_web"`)
	assert.Contains(t, synthesis.NewMessage, "138")

	assert.Contains(t, result.Text, "138")
	assert.Contains(t, result.Text, "Quantum leap")
}

func TestConverseOneToolFailsOtherSucceeds(t *testing.T) {
	directive := `{"tools-required":true,"calculator":{"expression":"2+2"},"search_web":{"query":"go"}}`
	h := newHarness(&mockProvider{responses: []string{
		directive,
		"2+2 is 4. The search failed: search backend unreachable.",
	}}, &stubSearchTool{fail: true})

	result, err := h.engine.Converse(context.Background(), ConverseRequest{
		ModelID:   testModelID,
		Character: h.char,
		UserText:  "add and search",
		AgentMode: true,
	})

	require.NoError(t, err, "per-tool failure is not a turn failure")
	require.Len(t, result.ToolResults, 2)
	assert.True(t, result.ToolResults[0].Success)
	assert.False(t, result.ToolResults[1].Success)
	assert.Nil(t, result.ToolResults[1].Data, "failed results carry no data")

	synthesis := h.provider.request(1)
	assert.Contains(t, synthesis.NewMessage, `"success": false`)
	assert.Contains(t, synthesis.NewMessage, "search backend unreachable")
}

func TestConverseDirectiveOutsideEffectiveSetNotDispatched(t *testing.T) {
	// generate_image is not in the model's supported set, so the key must
	// be dropped; with no remaining keys the reply degrades to plain.
	directive := `{"tools-required":true,"generate_image":{"prompt":"a cat"}}`
	h := newHarness(&mockProvider{responses: []string{directive}})

	result, err := h.engine.Converse(context.Background(), ConverseRequest{
		ModelID:   testModelID,
		Character: h.char,
		UserText:  "draw a cat",
		AgentMode: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, h.provider.callCount())
	assert.Nil(t, result.ToolResults)
}

func TestConverseSynthesisReturnedVerbatim(t *testing.T) {
	directive := `{"tools-required":true,"calculator":{"expression":"1+1"}}`
	// The synthesis reply is itself directive-shaped; exactly one
	// dispatch round happens and the text is returned as-is.
	secondDirective := `{"tools-required":true,"calculator":{"expression":"2+2"}}`
	h := newHarness(&mockProvider{responses: []string{directive, secondDirective}})

	result, err := h.engine.Converse(context.Background(), ConverseRequest{
		ModelID:   testModelID,
		Character: h.char,
		UserText:  "add",
		AgentMode: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, h.provider.callCount())
	assert.Equal(t, secondDirective, result.Text)
	require.Len(t, result.ToolResults, 1)
}

func TestConverseFirstCallUpstreamError(t *testing.T) {
	h := newHarness(&mockProvider{errs: []error{errors.New("status=500 server_error")}})

	_, err := h.engine.Converse(context.Background(), ConverseRequest{
		ModelID:   testModelID,
		Character: h.char,
		UserText:  "hi",
		AgentMode: true,
	})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "first_call", upstream.Phase)
}

func TestConverseSynthesisUpstreamError(t *testing.T) {
	directive := `{"tools-required":true,"calculator":{"expression":"1+1"}}`
	h := newHarness(&mockProvider{
		responses: []string{directive},
		errs:      []error{nil, errors.New("status=503 service unavailable")},
	})

	_, err := h.engine.Converse(context.Background(), ConverseRequest{
		ModelID:   testModelID,
		Character: h.char,
		UserText:  "add",
		AgentMode: true,
	})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "synthesis", upstream.Phase)
}
