package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KarakuriAgent/clawdroid/pkg/catalog"
	"github.com/KarakuriAgent/clawdroid/pkg/config"
	"github.com/KarakuriAgent/clawdroid/pkg/tools"
)

func testComposer(t *testing.T) *Composer {
	t.Helper()

	registry := tools.NewRegistry()
	registry.Register(tools.NewCalculatorTool())
	registry.Register(tools.NewSearchTool(tools.SearchToolOptions{}))
	registry.Register(tools.NewImageTool(tools.ImageToolOptions{}))

	cat := catalog.FromConfig([]config.ModelConfig{
		{
			ID:            "full-model",
			AgentCapable:  true,
			SupportsTools: []string{"calculator", "search_web", "generate_image"},
		},
		{
			ID:            "no-image-model",
			AgentCapable:  true,
			SupportsTools: []string{"calculator", "search_web"},
		},
		{
			ID:           "plain-model",
			AgentCapable: false,
		},
	})

	return NewComposer(registry, cat)
}

func TestEffectiveIntersection(t *testing.T) {
	c := testComposer(t)

	persona := []string{"search_web", "generate_image", "calculator"}

	assert.Equal(t, []string{"calculator", "generate_image", "search_web"},
		c.Effective(persona, "full-model"))
	assert.Equal(t, []string{"calculator", "search_web"},
		c.Effective(persona, "no-image-model"))
	assert.Empty(t, c.Effective(persona, "plain-model"))
	assert.Empty(t, c.Effective(persona, "unknown-model"))
	assert.Empty(t, c.Effective(nil, "full-model"))
}

func TestEffectiveSkipsUnregisteredTools(t *testing.T) {
	registry := tools.NewRegistry()
	registry.Register(tools.NewCalculatorTool())
	cat := catalog.FromConfig([]config.ModelConfig{
		{ID: "m", SupportsTools: []string{"calculator", "search_web"}},
	})
	c := NewComposer(registry, cat)

	assert.Equal(t, []string{"calculator"},
		c.Effective([]string{"calculator", "search_web"}, "m"))
}

func TestAgentInstructionDeterministic(t *testing.T) {
	c := testComposer(t)

	persona := []string{"generate_image", "calculator", "search_web"}
	first := c.AgentInstruction(persona, "full-model")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.AgentInstruction(persona, "full-model"))
	}

	// Persona order must not affect the output.
	reordered := c.AgentInstruction([]string{"search_web", "calculator", "generate_image"}, "full-model")
	assert.Equal(t, first, reordered)
}

func TestAgentInstructionNoTools(t *testing.T) {
	c := testComposer(t)

	instruction := c.AgentInstruction([]string{"calculator"}, "plain-model")
	assert.Contains(t, instruction, "no tools")
	assert.NotContains(t, instruction, "calculator")
	assert.NotContains(t, instruction, "tools-required")
}

func TestAgentInstructionToolDocs(t *testing.T) {
	c := testComposer(t)

	instruction := c.AgentInstruction([]string{"calculator", "search_web"}, "no-image-model")

	assert.Contains(t, instruction, "### calculator")
	assert.Contains(t, instruction, "### search_web")
	assert.NotContains(t, instruction, "### generate_image")
	assert.Contains(t, instruction, `{"expression":"string"}`)
	assert.Contains(t, instruction, `{"query":"string"}`)
	assert.Contains(t, instruction, `"tools-required": true`)
}

func TestAgentInstructionImageRuleConditional(t *testing.T) {
	c := testComposer(t)
	persona := []string{"calculator", "search_web", "generate_image"}

	withImage := c.AgentInstruction(persona, "full-model")
	assert.Contains(t, withImage, "![")

	withoutImage := c.AgentInstruction(persona, "no-image-model")
	assert.NotContains(t, withoutImage, "![")
}

func TestAgentInstructionWorkedExample(t *testing.T) {
	c := testComposer(t)

	instruction := c.AgentInstruction([]string{"calculator", "search_web"}, "no-image-model")

	// The example names at most two tools and shows the exact directive.
	assert.Contains(t, instruction, "calculate 120 * 4 + 7")
	assert.Contains(t, instruction, "latest robotics news")
	require.Contains(t, instruction, `{"tools-required": true, "calculator": {"expression":"120 * 4 + 7"}, "search_web": {"query":"latest robotics news"}}`)
}

func TestOperatingRulesFixedOrder(t *testing.T) {
	c := testComposer(t)
	instruction := c.AgentInstruction([]string{"calculator"}, "full-model")

	idx1 := strings.Index(instruction, "1. Analyze")
	idx3 := strings.Index(instruction, "3. If tools are needed")
	idx5 := strings.Index(instruction, "5. If no tools")
	idx6 := strings.Index(instruction, "6. When you receive tool results")

	require.Positive(t, idx1)
	assert.Greater(t, idx3, idx1)
	assert.Greater(t, idx5, idx3)
	assert.Greater(t, idx6, idx5)
}
