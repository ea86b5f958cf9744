package prompt

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/KarakuriAgent/clawdroid/pkg/catalog"
	"github.com/KarakuriAgent/clawdroid/pkg/tools"
)

// Composer builds the dynamic system instruction for agent mode. The
// instruction is a pure function of (persona tool ids, model id): callers
// cache and compare the output to decide when a thread's stored system
// message is stale, so composition must be fully deterministic.
type Composer struct {
	registry *tools.Registry
	catalog  *catalog.Catalog
}

func NewComposer(registry *tools.Registry, cat *catalog.Catalog) *Composer {
	return &Composer{registry: registry, catalog: cat}
}

// Effective computes the tools usable this turn: the persona's allowed
// set intersected with the model's declared supported set, sorted. An
// unknown model id yields an empty set.
func (c *Composer) Effective(personaTools []string, modelID string) []string {
	model, ok := c.catalog.Get(modelID)
	if !ok {
		return nil
	}

	effective := make([]string, 0, len(personaTools))
	for _, id := range personaTools {
		if model.SupportsTools[id] {
			if _, registered := c.registry.Get(id); registered {
				effective = append(effective, id)
			}
		}
	}
	sort.Strings(effective)
	return effective
}

// AgentInstruction renders the full agent-mode system instruction:
// tool documentation, a worked example, and the operating rules. When
// the effective set is empty the model is told outright that it has no
// tools.
func (c *Composer) AgentInstruction(personaTools []string, modelID string) string {
	effective := c.Effective(personaTools, modelID)
	if len(effective) == 0 {
		return noToolsInstruction
	}

	var b strings.Builder
	b.WriteString("You are a helpful assistant with access to tools.\n\n")
	b.WriteString("## Available tools\n\n")

	for _, id := range effective {
		tool, _ := c.registry.Get(id)
		b.WriteString(fmt.Sprintf("### %s\n", tool.ID()))
		b.WriteString(tool.Description())
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Input: %s\n", schemaJSON(tool.InputSchema())))
		b.WriteString(fmt.Sprintf("Output: %s\n\n", schemaJSON(tool.OutputSchema())))
	}

	b.WriteString("## Example\n\n")
	b.WriteString(workedExample(effective))
	b.WriteString("\n")

	b.WriteString("## Operating rules\n\n")
	b.WriteString(operatingRules(effective))

	return b.String()
}

const noToolsInstruction = "You are a helpful assistant. You have no tools available. " +
	"Do not reference, suggest, or pretend to use any tools. " +
	"Answer every request conversationally using only your own knowledge."

// schemaJSON renders a field->type map as a compact JSON object with
// sorted keys.
func schemaJSON(schema map[string]string) string {
	data, err := json.Marshal(schema)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// cannedPhrase is the natural-language fragment the worked example uses
// for a given tool, with the directive arguments it implies.
type cannedPhrase struct {
	request string
	args    map[string]any
}

var cannedPhrases = map[string]cannedPhrase{
	"calculator": {
		request: "calculate 120 * 4 + 7",
		args:    map[string]any{"expression": "120 * 4 + 7"},
	},
	"search_web": {
		request: "search for the latest robotics news",
		args:    map[string]any{"query": "latest robotics news"},
	},
	"generate_image": {
		request: "draw a lighthouse at sunset",
		args:    map[string]any{"prompt": "a lighthouse at sunset"},
	},
}

// workedExample synthesizes a plausible user request touching one or two
// of the effective tools, paired with the exact directive JSON the model
// must emit. Demonstration anchors the format better than rules alone.
func workedExample(effective []string) string {
	exampleIDs := make([]string, 0, 2)
	for _, id := range effective {
		if _, ok := cannedPhrases[id]; ok {
			exampleIDs = append(exampleIDs, id)
		}
		if len(exampleIDs) == 2 {
			break
		}
	}
	if len(exampleIDs) == 0 {
		// No canned phrasing for any effective tool; fall back to a
		// generic single-tool example built from its id.
		exampleIDs = effective[:1]
	}

	requests := make([]string, 0, len(exampleIDs))
	for _, id := range exampleIDs {
		if phrase, ok := cannedPhrases[id]; ok {
			requests = append(requests, phrase.request)
		} else {
			requests = append(requests, fmt.Sprintf("use the %s tool", id))
		}
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("User: %q\n", strings.Join(requests, " and ")))
	b.WriteString("You respond with exactly:\n")
	b.WriteString(directiveJSON(exampleIDs))
	b.WriteString("\n")
	return b.String()
}

// directiveJSON renders the directive object by hand so "tools-required"
// comes first and the tool keys keep the given order; key order is the
// dispatch order.
func directiveJSON(ids []string) string {
	var b strings.Builder
	b.WriteString(`{"tools-required": true`)
	for _, id := range ids {
		args := map[string]any{}
		if phrase, ok := cannedPhrases[id]; ok {
			args = phrase.args
		}
		argsData, err := json.Marshal(args)
		if err != nil {
			argsData = []byte("{}")
		}
		b.WriteString(fmt.Sprintf(", %q: %s", id, argsData))
	}
	b.WriteString("}")
	return b.String()
}

func operatingRules(effective []string) string {
	hasImageTool := false
	for _, id := range effective {
		if id == "generate_image" {
			hasImageTool = true
			break
		}
	}

	var b strings.Builder
	b.WriteString("1. Analyze the user's request carefully.\n")
	b.WriteString("2. Decide whether any of the available tools are needed to answer it.\n")
	b.WriteString("3. If tools are needed, reply with ONLY a JSON object in the directive " +
		"format shown above - no prose before or after it. Include \"tools-required\": true " +
		"and one key per tool you want invoked, with that tool's input as the value.\n")
	b.WriteString("4. Follow the example above exactly for the directive format.\n")
	b.WriteString("5. If no tools are needed, respond conversationally and do NOT emit a " +
		"tools-required JSON object.\n")
	b.WriteString("6. When you receive tool results, check each result's \"success\" flag " +
		"independently. Never claim success for a failed tool; explain the failure reason " +
		"to the user instead. Combine all tool outcomes into one coherent answer using " +
		"rich markdown formatting.")
	if hasImageTool {
		b.WriteString(" When an image was generated, embed it with a markdown image link " +
			"using the imageUrl from the tool result: ![description](imageUrl).")
	}
	b.WriteString("\n")
	return b.String()
}
