// Package catalog is the model capability gate: the per-model declaration
// of context size, agent capability, and which tool ids a model may
// invoke. Prompt composition intersects a persona's tool set with the
// catalog entry before any tool documentation reaches a model.
package catalog

import (
	"sort"

	"github.com/KarakuriAgent/clawdroid/pkg/config"
)

// ModelInfo describes one selectable model.
type ModelInfo struct {
	ID            string
	ContextWindow int
	SupportsTools map[string]bool
	AgentCapable  bool
}

// SupportedToolIDs returns the declared tool ids in sorted order.
func (m ModelInfo) SupportedToolIDs() []string {
	ids := make([]string, 0, len(m.SupportsTools))
	for id := range m.SupportsTools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type Catalog struct {
	models map[string]ModelInfo
	order  []string
}

// FromConfig builds a catalog from the configured model list. Later
// entries with a duplicate id overwrite earlier ones, matching config
// file override semantics.
func FromConfig(models []config.ModelConfig) *Catalog {
	c := &Catalog{models: make(map[string]ModelInfo, len(models))}
	for _, m := range models {
		supports := make(map[string]bool, len(m.SupportsTools))
		for _, id := range m.SupportsTools {
			supports[id] = true
		}
		if _, exists := c.models[m.ID]; !exists {
			c.order = append(c.order, m.ID)
		}
		c.models[m.ID] = ModelInfo{
			ID:            m.ID,
			ContextWindow: m.ContextWindow,
			SupportsTools: supports,
			AgentCapable:  m.AgentCapable,
		}
	}
	return c
}

// Get looks up a model by id. Unknown ids return ok=false; callers must
// treat that as "no declared tool support" rather than assuming anything.
func (c *Catalog) Get(id string) (ModelInfo, bool) {
	info, ok := c.models[id]
	return info, ok
}

// IDs returns model ids in declaration order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.order...)
}

// SupportsTool reports whether the model with the given id declares
// support for toolID. Unknown models support nothing.
func (c *Catalog) SupportsTool(modelID, toolID string) bool {
	info, ok := c.models[modelID]
	if !ok {
		return false
	}
	return info.SupportsTools[toolID]
}
