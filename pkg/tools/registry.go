package tools

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is the static catalog of tool descriptors, keyed by tool id.
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.ID()] = tool
}

func (r *Registry) Get(id string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[id]
	return tool, ok
}

// sortedToolIDs returns tool ids in sorted order for deterministic
// iteration. This matters for prompt composition: map iteration order
// would produce a different instruction on every call, defeating the
// callers that compare instructions to detect stale system messages.
func (r *Registry) sortedToolIDs() []string {
	ids := make([]string, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns all registered tool ids, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedToolIDs()
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Subset returns the registered tools whose ids appear in ids, in sorted
// id order. Unknown ids are skipped.
func (r *Registry) Subset(ids map[string]bool) []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(ids))
	for _, id := range r.sortedToolIDs() {
		if ids[id] {
			out = append(out, r.tools[id])
		}
	}
	return out
}

// Summaries returns human-readable "id - description" lines for all
// registered tools, sorted by id.
func (r *Registry) Summaries() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := r.sortedToolIDs()
	summaries := make([]string, 0, len(sorted))
	for _, id := range sorted {
		tool := r.tools[id]
		summaries = append(summaries, fmt.Sprintf("- `%s` - %s", tool.ID(), tool.Description()))
	}
	return summaries
}
