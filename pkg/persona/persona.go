// Package persona holds the character roster: per-character system
// prompts, greetings, and allowed tool sets. A character's allowed tools
// are one side of the effective-tool intersection; the model catalog is
// the other.
package persona

import (
	"sort"

	"github.com/KarakuriAgent/clawdroid/pkg/config"
)

// Character is one selectable persona.
type Character struct {
	ID             string
	Name           string
	Description    string
	SystemPrompt   string
	Greeting       string
	HiddenGreeting bool
	AllowedTools   []string
}

// Default is the persona used when a thread has no character assigned.
var Default = Character{
	ID:           "assistant",
	Name:         "Assistant",
	SystemPrompt: "You are a helpful, concise assistant.",
	Greeting:     "Hi! How can I help you today?",
	AllowedTools: []string{"calculator", "generate_image", "search_web"},
}

// Store is the in-memory character roster, loaded from configuration.
type Store struct {
	characters map[string]Character
	order      []string
}

// FromConfig builds a roster from the configured character list. The
// default assistant is always present; a configured character with the
// same id overrides it.
func FromConfig(configured []config.CharacterConfig) *Store {
	s := &Store{characters: make(map[string]Character, len(configured)+1)}
	s.put(Default)
	for _, c := range configured {
		tools := append([]string(nil), c.AllowedTools...)
		sort.Strings(tools)
		s.put(Character{
			ID:             c.ID,
			Name:           c.Name,
			Description:    c.Description,
			SystemPrompt:   c.SystemPrompt,
			Greeting:       c.Greeting,
			HiddenGreeting: c.HiddenGreeting,
			AllowedTools:   tools,
		})
	}
	return s
}

func (s *Store) put(c Character) {
	if _, exists := s.characters[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.characters[c.ID] = c
}

// Get looks up a character by id. An empty id resolves to the default
// assistant.
func (s *Store) Get(id string) (Character, bool) {
	if id == "" {
		id = Default.ID
	}
	c, ok := s.characters[id]
	return c, ok
}

// IDs returns character ids in declaration order, default first.
func (s *Store) IDs() []string {
	return append([]string(nil), s.order...)
}

// List returns all characters in declaration order.
func (s *Store) List() []Character {
	out := make([]Character, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.characters[id])
	}
	return out
}
