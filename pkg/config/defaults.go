package config

// DefaultConfig returns the built-in configuration: a small model catalog,
// the default assistant persona, and conservative agent limits. Everything
// here can be overridden by the config file or CLAWDROID_* env vars.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Agent: AgentConfig{
			MaxTokens:          4096,
			Temperature:        0.7,
			RequestsPerMinute:  60,
			ParallelTools:      true,
			MaxToolConcurrency: 4,
		},
		Models: []ModelConfig{
			{
				ID:            "gpt-4o-mini",
				ContextWindow: 128000,
				SupportsTools: []string{"calculator", "search_web", "generate_image"},
				AgentCapable:  true,
			},
			{
				ID:            "gpt-4o",
				ContextWindow: 128000,
				SupportsTools: []string{"calculator", "search_web", "generate_image"},
				AgentCapable:  true,
			},
			{
				ID:            "claude-3-5-haiku-latest",
				ContextWindow: 200000,
				SupportsTools: []string{"calculator", "search_web"},
				AgentCapable:  true,
			},
			{
				ID:            "claude-sonnet-4-20250514",
				ContextWindow: 200000,
				SupportsTools: []string{"calculator", "search_web", "generate_image"},
				AgentCapable:  true,
			},
		},
		Characters: []CharacterConfig{
			{
				ID:           "assistant",
				Name:         "Assistant",
				Description:  "General-purpose helpful assistant",
				SystemPrompt: "You are a helpful, knowledgeable assistant. Answer clearly and use rich text formatting where it improves readability.",
				Greeting:     "Hi! How can I help you today?",
				AllowedTools: []string{"calculator", "search_web", "generate_image"},
			},
			{
				ID:             "tutor",
				Name:           "Language Tutor",
				Description:    "Patient language tutor for translation and practice",
				SystemPrompt:   "You are a patient language tutor. Translate, correct mistakes gently, and explain grammar with short examples.",
				Greeting:       "Hello! Which language are we practicing today?",
				HiddenGreeting: true,
				AllowedTools:   []string{"search_web"},
			},
		},
		Tools: ToolsConfig{
			Search: SearchConfig{
				Brave: BraveConfig{
					Enabled:    false,
					MaxResults: 5,
				},
				DuckDuckGoMaxResults: 5,
			},
			Image: ImageConfig{
				BaseURL: "https://image.pollinations.ai/prompt",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
