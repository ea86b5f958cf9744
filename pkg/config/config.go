package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type LLMConfig struct {
	Provider string `json:"provider" env:"CLAWDROID_LLM_PROVIDER"`
	Model    string `json:"model" env:"CLAWDROID_LLM_MODEL"`
	APIKey   string `json:"api_key" env:"CLAWDROID_LLM_API_KEY"`
	BaseURL  string `json:"base_url" env:"CLAWDROID_LLM_BASE_URL"`
	Proxy    string `json:"proxy" env:"CLAWDROID_LLM_PROXY"`
}

type AgentConfig struct {
	MaxTokens          int     `json:"max_tokens" env:"CLAWDROID_AGENT_MAX_TOKENS"`
	Temperature        float64 `json:"temperature" env:"CLAWDROID_AGENT_TEMPERATURE"`
	RequestsPerMinute  int     `json:"requests_per_minute" env:"CLAWDROID_AGENT_REQUESTS_PER_MINUTE"`
	ParallelTools      bool    `json:"parallel_tools" env:"CLAWDROID_AGENT_PARALLEL_TOOLS"`
	MaxToolConcurrency int     `json:"max_tool_concurrency" env:"CLAWDROID_AGENT_MAX_TOOL_CONCURRENCY"`
}

// ModelConfig declares one model the client may select: its context size
// and which tool ids it is allowed to invoke.
type ModelConfig struct {
	ID            string   `json:"id"`
	ContextWindow int      `json:"context_window"`
	SupportsTools []string `json:"supports_tools"`
	AgentCapable  bool     `json:"agent_capable"`
}

// CharacterConfig declares one persona in the roster.
type CharacterConfig struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	SystemPrompt   string   `json:"system_prompt"`
	Greeting       string   `json:"greeting"`
	HiddenGreeting bool     `json:"hidden_greeting"`
	AllowedTools   []string `json:"allowed_tools"`
}

type BraveConfig struct {
	Enabled    bool   `json:"enabled" env:"CLAWDROID_TOOLS_SEARCH_BRAVE_ENABLED"`
	APIKey     string `json:"api_key" env:"CLAWDROID_TOOLS_SEARCH_BRAVE_API_KEY"`
	MaxResults int    `json:"max_results" env:"CLAWDROID_TOOLS_SEARCH_BRAVE_MAX_RESULTS"`
}

type SearchConfig struct {
	Brave                BraveConfig `json:"brave"`
	DuckDuckGoMaxResults int         `json:"duckduckgo_max_results" env:"CLAWDROID_TOOLS_SEARCH_DUCKDUCKGO_MAX_RESULTS"`
}

type ImageConfig struct {
	BaseURL string `json:"base_url" env:"CLAWDROID_TOOLS_IMAGE_BASE_URL"`
}

type ToolsConfig struct {
	Search SearchConfig `json:"search"`
	Image  ImageConfig  `json:"image"`
	Proxy  string       `json:"proxy" env:"CLAWDROID_TOOLS_PROXY"`
}

type StorageConfig struct {
	DataDir string `json:"data_dir" env:"CLAWDROID_STORAGE_DATA_DIR"`
}

type LoggingConfig struct {
	Level string `json:"level" env:"CLAWDROID_LOG_LEVEL"`
	File  string `json:"file" env:"CLAWDROID_LOG_FILE"`
}

type Config struct {
	LLM        LLMConfig         `json:"llm"`
	Agent      AgentConfig       `json:"agent"`
	Models     []ModelConfig     `json:"models"`
	Characters []CharacterConfig `json:"characters"`
	Tools      ToolsConfig       `json:"tools"`
	Storage    StorageConfig     `json:"storage"`
	Logging    LoggingConfig     `json:"logging"`
}

// ConfigDir returns the per-user configuration directory.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clawdroid"
	}
	return filepath.Join(home, ".clawdroid")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load reads the config file at path (falling back to defaults when the
// file does not exist) and applies CLAWDROID_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults plus env overrides are a valid zero-setup configuration.
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.applyFallbacks()
	return cfg, nil
}

// Save writes the config as indented JSON, creating the directory if
// needed.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyFallbacks() {
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = filepath.Join(ConfigDir(), "data")
	}
	if c.Agent.MaxTokens <= 0 {
		c.Agent.MaxTokens = 4096
	}
	if c.Agent.MaxToolConcurrency <= 0 {
		c.Agent.MaxToolConcurrency = 4
	}
	if c.Agent.RequestsPerMinute <= 0 {
		c.Agent.RequestsPerMinute = 60
	}
}

// HasCredential reports whether an API key is configured for the model
// provider. The engine refuses to start a turn without one.
func (c *Config) HasCredential() bool {
	return c.LLM.APIKey != ""
}
