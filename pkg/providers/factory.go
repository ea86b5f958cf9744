package providers

import (
	"fmt"
	"strings"

	"github.com/KarakuriAgent/clawdroid/pkg/providers/anthropic_sdk"
	"github.com/KarakuriAgent/clawdroid/pkg/providers/openai_sdk"
)

// CreateProvider is the single entry point for constructing a Provider.
// kind selects the backend ("openai" for OpenAI-compatible APIs,
// "anthropic" for the Anthropic API); unknown kinds fail rather than
// silently defaulting so a config typo is visible.
func CreateProvider(kind, apiKey, baseURL, proxy string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "openai":
		return openai_sdk.NewProvider(apiKey, baseURL, proxy), nil
	case "anthropic":
		return anthropic_sdk.NewProviderWithBaseURL(apiKey, baseURL), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", kind)
	}
}
