// Package llm is the one-shot request wrapper over a provider: send a
// system-instruction/prompt pair, optionally require a JSON-shaped
// reply, and return parsed JSON or raw text. The orchestration engine
// and the simple one-shot agents both call through here so every model
// call shares the same retry, rate-limit, and extraction behavior.
package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/KarakuriAgent/clawdroid/pkg/extract"
	"github.com/KarakuriAgent/clawdroid/pkg/logger"
	"github.com/KarakuriAgent/clawdroid/pkg/providers"
)

// Client wraps a provider with retry and client-side rate limiting.
type Client struct {
	provider providers.Provider
	limiter  *rate.Limiter
	policy   RetryPolicy
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	// RequestsPerMinute caps outbound model calls; <=0 disables limiting.
	RequestsPerMinute int
	Policy            *RetryPolicy
}

func NewClient(provider providers.Provider, opts Options) *Client {
	policy := DefaultRetryPolicy()
	if opts.Policy != nil {
		policy = *opts.Policy
	}

	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}

	return &Client{
		provider: provider,
		limiter:  limiter,
		policy:   policy,
	}
}

// Complete sends one request and returns the model's raw text reply.
func (c *Client) Complete(ctx context.Context, req providers.CompletionRequest) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	start := time.Now()
	text, err := doWithRetry(ctx, c.policy, func(attemptCtx context.Context) (string, error) {
		return c.provider.Complete(attemptCtx, req)
	})
	duration := time.Since(start)

	if err != nil {
		classified := providers.ClassifyError(err)
		logger.ErrorCF("llm", "Completion failed", map[string]any{
			"model":       req.Model,
			"reason":      string(classified.Reason),
			"duration_ms": duration.Milliseconds(),
			"error":       err.Error(),
		})
		return "", err
	}

	logger.DebugCF("llm", "Completion succeeded", map[string]any{
		"model":       req.Model,
		"duration_ms": duration.Milliseconds(),
		"chars":       len(text),
	})
	return text, nil
}

// CompleteJSON sends one request and extracts the first JSON object from
// the reply. The raw text is always returned; object is nil (ok=false)
// when the reply contained no parseable object, which is not an error.
func (c *Client) CompleteJSON(ctx context.Context, req providers.CompletionRequest) (map[string]any, string, error) {
	text, err := c.Complete(ctx, req)
	if err != nil {
		return nil, "", err
	}

	object, _, ok := extract.Object(text)
	if !ok {
		return nil, text, nil
	}
	return object, text, nil
}

// DefaultModel exposes the wrapped provider's default model id.
func (c *Client) DefaultModel() string {
	return c.provider.GetDefaultModel()
}
