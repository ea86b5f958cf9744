package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultImageBaseURL = "https://image.pollinations.ai/prompt"
	defaultImageWidth   = 1024
	defaultImageHeight  = 1024
)

// ImageTool generates an image from a text prompt by building a URL
// against a prompt-to-image endpoint. The returned imageUrl can be
// embedded directly in a markdown reply.
type ImageTool struct {
	baseURL string
	proxy   string
	// verify controls whether Execute probes the URL before returning it.
	verify bool
}

type ImageToolOptions struct {
	BaseURL string
	Proxy   string
	Verify  bool
}

func NewImageTool(opts ImageToolOptions) *ImageTool {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultImageBaseURL
	}
	return &ImageTool{
		baseURL: baseURL,
		proxy:   opts.Proxy,
		verify:  opts.Verify,
	}
}

func (t *ImageTool) ID() string {
	return "generate_image"
}

func (t *ImageTool) Description() string {
	return "Generate an image from a text prompt and return a URL to the result"
}

func (t *ImageTool) InputSchema() map[string]string {
	return map[string]string{
		"prompt": "string",
	}
}

func (t *ImageTool) OutputSchema() map[string]string {
	return map[string]string{
		"prompt":   "string",
		"imageUrl": "string",
	}
}

func (t *ImageTool) Execute(ctx context.Context, args map[string]any) (any, string, error) {
	prompt, ok := args["prompt"].(string)
	if !ok || strings.TrimSpace(prompt) == "" {
		return nil, "", fmt.Errorf("prompt is required")
	}

	imageURL := fmt.Sprintf("%s/%s?width=%d&height=%d&nologo=true",
		t.baseURL, url.PathEscape(prompt), defaultImageWidth, defaultImageHeight)

	if t.verify {
		if err := t.probe(ctx, imageURL); err != nil {
			return nil, "", fmt.Errorf("image endpoint unreachable: %w", err)
		}
	}

	return map[string]any{
		"prompt":   prompt,
		"imageUrl": imageURL,
	}, fmt.Sprintf("Generated image for: %s", prompt), nil
}

func (t *ImageTool) probe(ctx context.Context, imageURL string) error {
	client, err := createHTTPClient(t.proxy, 30*time.Second)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "HEAD", imageURL, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
