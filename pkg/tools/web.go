package tools

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// createHTTPClient builds an HTTP client with a timeout and an optional
// proxy (http://, https://, or socks5://).
func createHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	client := &http.Client{Timeout: timeout}

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		client.Transport = &http.Transport{
			Proxy: http.ProxyURL(parsed),
		}
	}

	return client, nil
}
