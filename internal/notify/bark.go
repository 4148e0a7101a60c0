// Package notify pushes job outcomes to a Bark endpoint.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const notificationGroup = "TXT转EPUB"

// BarkClient sends push notifications through a Bark server. A nil client is
// valid and drops every push, so callers without a configured endpoint do
// not need to branch.
type BarkClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBarkClient(baseURL string) *BarkClient {
	if baseURL == "" {
		return nil
	}
	return &BarkClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Push sends one notification. Bark's API is GET {base}/{title}/{body}.
func (c *BarkClient) Push(ctx context.Context, title, body string) error {
	if c == nil {
		return nil
	}

	endpoint := fmt.Sprintf("%s/%s/%s?group=%s&sound=healthnotification",
		c.baseURL,
		url.PathEscape(title),
		url.PathEscape(body),
		url.QueryEscape(notificationGroup),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bark push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bark push: unexpected status %d", resp.StatusCode)
	}
	return nil
}
