// Package monitoring pulls production telemetry for an installed system
// from the Enphase Enlighten API.
package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.enphaseenergy.com/api/v4"

type Client struct {
	apiKey      string
	accessToken string
	baseURL     string
	httpClient  *http.Client
}

// NewClient returns nil unless both the API key and the access token are
// configured.
func NewClient(apiKey, accessToken string) *Client {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(accessToken) == "" {
		return nil
	}
	return &Client{
		apiKey:      apiKey,
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SystemSummary fetches current production, lifetime energy and status for
// one monitored system. The upstream JSON is passed through untouched.
func (c *Client) SystemSummary(ctx context.Context, systemID string) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/systems/%s/summary?key=%s", c.baseURL, systemID, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enlighten request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("enlighten response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("enlighten status %d", resp.StatusCode)
	}

	return json.RawMessage(body), nil
}
