// Package solar proxies building insights from the Google Solar API so the
// funnel can show a production estimate without exposing the API key to
// the browser.
package solar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://solar.googleapis.com/v1/buildingInsights:findClosest"

type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewClient returns nil when no API key is configured.
func NewClient(apiKey string) *Client {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}
	return &Client{
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// BuildingInsights fetches the closest building's solar potential for a
// coordinate pair. The upstream JSON is passed through untouched.
func (c *Client) BuildingInsights(ctx context.Context, lat, lng string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("location.latitude", lat)
	query.Set("location.longitude", lng)
	query.Set("requiredQuality", "MEDIUM")
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("solar api request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("solar api response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solar api status %d", resp.StatusCode)
	}

	return json.RawMessage(body), nil
}
