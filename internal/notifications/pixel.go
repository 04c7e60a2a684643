package notifications

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/leads"
)

const defaultMetaEndpoint = "https://graph.facebook.com/v18.0"

// MetaPixelClient posts server-side Lead events to the Meta Conversions API.
type MetaPixelClient struct {
	pixelID     string
	accessToken string
	endpoint    string
	httpClient  *http.Client
}

func NewMetaPixelClient(pixelID, accessToken string) *MetaPixelClient {
	if strings.TrimSpace(pixelID) == "" || strings.TrimSpace(accessToken) == "" {
		return nil
	}
	return &MetaPixelClient{
		pixelID:     pixelID,
		accessToken: accessToken,
		endpoint:    defaultMetaEndpoint,
		httpClient:  &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *MetaPixelClient) SendLeadEvent(ctx context.Context, lead leads.Lead) error {
	payload := map[string]interface{}{
		"data": []map[string]interface{}{
			{
				"event_name":   "Lead",
				"event_time":   time.Now().Unix(),
				"action_source": "website",
				"user_data": map[string]interface{}{
					"em": []string{hashIdentifier(lead.Email)},
					"ph": []string{hashIdentifier(lead.Phone)},
					"zp": []string{hashIdentifier(lead.Zip)},
				},
			},
		},
	}

	url := fmt.Sprintf("%s/%s/events?access_token=%s", c.endpoint, c.pixelID, c.accessToken)
	return postJSON(ctx, c.httpClient, "meta pixel", url, payload)
}

const defaultGA4Endpoint = "https://www.google-analytics.com/mp/collect"

// GA4Client posts events through the Measurement Protocol.
type GA4Client struct {
	measurementID string
	apiSecret     string
	endpoint      string
	httpClient    *http.Client
}

func NewGA4Client(measurementID, apiSecret string) *GA4Client {
	if strings.TrimSpace(measurementID) == "" || strings.TrimSpace(apiSecret) == "" {
		return nil
	}
	return &GA4Client{
		measurementID: measurementID,
		apiSecret:     apiSecret,
		endpoint:      defaultGA4Endpoint,
		httpClient:    &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *GA4Client) SendLeadEvent(ctx context.Context, lead leads.Lead) error {
	payload := map[string]interface{}{
		"client_id": lead.SessionID,
		"events": []map[string]interface{}{
			{
				"name": "generate_lead",
				"params": map[string]interface{}{
					"currency": "USD",
					"zip":      lead.Zip,
					"utility":  lead.Utility,
				},
			},
		},
	}

	url := fmt.Sprintf("%s?measurement_id=%s&api_secret=%s", c.endpoint, c.measurementID, c.apiSecret)
	return postJSON(ctx, c.httpClient, "ga4", url, payload)
}

func hashIdentifier(value string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(value))))
	return hex.EncodeToString(sum[:])
}

func postJSON(ctx context.Context, client *http.Client, name, url string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s marshal payload: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%s create request: %w", name, err)
	}
	req.Header.Set("content-type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s send failed: status=%d body=%s", name, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
