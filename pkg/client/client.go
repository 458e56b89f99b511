// Package client is a Go SDK for the attribution API. All state lives in the
// Client value; construct one per API key and share it freely across
// goroutines.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultBaseURL    = "http://localhost:8080"
	defaultMaxRetries = 3
	headerAPIKey      = "X-API-Key"
)

// Config configures a Client. Zero values get sensible defaults.
type Config struct {
	// APIKey authenticates every request. Required.
	APIKey string
	// BaseURL of the API, without trailing slash
	BaseURL string
	// HTTPClient to use; defaults to one with a 10s timeout
	HTTPClient *http.Client
	// MaxRetries bounds retry attempts for transient failures
	MaxRetries int
}

// Client talks to the attribution API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// New creates a Client from the given config
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		maxRetries: maxRetries,
	}, nil
}

// AppOpen is an app-open tracking event
type AppOpen struct {
	CampaignParameter string `json:"campaign_parameter"`
	EndUserID         int64  `json:"end_user_id"`
	DisplayName       string `json:"display_name,omitempty"`
	LanguageTag       string `json:"language_tag,omitempty"`
}

// AppOpenResult reports the attribution outcome of an app open
type AppOpenResult struct {
	EndUserID     int64  `json:"end_user_id"`
	FirstCampaign string `json:"first_campaign"`
	NewUser       bool   `json:"new_user"`
}

// Payment is a payment tracking event
type Payment struct {
	EndUserID        int64  `json:"end_user_id"`
	Amount           int64  `json:"amount"`
	PaymentReference string `json:"payment_reference,omitempty"`
}

// PaymentResult reports the attribution outcome of a payment
type PaymentResult struct {
	EndUserID          int64  `json:"end_user_id"`
	AttributedCampaign string `json:"attributed_campaign"`
	Amount             int64  `json:"amount"`
}

// CampaignStats holds per-campaign statistics
type CampaignStats struct {
	CampaignParameter string  `json:"campaign_parameter"`
	Reach             int64   `json:"reach"`
	PayingUsers       int64   `json:"paying_users"`
	Revenue           int64   `json:"revenue"`
	ConversionRate    float64 `json:"conversion_rate"`
}

type eventEnvelope struct {
	EventType string      `json:"event_type"`
	Data      interface{} `json:"data"`
}

// TrackAppOpen submits an app-open event
func (c *Client) TrackAppOpen(ctx context.Context, event *AppOpen) (*AppOpenResult, error) {
	var result AppOpenResult
	err := c.post(ctx, "/api/v1/events", &eventEnvelope{EventType: "app_open", Data: event}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// TrackPayment submits a payment event. The API rejects payments for users
// with no recorded app open; that comes back as an *APIError with code
// USER_NOT_ATTRIBUTED.
func (c *Client) TrackPayment(ctx context.Context, event *Payment) (*PaymentResult, error) {
	var result PaymentResult
	err := c.post(ctx, "/api/v1/events", &eventEnvelope{EventType: "payment", Data: event}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CampaignStats queries statistics for up to 100 campaigns. Results come back
// in the order requested.
func (c *Client) CampaignStats(ctx context.Context, campaignParameters []string) ([]*CampaignStats, error) {
	var result struct {
		Campaigns []*CampaignStats `json:"campaigns"`
	}
	err := c.post(ctx, "/api/v1/analytics", map[string]interface{}{
		"campaign_parameters": campaignParameters,
	}, &result)
	if err != nil {
		return nil, err
	}
	return result.Campaigns, nil
}

// post sends a request, retrying transient failures. 4xx responses are
// permanent and never retried.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	operation := func() (struct{}, error) {
		return struct{}{}, c.doOnce(ctx, path, payload, out)
	}

	_, err = backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(c.maxRetries)),
	)
	return err
}

func (c *Client) doOnce(ctx context.Context, path string, payload []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAPIKey, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   *struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		// Client errors won't improve on retry; server errors might.
		if resp.StatusCode < 500 {
			return backoff.Permanent(apiErr)
		}
		return apiErr
	}

	if err := json.Unmarshal(raw, &envelope); err != nil {
		return backoff.Permanent(fmt.Errorf("failed to parse response: %w", err))
	}
	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to parse response data: %w", err))
		}
	}
	return nil
}
