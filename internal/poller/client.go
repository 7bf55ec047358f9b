package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	statusPath   = "/functions/v1/payment-status"
	initiatePath = "/functions/v1/mpesa-stk-push"
)

// StatusClient talks to the payment API over HTTP
type StatusClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewStatusClient creates a client for the API rooted at baseURL
func NewStatusClient(baseURL string, timeout time.Duration) *StatusClient {
	return &StatusClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	Status
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	CheckoutRequestID string `json:"checkoutRequestID"`
	MerchantRequestID string `json:"merchantRequestID"`
}

// FetchStatus queries the status endpoint once
func (c *StatusClient) FetchStatus(ctx context.Context, checkoutRequestID string) (*Status, error) {
	resp, err := c.post(ctx, statusPath, map[string]interface{}{"checkoutRequestID": checkoutRequestID})
	if err != nil {
		return nil, err
	}
	return &resp.Status, nil
}

// Initiate requests an STK push and returns the checkout request id
func (c *StatusClient) Initiate(ctx context.Context, phoneNumber string, amount float64) (string, error) {
	resp, err := c.post(ctx, initiatePath, map[string]interface{}{
		"phoneNumber": phoneNumber,
		"amount":      amount,
	})
	if err != nil {
		return "", err
	}
	return resp.CheckoutRequestID, nil
}

func (c *StatusClient) post(ctx context.Context, path string, payload interface{}) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("invalid response from %s (HTTP %d): %w", path, resp.StatusCode, err)
	}
	if !out.Success {
		return nil, fmt.Errorf("%s failed (HTTP %d): %s", path, resp.StatusCode, out.Message)
	}
	return &out, nil
}
