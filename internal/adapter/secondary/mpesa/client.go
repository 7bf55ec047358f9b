package mpesa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linknk/satellite-payments/internal/core"
	"github.com/linknk/satellite-payments/internal/port/output"
)

const (
	oauthPath   = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"
)

var _ output.PaymentGateway = (*Client)(nil)

// Client is a secondary adapter that implements the PaymentGateway output port
// against the Safaricom Daraja API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Daraja client rooted at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// AccessToken obtains an OAuth bearer token using HTTP Basic auth
func (c *Client) AccessToken(ctx context.Context, consumerKey, consumerSecret string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+oauthPath, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrUpstreamAuth, err)
	}
	req.SetBasicAuth(consumerKey, consumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrUpstreamAuth, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrUpstreamAuth, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s", core.ErrUpstreamAuth, strings.TrimSpace(string(body)))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("%w: invalid token response: %v", core.ErrUpstreamAuth, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: token response has no access_token", core.ErrUpstreamAuth)
	}
	return token.AccessToken, nil
}

// STKPush submits the push request. The response is decoded whatever the HTTP
// status, since rejections are reported in the JSON body.
func (c *Client) STKPush(ctx context.Context, token string, payload output.STKPushRequest) (*output.STKPushResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal push request: %v", core.ErrUpstreamRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+stkPushPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUpstreamRequest, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUpstreamRequest, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUpstreamRequest, err)
	}

	var pushResp output.STKPushResponse
	if err := json.Unmarshal(raw, &pushResp); err != nil {
		return nil, fmt.Errorf("%w: invalid push response (HTTP %d): %v", core.ErrUpstreamRequest, resp.StatusCode, err)
	}
	if err := json.Unmarshal(raw, &pushResp.Raw); err != nil {
		return nil, fmt.Errorf("%w: invalid push response (HTTP %d): %v", core.ErrUpstreamRequest, resp.StatusCode, err)
	}
	return &pushResp, nil
}
