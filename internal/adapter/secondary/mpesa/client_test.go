package mpesa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linknk/satellite-payments/internal/core"
	"github.com/linknk/satellite-payments/internal/port/output"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestAccessToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/oauth/v1/generate", r.URL.Path)
		assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"c9SQxWWhmdVRlyh0zh8gZDTkubVF","expires_in":"3599"}`))
	})

	token, err := client.AccessToken(context.Background(), "key", "secret")
	require.NoError(t, err)
	assert.Equal(t, "c9SQxWWhmdVRlyh0zh8gZDTkubVF", token)
}

func TestAccessTokenFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"non-success status", http.StatusBadRequest, `{"errorMessage":"Invalid Authentication passed"}`, "Invalid Authentication passed"},
		{"unparseable body", http.StatusOK, `<html>maintenance</html>`, "invalid token response"},
		{"missing token", http.StatusOK, `{"expires_in":"3599"}`, "no access_token"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.AccessToken(context.Background(), "key", "secret")
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrUpstreamAuth))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestSTKPushAccepted(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/mpesa/stkpush/v1/processrequest", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload output.STKPushRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "174379", payload.BusinessShortCode)
		assert.Equal(t, 400, payload.Amount)
		assert.Equal(t, "254712345678", payload.PhoneNumber)

		w.Write([]byte(`{
			"MerchantRequestID": "29115-34620561-1",
			"CheckoutRequestID": "ws_CO_191220191020363925",
			"ResponseCode": "0",
			"ResponseDescription": "Success. Request accepted for processing",
			"CustomerMessage": "Success. Request accepted for processing"
		}`))
	})

	resp, err := client.STKPush(context.Background(), "token", output.STKPushRequest{
		BusinessShortCode: "174379",
		Amount:            400,
		PhoneNumber:       "254712345678",
	})
	require.NoError(t, err)
	assert.True(t, resp.Accepted())
	assert.Equal(t, "ws_CO_191220191020363925", resp.CheckoutRequestID)
	assert.Equal(t, "29115-34620561-1", resp.MerchantRequestID)
	assert.Equal(t, "0", resp.Raw["ResponseCode"])
}

func TestSTKPushRejectedIsDecoded(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"requestId":"5a5f-4a6b","errorCode":"400.002.02","errorMessage":"Bad Request - Invalid PhoneNumber"}`))
	})

	resp, err := client.STKPush(context.Background(), "token", output.STKPushRequest{})
	require.NoError(t, err)
	assert.False(t, resp.Accepted())
	assert.Equal(t, "400.002.02", resp.ErrorCode)
	assert.Equal(t, "Bad Request - Invalid PhoneNumber", resp.ErrorMessage)
	assert.Equal(t, "5a5f-4a6b", resp.Raw["requestId"])
}

func TestSTKPushMalformedResponse(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream timeout`))
	})

	_, err := client.STKPush(context.Background(), "token", output.STKPushRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUpstreamRequest))
}

func TestSTKPushTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(srv.URL, time.Second)
	srv.Close()

	_, err := client.STKPush(context.Background(), "token", output.STKPushRequest{})
	assert.True(t, errors.Is(err, core.ErrUpstreamRequest))

	_, err = client.AccessToken(context.Background(), "key", "secret")
	assert.True(t, errors.Is(err, core.ErrUpstreamAuth))
}
