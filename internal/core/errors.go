package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration means a provider credential is missing
	ErrConfiguration = errors.New("M-Pesa credentials not configured")
	// ErrUpstreamAuth means the OAuth token could not be obtained
	ErrUpstreamAuth = errors.New("failed to get M-Pesa access token")
	// ErrUpstreamRequest means the push request could not be sent or its reply read
	ErrUpstreamRequest = errors.New("M-Pesa request failed")
	// ErrPersistence wraps storage failures
	ErrPersistence = errors.New("payment session storage failed")
	// ErrSessionNotFound means no session exists for the checkout request id
	ErrSessionNotFound = errors.New("payment session not found")
	// ErrSessionFinalized means the session already reached a terminal state
	ErrSessionFinalized = errors.New("payment session already finalized")
	// ErrSubscriptionExists means the bundle for this checkout was already activated
	ErrSubscriptionExists = errors.New("subscription already activated")
	// ErrInvalidRequest means the caller sent an unusable request
	ErrInvalidRequest = errors.New("invalid request")
)

// ProviderRejectionError is returned when the provider answered the push
// request but declined it.
type ProviderRejectionError struct {
	Code    string
	Message string
	Data    map[string]interface{}
}

func (e *ProviderRejectionError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("STK push rejected (%s): %s", e.Code, e.Message)
	}
	return "STK push rejected: " + e.Message
}

// RequestError is a caller mistake; its message is safe to return as-is
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// Is matches ErrInvalidRequest
func (e *RequestError) Is(target error) bool { return target == ErrInvalidRequest }

// InvalidRequest builds a RequestError
func InvalidRequest(message string) error {
	return &RequestError{Message: message}
}
