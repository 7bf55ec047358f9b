package input

import (
	"context"

	"github.com/linknk/satellite-payments/internal/core"
)

// PaymentService is an input port (primary port) for the STK push flow
// Primary adapters (HTTP handlers) will use this
type PaymentService interface {
	// InitiatePayment sends an STK push and records a pending session
	InitiatePayment(ctx context.Context, req InitiatePaymentRequest) (*InitiatePaymentResponse, error)

	// HandleCallback finalizes the session named by the provider callback
	HandleCallback(ctx context.Context, outcome core.CallbackOutcome) error

	// GetStatus reads the current state of a session
	GetStatus(ctx context.Context, checkoutRequestID string) (*PaymentStatusResponse, error)
}

// InitiatePaymentRequest represents the request to start a payment
type InitiatePaymentRequest struct {
	PhoneNumber string
	Amount      float64
}

// InitiatePaymentResponse represents an accepted STK push
type InitiatePaymentResponse struct {
	Message           string
	CheckoutRequestID string
	MerchantRequestID string
}

// PaymentStatusResponse is the projection returned to pollers
type PaymentStatusResponse struct {
	Status             core.SessionStatus
	MpesaReceiptNumber string
	Amount             int
	PhoneNumber        string
	TransactionDate    string
	ResultDesc         string
}
