package output

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/linknk/satellite-payments/internal/core"
)

// SessionFinalizedEvent announces that a session reached a terminal state
type SessionFinalizedEvent struct {
	EventID           uuid.UUID          `json:"event_id"`
	CheckoutRequestID string             `json:"checkout_request_id"`
	Status            core.SessionStatus `json:"status"`
	Timestamp         time.Time          `json:"timestamp"`
}

// NewSessionFinalizedEvent builds the event for a finalized session
func NewSessionFinalizedEvent(session *core.PaymentSession) SessionFinalizedEvent {
	return SessionFinalizedEvent{
		EventID:           uuid.New(),
		CheckoutRequestID: session.CheckoutRequestID,
		Status:            session.Status,
		Timestamp:         time.Now(),
	}
}

// PaymentEvents is an output port (secondary port) for payment messaging
// Secondary adapters (RabbitMQ implementations) will implement this
type PaymentEvents interface {
	// PublishSessionFinalized publishes a finalized-session event
	PublishSessionFinalized(ctx context.Context, event SessionFinalizedEvent) error
	// Close closes the messaging connection
	Close() error
}
