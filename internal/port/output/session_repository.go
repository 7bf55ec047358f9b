package output

import (
	"context"

	"github.com/linknk/satellite-payments/internal/core"
)

// SessionRepository is an output port (secondary port) for payment session data access
// Secondary adapters (database implementations) will implement this
type SessionRepository interface {
	// Create stores a new pending session
	Create(ctx context.Context, session *core.PaymentSession) error

	// GetByCheckoutRequestID retrieves a session, or core.ErrSessionNotFound
	GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*core.PaymentSession, error)

	// Finalize atomically applies a callback outcome to a pending session
	// Returns core.ErrSessionNotFound or core.ErrSessionFinalized when nothing was written
	Finalize(ctx context.Context, outcome core.CallbackOutcome) (*core.PaymentSession, error)
}

// SubscriptionRepository is an output port for activated bundles
type SubscriptionRepository interface {
	// Activate stores the subscription unless one exists for the same checkout
	// Returns core.ErrSubscriptionExists when nothing was written
	Activate(ctx context.Context, sub *core.Subscription) error
}
