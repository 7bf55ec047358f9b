package core

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the status of a payment session
type SessionStatus string

const (
	SessionStatusPending SessionStatus = "pending"
	SessionStatusSuccess SessionStatus = "success"
	SessionStatusFailed  SessionStatus = "failed"
	// SessionStatusNotFound is only ever reported by status queries, never persisted
	SessionStatusNotFound SessionStatus = "not_found"
)

// IsTerminal reports whether no further transition is expected from s
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusSuccess || s == SessionStatusFailed
}

// PaymentSession represents one STK push and its outcome
type PaymentSession struct {
	ID                 uuid.UUID
	CheckoutRequestID  string
	MerchantRequestID  string
	PhoneNumber        string
	Amount             int
	Status             SessionStatus
	ResultCode         *int
	ResultDesc         string
	MpesaReceiptNumber string
	TransactionDate    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsPending checks if the session is still awaiting its callback
func (p *PaymentSession) IsPending() bool {
	return p.Status == SessionStatusPending
}

// IsTerminal checks if the session is in a terminal state
func (p *PaymentSession) IsTerminal() bool {
	return p.Status.IsTerminal()
}

// CanTransition reports whether a session in state from may move to state to.
// Only pending sessions move, and only into a terminal state.
func CanTransition(from, to SessionStatus) bool {
	return from == SessionStatusPending && to.IsTerminal()
}

// Apply moves the session into the state described by the callback outcome.
// Amount and phone number are only overwritten when the provider reported them.
func (p *PaymentSession) Apply(o CallbackOutcome) error {
	next := o.Status()
	if !CanTransition(p.Status, next) {
		return ErrSessionFinalized
	}

	code := o.ResultCode
	p.Status = next
	p.ResultCode = &code
	p.ResultDesc = o.ResultDesc

	if next == SessionStatusSuccess {
		p.MpesaReceiptNumber = o.Metadata.MpesaReceiptNumber
		p.TransactionDate = o.Metadata.TransactionDate
		if o.Metadata.Amount != 0 {
			p.Amount = o.Metadata.Amount
		}
		if o.Metadata.PhoneNumber != "" {
			p.PhoneNumber = o.Metadata.PhoneNumber
		}
	}
	return nil
}

// Subscription is the satellite bundle activated by a successful payment
type Subscription struct {
	ID                uuid.UUID
	CheckoutRequestID string
	PhoneNumber       string
	Amount            int
	ActivatedAt       time.Time
	ExpiresAt         time.Time
}

// NewSubscription activates a bundle for a successful session
func NewSubscription(session *PaymentSession, now time.Time, validity time.Duration) *Subscription {
	return &Subscription{
		ID:                uuid.New(),
		CheckoutRequestID: session.CheckoutRequestID,
		PhoneNumber:       session.PhoneNumber,
		Amount:            session.Amount,
		ActivatedAt:       now,
		ExpiresAt:         now.Add(validity),
	}
}
