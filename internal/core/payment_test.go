package core

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingSession() *PaymentSession {
	return &PaymentSession{
		CheckoutRequestID: "ws_CO_1",
		PhoneNumber:       "254712345678",
		Amount:            400,
		Status:            SessionStatusPending,
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	assert.True(t, CanTransition(SessionStatusPending, SessionStatusSuccess))
	assert.True(t, CanTransition(SessionStatusPending, SessionStatusFailed))
	assert.False(t, CanTransition(SessionStatusPending, SessionStatusPending))
	assert.False(t, CanTransition(SessionStatusSuccess, SessionStatusFailed))
	assert.False(t, CanTransition(SessionStatusFailed, SessionStatusSuccess))
	assert.False(t, CanTransition(SessionStatusSuccess, SessionStatusPending))
}

func TestApplySuccess(t *testing.T) {
	t.Parallel()

	s := pendingSession()
	require.True(t, s.IsPending())
	err := s.Apply(CallbackOutcome{
		CheckoutRequestID: "ws_CO_1",
		ResultCode:        0,
		ResultDesc:        "The service request is processed successfully.",
		Metadata:          CallbackMetadata{MpesaReceiptNumber: "NLJ7RT61SV", TransactionDate: "20240115103045"},
	})
	require.NoError(t, err)

	assert.Equal(t, SessionStatusSuccess, s.Status)
	assert.Equal(t, "NLJ7RT61SV", s.MpesaReceiptNumber)
	assert.Equal(t, "20240115103045", s.TransactionDate)
	require.NotNil(t, s.ResultCode)
	assert.Equal(t, 0, *s.ResultCode)
	// Missing metadata does not clobber what initiation recorded
	assert.Equal(t, 400, s.Amount)
	assert.Equal(t, "254712345678", s.PhoneNumber)
	assert.True(t, s.IsTerminal())
	assert.False(t, s.IsPending())
}

func TestApplyFailure(t *testing.T) {
	t.Parallel()

	s := pendingSession()
	require.NoError(t, s.Apply(CallbackOutcome{ResultCode: 1032, ResultDesc: "Request cancelled by user"}))

	assert.Equal(t, SessionStatusFailed, s.Status)
	require.NotNil(t, s.ResultCode)
	assert.Equal(t, 1032, *s.ResultCode)
	assert.Equal(t, "Request cancelled by user", s.ResultDesc)
	assert.Empty(t, s.MpesaReceiptNumber)
}

func TestApplyRejectsFinalizedSession(t *testing.T) {
	t.Parallel()

	s := pendingSession()
	require.NoError(t, s.Apply(CallbackOutcome{ResultCode: 0, Metadata: CallbackMetadata{MpesaReceiptNumber: "A"}}))

	err := s.Apply(CallbackOutcome{ResultCode: 1032})
	assert.True(t, errors.Is(err, ErrSessionFinalized))
	assert.Equal(t, SessionStatusSuccess, s.Status)
	assert.Equal(t, "A", s.MpesaReceiptNumber)
}

func TestNewSubscription(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	sub := NewSubscription(pendingSession(), now, 30*24*time.Hour)

	assert.Equal(t, "ws_CO_1", sub.CheckoutRequestID)
	assert.Equal(t, now, sub.ActivatedAt)
	assert.Equal(t, time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC), sub.ExpiresAt)
	assert.NotEqual(t, uuid.Nil, sub.ID)
}

func TestErrorTaxonomy(t *testing.T) {
	t.Parallel()

	err := InvalidRequest("Missing checkoutRequestID")
	assert.True(t, errors.Is(err, ErrInvalidRequest))
	assert.Equal(t, "Missing checkoutRequestID", err.Error())

	var rejection error = &ProviderRejectionError{Code: "500.001.1001", Message: "Wrong credentials"}
	var target *ProviderRejectionError
	assert.True(t, errors.As(rejection, &target))
	assert.Contains(t, rejection.Error(), "Wrong credentials")
}
