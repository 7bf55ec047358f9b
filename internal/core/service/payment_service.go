package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/linknk/satellite-payments/internal/config"
	"github.com/linknk/satellite-payments/internal/core"
	"github.com/linknk/satellite-payments/internal/port/input"
	"github.com/linknk/satellite-payments/internal/port/output"
)

// PushAcceptedMessage is returned to the customer once the prompt is on their phone
const PushAcceptedMessage = "STK push sent successfully. Please check your phone."

// PaymentServiceImpl implements the PaymentService input port
type PaymentServiceImpl struct {
	cfg      *config.Config
	sessions output.SessionRepository
	gateway  output.PaymentGateway
	events   output.PaymentEvents
	logger   *log.Logger
	now      func() time.Time
}

// Option customizes a PaymentServiceImpl
type Option func(*PaymentServiceImpl)

// WithClock overrides the time source used for provider timestamps
func WithClock(now func() time.Time) Option {
	return func(s *PaymentServiceImpl) {
		s.now = now
	}
}

// NewPaymentService creates a new payment service. events may be nil, in
// which case finalized sessions are not announced.
func NewPaymentService(
	cfg *config.Config,
	sessions output.SessionRepository,
	gateway output.PaymentGateway,
	events output.PaymentEvents,
	logger *log.Logger,
	opts ...Option,
) input.PaymentService {
	s := &PaymentServiceImpl{
		cfg:      cfg,
		sessions: sessions,
		gateway:  gateway,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitiatePayment sends the STK push and records a pending session
func (s *PaymentServiceImpl) InitiatePayment(ctx context.Context, req input.InitiatePaymentRequest) (*input.InitiatePaymentResponse, error) {
	if strings.TrimSpace(req.PhoneNumber) == "" {
		return nil, core.InvalidRequest("phoneNumber is required")
	}
	phone := core.NormalizePhone(req.PhoneNumber)

	amount := int(math.Round(req.Amount))
	if amount <= 0 {
		amount = s.cfg.Bundle.Amount
	}

	creds := s.cfg.Mpesa.Credentials
	if err := creds.Validate(); err != nil {
		s.logger.Errorf("Missing M-Pesa credentials: %v", err)
		return nil, err
	}

	token, err := s.gateway.AccessToken(ctx, creds.ConsumerKey, creds.ConsumerSecret)
	if err != nil {
		return nil, err
	}

	timestamp := core.Timestamp(s.now())
	pushReq := output.STKPushRequest{
		BusinessShortCode: creds.Shortcode,
		Password:          core.Password(creds.Shortcode, creds.Passkey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   output.TransactionTypePayBill,
		Amount:            amount,
		PartyA:            phone,
		PartyB:            creds.Shortcode,
		PhoneNumber:       phone,
		CallBackURL:       s.cfg.CallbackURL(),
		AccountReference:  s.cfg.Mpesa.AccountReference,
		TransactionDesc:   s.cfg.Mpesa.TransactionDesc,
	}
	s.logger.Infof("Sending STK push to %s for %d", phone, amount)

	resp, err := s.gateway.STKPush(ctx, token, pushReq)
	if err != nil {
		return nil, err
	}

	if !resp.Accepted() {
		rejection := &core.ProviderRejectionError{
			Code:    resp.ErrorCode,
			Message: firstNonEmpty(resp.ErrorMessage, resp.ResponseDescription, "STK push failed"),
			Data:    resp.Raw,
		}
		if rejection.Code == "" {
			rejection.Code = resp.ResponseCode
		}
		s.logger.Warnf("STK push rejected: %v", rejection)
		return nil, rejection
	}

	session := &core.PaymentSession{
		ID:                uuid.New(),
		CheckoutRequestID: resp.CheckoutRequestID,
		MerchantRequestID: resp.MerchantRequestID,
		PhoneNumber:       phone,
		Amount:            amount,
		Status:            core.SessionStatusPending,
	}
	// The prompt is already on the customer's phone, so a storage failure
	// must not turn an accepted push into an error response.
	if err := s.sessions.Create(ctx, session); err != nil {
		s.logger.Errorf("Failed to store payment session %s: %v", session.CheckoutRequestID, err)
	}

	return &input.InitiatePaymentResponse{
		Message:           PushAcceptedMessage,
		CheckoutRequestID: resp.CheckoutRequestID,
		MerchantRequestID: resp.MerchantRequestID,
	}, nil
}

// HandleCallback finalizes a session from the provider's callback. The
// returned error is informational; the provider is acknowledged either way.
func (s *PaymentServiceImpl) HandleCallback(ctx context.Context, outcome core.CallbackOutcome) error {
	s.logger.Infof("M-Pesa callback for %s: %d %s", outcome.CheckoutRequestID, outcome.ResultCode, outcome.ResultDesc)

	if outcome.CheckoutRequestID == "" {
		s.logger.Warnf("Callback without CheckoutRequestID ignored")
		return core.InvalidRequest("missing CheckoutRequestID")
	}

	session, err := s.sessions.Finalize(ctx, outcome)
	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		s.logger.Warnf("No payment session for %s", outcome.CheckoutRequestID)
		return err
	case errors.Is(err, core.ErrSessionFinalized):
		s.logger.Warnf("Duplicate callback for finalized session %s ignored", outcome.CheckoutRequestID)
		return err
	case err != nil:
		s.logger.Errorf("Failed to finalize payment session %s: %v", outcome.CheckoutRequestID, err)
		return err
	}

	if s.events != nil {
		if err := s.events.PublishSessionFinalized(ctx, output.NewSessionFinalizedEvent(session)); err != nil {
			s.logger.Errorf("Failed to publish finalized session %s: %v", session.CheckoutRequestID, err)
		}
	}
	return nil
}

// GetStatus returns the current session projection, or not_found
func (s *PaymentServiceImpl) GetStatus(ctx context.Context, checkoutRequestID string) (*input.PaymentStatusResponse, error) {
	if strings.TrimSpace(checkoutRequestID) == "" {
		return nil, core.InvalidRequest("Missing checkoutRequestID")
	}

	session, err := s.sessions.GetByCheckoutRequestID(ctx, checkoutRequestID)
	if errors.Is(err, core.ErrSessionNotFound) {
		return &input.PaymentStatusResponse{Status: core.SessionStatusNotFound}, nil
	}
	if err != nil {
		s.logger.Errorf("Failed to fetch payment session %s: %v", checkoutRequestID, err)
		return nil, fmt.Errorf("failed to fetch payment status: %w", err)
	}

	return &input.PaymentStatusResponse{
		Status:             session.Status,
		MpesaReceiptNumber: session.MpesaReceiptNumber,
		Amount:             session.Amount,
		PhoneNumber:        session.PhoneNumber,
		TransactionDate:    session.TransactionDate,
		ResultDesc:         session.ResultDesc,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
