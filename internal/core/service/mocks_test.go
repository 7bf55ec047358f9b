package service

import (
	"context"
	"sync"

	"github.com/linknk/satellite-payments/internal/core"
	"github.com/linknk/satellite-payments/internal/port/output"
)

// MockSessionRepository implements output.SessionRepository for testing
type MockSessionRepository struct {
	CreateFunc   func(ctx context.Context, session *core.PaymentSession) error
	GetFunc      func(ctx context.Context, checkoutRequestID string) (*core.PaymentSession, error)
	FinalizeFunc func(ctx context.Context, outcome core.CallbackOutcome) (*core.PaymentSession, error)

	mu      sync.Mutex
	created []*core.PaymentSession
}

func (m *MockSessionRepository) Create(ctx context.Context, session *core.PaymentSession) error {
	m.mu.Lock()
	m.created = append(m.created, session)
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*core.PaymentSession, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, checkoutRequestID)
	}
	return nil, core.ErrSessionNotFound
}

func (m *MockSessionRepository) Finalize(ctx context.Context, outcome core.CallbackOutcome) (*core.PaymentSession, error) {
	if m.FinalizeFunc != nil {
		return m.FinalizeFunc(ctx, outcome)
	}
	return nil, core.ErrSessionNotFound
}

func (m *MockSessionRepository) Created() []*core.PaymentSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*core.PaymentSession(nil), m.created...)
}

// MockGateway implements output.PaymentGateway for testing
type MockGateway struct {
	AccessTokenFunc func(ctx context.Context, key, secret string) (string, error)
	STKPushFunc     func(ctx context.Context, token string, req output.STKPushRequest) (*output.STKPushResponse, error)

	TokenCalls int
	PushCalls  int
	LastPush   output.STKPushRequest
}

func (m *MockGateway) AccessToken(ctx context.Context, key, secret string) (string, error) {
	m.TokenCalls++
	if m.AccessTokenFunc != nil {
		return m.AccessTokenFunc(ctx, key, secret)
	}
	return "token", nil
}

func (m *MockGateway) STKPush(ctx context.Context, token string, req output.STKPushRequest) (*output.STKPushResponse, error) {
	m.PushCalls++
	m.LastPush = req
	if m.STKPushFunc != nil {
		return m.STKPushFunc(ctx, token, req)
	}
	return &output.STKPushResponse{
		MerchantRequestID: "29115-34620561-1",
		CheckoutRequestID: "ws_CO_191220191020363925",
		ResponseCode:      "0",
	}, nil
}

// MockEvents implements output.PaymentEvents for testing
type MockEvents struct {
	PublishFunc func(ctx context.Context, event output.SessionFinalizedEvent) error
	Published   []output.SessionFinalizedEvent
}

func (m *MockEvents) PublishSessionFinalized(ctx context.Context, event output.SessionFinalizedEvent) error {
	m.Published = append(m.Published, event)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, event)
	}
	return nil
}

func (m *MockEvents) Close() error { return nil }

// MockSubscriptionRepository implements output.SubscriptionRepository for testing
type MockSubscriptionRepository struct {
	ActivateFunc func(ctx context.Context, sub *core.Subscription) error
	Activated    []*core.Subscription
}

func (m *MockSubscriptionRepository) Activate(ctx context.Context, sub *core.Subscription) error {
	if m.ActivateFunc != nil {
		if err := m.ActivateFunc(ctx, sub); err != nil {
			return err
		}
	}
	m.Activated = append(m.Activated, sub)
	return nil
}
