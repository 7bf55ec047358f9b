package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/linknk/satellite-payments/internal/core"
	"github.com/linknk/satellite-payments/internal/port/output"
)

// ActivationProcessor turns successful payments into active bundle subscriptions
type ActivationProcessor struct {
	sessions      output.SessionRepository
	subscriptions output.SubscriptionRepository
	validity      time.Duration
	logger        *log.Logger
	now           func() time.Time
}

// NewActivationProcessor creates a new activation processor
func NewActivationProcessor(
	sessions output.SessionRepository,
	subscriptions output.SubscriptionRepository,
	validity time.Duration,
	logger *log.Logger,
) *ActivationProcessor {
	return &ActivationProcessor{
		sessions:      sessions,
		subscriptions: subscriptions,
		validity:      validity,
		logger:        logger,
		now:           time.Now,
	}
}

// ProcessEvent activates the bundle for a successful session.
// Processing is idempotent: a second event for the same checkout returns
// core.ErrSubscriptionExists and writes nothing.
func (p *ActivationProcessor) ProcessEvent(ctx context.Context, event output.SessionFinalizedEvent) error {
	if event.Status != core.SessionStatusSuccess {
		p.logger.Infof("Session %s finalized as %s, nothing to activate", event.CheckoutRequestID, event.Status)
		return nil
	}

	// The stored row is authoritative, not the event payload
	session, err := p.sessions.GetByCheckoutRequestID(ctx, event.CheckoutRequestID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session.Status != core.SessionStatusSuccess {
		p.logger.Warnf("Session %s is %s, skipping activation", session.CheckoutRequestID, session.Status)
		return nil
	}

	sub := core.NewSubscription(session, p.now(), p.validity)
	if err := p.subscriptions.Activate(ctx, sub); err != nil {
		if errors.Is(err, core.ErrSubscriptionExists) {
			return err
		}
		return fmt.Errorf("failed to activate subscription: %w", err)
	}

	p.logger.Infof("Activated bundle for %s until %s", sub.PhoneNumber, sub.ExpiresAt.Format(time.RFC3339))
	return nil
}

// IsTerminalError reports whether retrying the event cannot succeed
func IsTerminalError(err error) bool {
	return errors.Is(err, core.ErrSessionNotFound) || errors.Is(err, core.ErrSubscriptionExists)
}
