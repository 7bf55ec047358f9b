// Package poller waits for a payment session to reach a terminal state by
// repeatedly querying the status endpoint.
package poller

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/linknk/satellite-payments/internal/core"
)

const (
	DefaultInterval = 3 * time.Second
	DefaultDeadline = 120 * time.Second
)

// Status is one status reading
type Status struct {
	Status             core.SessionStatus `json:"status"`
	MpesaReceiptNumber string             `json:"mpesaReceiptNumber,omitempty"`
	Amount             int                `json:"amount,omitempty"`
	PhoneNumber        string             `json:"phoneNumber,omitempty"`
	TransactionDate    string             `json:"transactionDate,omitempty"`
	ResultDesc         string             `json:"resultDesc,omitempty"`
}

// StatusFetcher performs a single status query
type StatusFetcher interface {
	FetchStatus(ctx context.Context, checkoutRequestID string) (*Status, error)
}

// Result is the outcome of a poll
type Result struct {
	Status   Status
	TimedOut bool
	Requests int
}

// Failed reports whether the payment should be treated as failed
func (r Result) Failed() bool {
	return r.TimedOut || r.Status.Status == core.SessionStatusFailed
}

// Poller queries a StatusFetcher on a fixed interval until a terminal status
// is seen or the deadline passes. No backoff, no jitter.
type Poller struct {
	fetcher  StatusFetcher
	interval time.Duration
	deadline time.Duration
	logger   *log.Logger
}

// New creates a poller with the default 3s interval and 120s deadline
func New(fetcher StatusFetcher, logger *log.Logger) *Poller {
	return &Poller{
		fetcher:  fetcher,
		interval: DefaultInterval,
		deadline: DefaultDeadline,
		logger:   logger,
	}
}

// WithTiming returns a copy of the poller using the given interval and deadline
func (p *Poller) WithTiming(interval, deadline time.Duration) *Poller {
	cp := *p
	cp.interval = interval
	cp.deadline = deadline
	return &cp
}

type reading struct {
	status *Status
	err    error
}

// Poll issues one request immediately and one per interval afterwards. Each
// request runs on its own goroutine, so a slow request never delays the next
// tick. When Poll returns no further requests are started; requests already
// in flight run to completion and their results are discarded.
func (p *Poller) Poll(ctx context.Context, checkoutRequestID string) (Result, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	deadline := time.NewTimer(p.deadline)
	defer deadline.Stop()

	done := make(chan struct{})
	defer close(done)
	readings := make(chan reading)

	// In-flight requests are bound to the caller's context only, not to the
	// poll's lifetime, so stopping the poll never aborts them mid-flight.
	fetchCtx := context.WithoutCancel(ctx)
	requests := 0
	fetch := func() {
		requests++
		go func() {
			status, err := p.fetcher.FetchStatus(fetchCtx, checkoutRequestID)
			select {
			case readings <- reading{status: status, err: err}:
			case <-done:
			}
		}()
	}

	var last Status
	fetch()
	for {
		select {
		case <-ctx.Done():
			return Result{Status: last, Requests: requests}, ctx.Err()
		case <-deadline.C:
			p.logger.Warnf("Payment %s not confirmed after %s", checkoutRequestID, p.deadline)
			last.Status = core.SessionStatusFailed
			return Result{Status: last, TimedOut: true, Requests: requests}, nil
		case <-ticker.C:
			fetch()
		case r := <-readings:
			if r.err != nil {
				p.logger.Errorf("Failed to check payment status: %v", r.err)
				continue
			}
			last = *r.status
			if last.Status.IsTerminal() {
				return Result{Status: last, Requests: requests}, nil
			}
		}
	}
}
