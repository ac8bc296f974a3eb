// Package notify delivers vendor lifecycle events to an external automation
// webhook. Delivery is fire-and-forget: a failed webhook never fails the
// operation that raised the event.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Event actions.
const (
	ActionRegistered = "registered"
	ActionApproved   = "approved"
	ActionDeclined   = "declined"
)

type Event struct {
	VendorID  string    `json:"vendorId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// Dispatcher sends events in the background with a per-event deadline.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
}

func NewDispatcher(notifier Notifier, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if notifier == nil {
		notifier = Nop{}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{notifier: notifier, timeout: timeout, logger: logger}
}

// Dispatch returns immediately. The request context is not used so the send
// outlives the request that raised it.
func (d *Dispatcher) Dispatch(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.notifier.Notify(ctx, event); err != nil {
			d.logger.Warn("webhook delivery failed",
				"action", event.Action,
				"vendor_id", event.VendorID,
				"error", err)
		}
	}()
}

// Wait blocks until every dispatched event has been attempted.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
