// Package rendezvous implements the single-slot capture rendezvous between
// desk clients and signature pads. For every pad at most one desk request
// waits at a time; a device-side resolution, a timeout, or a newer waiter
// releases it.
package rendezvous

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Status is the terminal state of one wait.
type Status string

const (
	// StatusOK means a signed capture arrived while the desk was waiting.
	StatusOK Status = "ok"
	// StatusCancel means the pad reported cancellation or the desk client
	// went away before a result arrived.
	StatusCancel Status = "cancel"
	// StatusTimeout means the wait deadline passed without a result.
	StatusTimeout Status = "timeout"
	// StatusSuperseded means a newer wait request for the same pad
	// replaced this one.
	StatusSuperseded Status = "superseded"
	// StatusError means the wait was aborted by the server, e.g. during
	// shutdown.
	StatusError Status = "error"
)

// CaptureResult carries the outcome of a completed capture: a reference to
// the stored envelope record, the signature image for immediate display,
// and the capture metadata.
type CaptureResult struct {
	EnvelopeRecordID string `json:"envelopeRecordId"`
	SigPNG           string `json:"sigpng,omitempty"`
	Customer         string `json:"customer,omitempty"`
	Name             string `json:"name,omitempty"`
	Mail             string `json:"mail,omitempty"`
	IssueType        string `json:"issuetype,omitempty"`
}

// Outcome is delivered to exactly one waiter per wait.
type Outcome struct {
	Status Status         `json:"status"`
	Result *CaptureResult `json:"result,omitempty"`
}

// slot is one pending wait. The channel is buffered so the resolving side
// never blocks; resolved guards against double delivery.
type slot struct {
	ch       chan Outcome
	timer    *time.Timer
	resolved bool
}

// Broker manages one rendezvous slot per pad UUID.
//
// All state transitions happen under the broker mutex; each slot receives
// exactly one outcome, sent after the slot is marked resolved and removed
// from the map.
type Broker struct {
	mu      sync.Mutex
	slots   map[string]*slot
	timeout time.Duration
	logger  *slog.Logger

	// onTimeout, when set, runs outside the lock after a slot expires.
	// Used to push a best-effort hide event to the pad.
	onTimeout func(padUUID string)

	closed bool
}

// Option configures a Broker.
type Option func(*Broker)

// WithTimeoutHook registers a callback invoked when a wait times out.
func WithTimeoutHook(hook func(padUUID string)) Option {
	return func(b *Broker) { b.onTimeout = hook }
}

// NewBroker creates a broker with the given per-wait timeout.
func NewBroker(timeout time.Duration, logger *slog.Logger, opts ...Option) *Broker {
	b := &Broker{
		slots:   make(map[string]*slot),
		timeout: timeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Wait blocks until the slot for padUUID is resolved, the timeout passes,
// or ctx is done. A wait already pending for the same pad is released with
// StatusSuperseded before the new one takes the slot.
func (b *Broker) Wait(ctx context.Context, padUUID string) Outcome {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Outcome{Status: StatusError}
	}

	if old, ok := b.slots[padUUID]; ok {
		b.resolveLocked(padUUID, old, Outcome{Status: StatusSuperseded})
	}

	s := &slot{ch: make(chan Outcome, 1)}
	s.timer = time.AfterFunc(b.timeout, func() { b.expire(padUUID, s) })
	b.slots[padUUID] = s
	b.mu.Unlock()

	select {
	case outcome := <-s.ch:
		return outcome
	case <-ctx.Done():
		b.mu.Lock()
		b.resolveLocked(padUUID, s, Outcome{Status: StatusCancel})
		b.mu.Unlock()
		// The slot is resolved by now, either just above or concurrently
		// by another party; exactly one outcome is in the channel.
		return <-s.ch
	}
}

// Resolve delivers an outcome to the pending wait for padUUID. Returns
// false when no wait is pending.
func (b *Broker) Resolve(padUUID string, outcome Outcome) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.slots[padUUID]
	if !ok {
		return false
	}
	b.resolveLocked(padUUID, s, outcome)
	return true
}

// Pending reports whether a wait is pending for padUUID.
func (b *Broker) Pending(padUUID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.slots[padUUID]
	return ok
}

// Close releases every pending wait with StatusError and rejects new ones.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	for padUUID, s := range b.slots {
		b.resolveLocked(padUUID, s, Outcome{Status: StatusError})
	}
}

// expire resolves a slot with StatusTimeout if it is still the pending one.
// The best-effort hide push goes out before the waiter is released; the hook
// runs outside the lock because it may block on a connection write.
func (b *Broker) expire(padUUID string, s *slot) {
	b.mu.Lock()
	pending := b.slots[padUUID] == s && !s.resolved
	b.mu.Unlock()
	if !pending {
		return
	}

	if b.onTimeout != nil {
		b.onTimeout(padUUID)
	}

	b.mu.Lock()
	if b.slots[padUUID] != s || s.resolved {
		b.mu.Unlock()
		return
	}
	b.resolveLocked(padUUID, s, Outcome{Status: StatusTimeout})
	b.mu.Unlock()

	if b.logger != nil {
		b.logger.Debug("wait timed out", slog.String("pad_uuid", padUUID))
	}
}

// resolveLocked marks s resolved, detaches it, and delivers the outcome.
// Callers hold the broker mutex. The send cannot block: the channel has
// capacity one and resolved guarantees a single sender.
func (b *Broker) resolveLocked(padUUID string, s *slot, outcome Outcome) {
	if s.resolved {
		return
	}
	s.resolved = true
	if s.timer != nil {
		s.timer.Stop()
	}
	if b.slots[padUUID] == s {
		delete(b.slots, padUUID)
	}
	s.ch <- outcome
}
