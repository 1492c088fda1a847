// Package fakecall presents a simulated incoming call that dismisses itself.
package fakecall

import (
	"sync"
	"time"
)

// DefaultDuration is how long the call screen stays open without interaction.
const DefaultDuration = 10 * time.Second

// CloseReason tells why the call screen closed.
type CloseReason int

const (
	// ClosedManually means the user declined or answered.
	ClosedManually CloseReason = iota
	// ClosedOnTimeout means the auto-dismiss timer fired.
	ClosedOnTimeout
	// ClosedOnTeardown means the owner went away.
	ClosedOnTeardown
)

// String returns the reason name.
func (r CloseReason) String() string {
	switch r {
	case ClosedManually:
		return "manual"
	case ClosedOnTimeout:
		return "timeout"
	case ClosedOnTeardown:
		return "teardown"
	default:
		return "unknown"
	}
}

// Listener observes the call screen. Callbacks run under the presenter lock
// and must not call back into it.
type Listener interface {
	Opened(caller string)
	Closed(reason CloseReason)
}

// Presenter drives one fake call screen.
type Presenter struct {
	caller   string
	duration time.Duration
	listener Listener

	mu     sync.Mutex
	open   bool
	closed bool

	// call is bumped on every close so a late timer callback is ignored.
	call  uint64
	timer *time.Timer
}

// New returns a presenter showing caller for at most duration.
func New(caller string, duration time.Duration, listener Listener) *Presenter {
	if duration <= 0 {
		duration = DefaultDuration
	}

	return &Presenter{
		caller:   caller,
		duration: duration,
		listener: listener,
	}
}

// Open reports whether the call screen is shown.
func (p *Presenter) Open() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.open
}

// Trigger opens the call screen and arms the auto-dismiss timer.
// It returns false when the screen is already open or the presenter is torn down.
func (p *Presenter) Trigger() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.open {
		return false
	}

	p.open = true
	id := p.call
	p.timer = time.AfterFunc(p.duration, func() { p.expire(id) })

	if p.listener != nil {
		p.listener.Opened(p.caller)
	}

	return true
}

// Dismiss closes the call screen and cancels the pending auto-dismiss.
func (p *Presenter) Dismiss() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.closeLocked(ClosedManually)
}

// Teardown closes the screen if open and refuses further triggers.
func (p *Presenter) Teardown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeLocked(ClosedOnTeardown)
	p.closed = true
}

func (p *Presenter) expire(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.call != id {
		return
	}

	p.closeLocked(ClosedOnTimeout)
}

func (p *Presenter) closeLocked(reason CloseReason) bool {
	if !p.open {
		return false
	}

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}

	p.open = false
	p.call++

	if p.listener != nil {
		p.listener.Closed(reason)
	}

	return true
}
