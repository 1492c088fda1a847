package hold

import (
	"context"
	"fmt"
	"time"

	"github.com/oshokin/sos-button/internal/domain/safety"
)

// Phase is the state of the activation session.
type Phase int

const (
	// Idle means no gesture is in progress.
	Idle Phase = iota
	// Holding means the gesture is held and the countdown is running.
	Holding
	// Activated means the countdown completed and the alert sequence ran.
	Activated
)

// String returns the lower-case phase name.
func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Holding:
		return "holding"
	case Activated:
		return "activated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Snapshot is the observable state of the control.
type Snapshot struct {
	Phase Phase
	// Progress is the reached share of the dwell duration, in percent.
	Progress int
}

// Ratio returns Progress as a fraction in [0,1].
func (s Snapshot) Ratio() float64 {
	return float64(s.Progress) / 100
}

// NoticeKind classifies user-facing notices.
type NoticeKind int

const (
	// NoticeActivated reports a completed activation.
	NoticeActivated NoticeKind = iota
	// NoticeFailed reports a non-fatal failure of an external call.
	NoticeFailed
)

// Notice is a user-visible, non-fatal message produced by the activation sequence.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
	Err     error
}

// Config holds the control timings.
type Config struct {
	// Dwell is how long the gesture must be held.
	Dwell time.Duration
	// Tick is the progress update interval.
	Tick time.Duration
	// Step is the progress increment per tick, in percent.
	Step int
	// Display is how long the activated phase lasts before returning to idle.
	Display time.Duration
	// ContactLimit caps the contacts fetched for notification.
	ContactLimit int
}

// DefaultConfig returns the design timings: 5s dwell, +2% every 100ms, 10s display, 3 contacts.
func DefaultConfig() Config {
	return Config{
		Dwell:        5 * time.Second,
		Tick:         100 * time.Millisecond,
		Step:         2,
		Display:      10 * time.Second,
		ContactLimit: 3,
	}
}

// Siren is the audible alert signal. Start and Stop must not block.
type Siren interface {
	Start(ctx context.Context) error
	Stop()
}

// Locator performs a single-shot location request.
type Locator interface {
	Locate(ctx context.Context) (safety.Location, error)
}

// Reporter submits alerts and reads contacts from the safety service.
type Reporter interface {
	RaiseAlert(ctx context.Context, location safety.Location) (*safety.Alert, error)
	ListContacts(ctx context.Context, limit int) ([]*safety.Contact, error)
}

// Notifier informs contacts about an activation.
type Notifier interface {
	Notify(ctx context.Context, location safety.Location, contacts []*safety.Contact) error
}

// Dependencies are the collaborators of the activation sequence. Nil members are skipped.
type Dependencies struct {
	Siren    Siren
	Locator  Locator
	Reporter Reporter
	Notifier Notifier

	// OnChange receives a snapshot after every state change.
	// It runs while the control is locked and must not call back into it.
	OnChange func(Snapshot)
	// OnNotice receives user-facing notices. Same locking rules as OnChange.
	OnNotice func(Notice)
}
