package hold

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/sos-button/internal/domain/safety"
	"github.com/oshokin/sos-button/internal/logger"
)

// Controller is the press-and-hold activation state machine.
type Controller struct {
	cfg  Config
	deps Dependencies

	// ctx scopes activation continuations; cancel is called on Teardown.
	ctx    context.Context
	cancel context.CancelFunc
	// continuations tracks running activation sequences.
	continuations sync.WaitGroup

	mu       sync.Mutex
	phase    Phase
	progress int
	closed   bool
	sirenOn  bool

	// session is bumped whenever armed timers must be invalidated.
	session uint64

	deadline *time.Timer
	ticker   *time.Timer
	windDown *time.Timer
}

// New creates an idle controller. ctx provides the logger and bounds every continuation.
// Zero fields of cfg take their DefaultConfig values.
func New(ctx context.Context, cfg Config, deps Dependencies) *Controller {
	defaults := DefaultConfig()

	if cfg.Dwell <= 0 {
		cfg.Dwell = defaults.Dwell
	}

	if cfg.Tick <= 0 {
		cfg.Tick = defaults.Tick
	}

	if cfg.Step <= 0 || cfg.Step > 100 {
		cfg.Step = defaults.Step
	}

	if cfg.Display <= 0 {
		cfg.Display = defaults.Display
	}

	if cfg.ContactLimit <= 0 {
		cfg.ContactLimit = defaults.ContactLimit
	}

	ctx, cancel := context.WithCancel(logger.WithName(ctx, "hold"))

	return &Controller{
		cfg:    cfg,
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked()
}

// Start begins a session when the control is idle and reports whether it did.
// While holding or activated it does nothing, so timers are never duplicated.
func (c *Controller) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.phase != Idle {
		return false
	}

	c.session++
	id := c.session

	c.phase = Holding
	c.progress = 0
	c.deadline = time.AfterFunc(c.cfg.Dwell, func() { c.expire(id) })
	c.ticker = time.AfterFunc(c.cfg.Tick, func() { c.advance(id) })

	logger.DebugKV(c.ctx, "Hold started", "session", id)
	c.emitLocked()

	return true
}

// End cancels a session that is still holding and reports whether it did.
// The deadline can no longer activate once End returns.
func (c *Controller) End() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Holding {
		return false
	}

	c.stopTimersLocked()
	c.session++
	c.phase = Idle
	c.progress = 0

	logger.DebugKV(c.ctx, "Hold released before activation")
	c.emitLocked()

	return true
}

// Teardown stops every timer, silences the siren and waits for running
// continuations to observe cancellation. It is safe to call more than once.
func (c *Controller) Teardown() {
	c.mu.Lock()

	if !c.closed {
		c.closed = true
		c.stopTimersLocked()
		c.stopSirenLocked()
		c.session++
		c.phase = Idle
		c.progress = 0
		c.cancel()
	}

	c.mu.Unlock()

	c.continuations.Wait()
}

// advance applies one progress step and re-arms the driver until 100% is reached.
func (c *Controller) advance(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != id || c.phase != Holding {
		return
	}

	c.progress = min(c.progress+c.cfg.Step, 100)
	c.emitLocked()

	if c.progress >= 100 {
		c.ticker = nil
		return
	}

	c.ticker = time.AfterFunc(c.cfg.Tick, func() { c.advance(id) })
}

// expire runs when the dwell duration elapsed without release.
func (c *Controller) expire(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.session != id || c.phase != Holding {
		return
	}

	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}

	c.deadline = nil
	c.phase = Activated

	logger.InfoKV(c.ctx, "SOS activated", "session", id)
	c.emitLocked()

	c.startSirenLocked()

	c.windDown = time.AfterFunc(c.cfg.Display, func() { c.finish(id) })

	c.continuations.Add(1)

	go c.report(c.ctx, id)
}

// finish ends the activated display window.
func (c *Controller) finish(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != id || c.phase != Activated {
		return
	}

	c.windDown = nil
	c.stopSirenLocked()
	c.phase = Idle
	c.progress = 0

	logger.DebugKV(c.ctx, "SOS display finished", "session", id)
	c.emitLocked()
}

// report locates the device, submits the alert and notifies contacts.
// Location failure silently drops the alert; other failures become notices.
func (c *Controller) report(ctx context.Context, id uint64) {
	defer c.continuations.Done()

	ctx = logger.WithKV(ctx, "session", id)

	if c.deps.Locator == nil {
		logger.WarnKV(ctx, "No locator configured, alert not recorded")
		return
	}

	location, err := c.deps.Locator.Locate(ctx)
	if err != nil {
		logger.WarnKV(ctx, "Location unavailable, alert not recorded", "error", err)
		return
	}

	if !c.alive() {
		logger.DebugKV(ctx, "Control torn down, dropping location result")
		return
	}

	var contacts []*safety.Contact

	if reporter := c.deps.Reporter; reporter != nil {
		if _, err = reporter.RaiseAlert(ctx, location); err != nil {
			logger.ErrorKV(ctx, "Failed to submit alert", "error", err)
			c.notice(Notice{
				Kind:    NoticeFailed,
				Title:   "Error",
				Message: "SOS alert could not be saved",
				Err:     err,
			})
		}

		contacts, err = reporter.ListContacts(ctx, c.cfg.ContactLimit)
		if err != nil {
			logger.ErrorKV(ctx, "Failed to fetch emergency contacts", "error", err)
			c.notice(Notice{
				Kind:    NoticeFailed,
				Title:   "Error",
				Message: "Emergency contacts could not be loaded",
				Err:     err,
			})
		}
	}

	c.notice(Notice{
		Kind:  NoticeActivated,
		Title: "SOS ACTIVATED",
		Message: fmt.Sprintf(
			"Emergency contacts notified. Location: %.4f, %.4f",
			location.Latitude,
			location.Longitude,
		),
	})

	if c.deps.Notifier == nil || len(contacts) == 0 {
		return
	}

	if err = c.deps.Notifier.Notify(ctx, location, contacts); err != nil {
		logger.WarnKV(ctx, "Failed to notify contacts", "error", err)
	}
}

// alive reports whether the control has not been torn down.
func (c *Controller) alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return !c.closed
}

// notice delivers n unless the control was torn down.
func (c *Controller) notice(n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.deps.OnNotice == nil {
		return
	}

	c.deps.OnNotice(n)
}

// startSirenLocked starts the siren; failures are logged and ignored.
func (c *Controller) startSirenLocked() {
	if c.deps.Siren == nil || c.sirenOn {
		return
	}

	if err := c.deps.Siren.Start(c.ctx); err != nil {
		logger.WarnKV(c.ctx, "Siren playback failed", "error", err)
		return
	}

	c.sirenOn = true
}

// stopSirenLocked stops the siren if it is playing.
func (c *Controller) stopSirenLocked() {
	if !c.sirenOn {
		return
	}

	c.deps.Siren.Stop()
	c.sirenOn = false
}

// stopTimersLocked stops and forgets every armed timer.
func (c *Controller) stopTimersLocked() {
	for _, timer := range []**time.Timer{&c.deadline, &c.ticker, &c.windDown} {
		if *timer != nil {
			(*timer).Stop()
			*timer = nil
		}
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{Phase: c.phase, Progress: c.progress}
}

func (c *Controller) emitLocked() {
	if c.deps.OnChange != nil {
		c.deps.OnChange(c.snapshotLocked())
	}
}
