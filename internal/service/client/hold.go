package client

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oshokin/sos-button/internal/hold"
	"github.com/oshokin/sos-button/internal/logger"
	"github.com/oshokin/sos-button/internal/session"
)

// progressWidth is the number of cells in the progress bar.
const progressWidth = 20

// Hold simulates pressing the SOS button. The press is released after holdFor,
// or when a line is read from the input if holdFor is zero. Once activated it
// waits for the activation window to end.
func (a *App) Hold(ctx context.Context, holdFor time.Duration) error {
	ctx = logger.WithName(ctx, "hold")

	unsubscribe := a.sessions.Subscribe(func(s *session.Session) {
		if s == nil {
			logger.WarnKV(ctx, "Signed out, alerts will not be recorded")
			return
		}

		logger.DebugKV(ctx, "Session active", "user_id", s.UserID)
	})
	defer unsubscribe()

	var (
		activated bool
		done      = make(chan struct{})
		doneOnce  sync.Once
	)

	controller := hold.New(ctx, a.holdConfig(), hold.Dependencies{
		Siren:    a.siren,
		Locator:  a.locator,
		Reporter: a.backend,
		Notifier: a.notifier,
		// Callbacks run one at a time under the controller lock.
		OnChange: func(s hold.Snapshot) {
			a.printf("\r%s", renderProgress(s))

			switch s.Phase {
			case hold.Activated:
				activated = true
			case hold.Idle:
				if activated {
					a.println()
					doneOnce.Do(func() { close(done) })
				}
			default:
			}
		},
		OnNotice: func(n hold.Notice) {
			a.printf("\n%s: %s\n", n.Title, n.Message)
		},
	})
	defer controller.Teardown()

	a.println("Holding SOS button...")
	controller.Start()

	select {
	case <-ctx.Done():
		return nil
	case <-a.released(holdFor):
	}

	if controller.End() {
		a.println("\nReleased before activation, no alert sent.")
		return nil
	}

	select {
	case <-ctx.Done():
	case <-done:
	}

	return nil
}

// released returns a channel closed when the simulated press ends.
func (a *App) released(holdFor time.Duration) <-chan struct{} {
	ch := make(chan struct{})

	if holdFor > 0 {
		time.AfterFunc(holdFor, func() { close(ch) })
		return ch
	}

	a.println("Press Enter to release.")

	go func() {
		_, _ = bufio.NewReader(a.in).ReadString('\n')
		close(ch)
	}()

	return ch
}

func (a *App) holdConfig() hold.Config {
	h := a.settings.Hold

	return hold.Config{
		Dwell:        h.Dwell,
		Tick:         h.Tick,
		Step:         h.Step,
		Display:      h.Display,
		ContactLimit: h.ContactLimit,
	}
}

// renderProgress draws the control state as a one-line bar.
func renderProgress(s hold.Snapshot) string {
	filled := s.Progress * progressWidth / 100

	label := "SOS"

	switch s.Phase {
	case hold.Holding:
		label = "HOLD..."
	case hold.Activated:
		label = "ACTIVE"
	default:
	}

	return fmt.Sprintf("[%s%s] %3d%% %s",
		strings.Repeat("#", filled),
		strings.Repeat("-", progressWidth-filled),
		s.Progress,
		label,
	)
}
