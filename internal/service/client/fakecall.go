package client

import (
	"bufio"
	"context"
	"sync"
	"time"

	"github.com/oshokin/sos-button/internal/fakecall"
)

// callScreen prints the fake call and signals when it closes.
type callScreen struct {
	app *App

	once   sync.Once
	closed chan struct{}
}

func (s *callScreen) Opened(caller string) {
	s.app.printf("%s\nIncoming call...\n", caller)
}

func (s *callScreen) Closed(reason fakecall.CloseReason) {
	s.app.printf("Call ended (%s)\n", reason)
	s.once.Do(func() { close(s.closed) })
}

// FakeCall shows a simulated incoming call. It is declined after dismissAfter,
// or when a line is read from the input if dismissAfter is zero; otherwise it
// ends on its own after the configured duration.
func (a *App) FakeCall(ctx context.Context, dismissAfter time.Duration) error {
	screen := &callScreen{app: a, closed: make(chan struct{})}

	presenter := fakecall.New(a.settings.FakeCall.Caller, a.settings.FakeCall.Duration, screen)
	defer presenter.Teardown()

	presenter.Trigger()

	var decline <-chan time.Time

	if dismissAfter > 0 {
		timer := time.NewTimer(dismissAfter)
		defer timer.Stop()

		decline = timer.C
	} else {
		a.println("Press Enter to decline.")

		lines := make(chan time.Time)

		go func() {
			_, _ = bufio.NewReader(a.in).ReadString('\n')

			select {
			case lines <- time.Now():
			case <-screen.closed:
			}
		}()

		decline = lines
	}

	select {
	case <-ctx.Done():
	case <-screen.closed:
	case <-decline:
		presenter.Dismiss()
	}

	return nil
}
