package fakecall

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

// event is one listener callback.
type event struct {
	at     time.Duration
	opened bool
	reason CloseReason
}

// recordingListener stores callbacks with their offset from start.
type recordingListener struct {
	mu     sync.Mutex
	start  time.Time
	events []event
}

func (l *recordingListener) Opened(string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, event{at: time.Since(l.start), opened: true})
}

func (l *recordingListener) Closed(reason CloseReason) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, event{at: time.Since(l.start), reason: reason})
}

func (l *recordingListener) snapshot() []event {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]event(nil), l.events...)
}

// TestPresenter_ManualDismiss closes at 3000ms and no dismiss fires at 10000ms.
func TestPresenter_ManualDismiss(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		l := &recordingListener{start: time.Now()}
		p := New("Raj", 10*time.Second, l)

		require.True(t, p.Trigger())
		require.True(t, p.Open())

		time.Sleep(3 * time.Second)
		require.True(t, p.Dismiss())
		require.False(t, p.Open())

		time.Sleep(20 * time.Second)
		synctest.Wait()

		require.Equal(t, []event{
			{at: 0, opened: true},
			{at: 3 * time.Second, reason: ClosedManually},
		}, l.snapshot())

		// A second dismiss is a no-op.
		require.False(t, p.Dismiss())
	})
}

// TestPresenter_AutoDismiss closes the screen after the configured duration.
func TestPresenter_AutoDismiss(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		l := &recordingListener{start: time.Now()}
		p := New("Raj", 0, l)

		p.Trigger()

		// Triggering while open changes nothing.
		time.Sleep(time.Second)
		require.False(t, p.Trigger())

		time.Sleep(10 * time.Second)
		synctest.Wait()

		require.False(t, p.Open())
		require.Equal(t, []event{
			{at: 0, opened: true},
			{at: DefaultDuration, reason: ClosedOnTimeout},
		}, l.snapshot())

		// The screen can be shown again afterwards.
		require.True(t, p.Trigger())
		p.Teardown()
		require.False(t, p.Trigger())
	})
}

// TestPresenter_TeardownCancelsTimer ensures the auto-dismiss never fires after teardown.
func TestPresenter_TeardownCancelsTimer(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		l := &recordingListener{start: time.Now()}
		p := New("Raj", 10*time.Second, l)

		p.Trigger()
		time.Sleep(time.Second)
		p.Teardown()

		time.Sleep(time.Minute)
		synctest.Wait()

		events := l.snapshot()
		require.Len(t, events, 2)
		require.Equal(t, ClosedOnTeardown, events[1].reason)
		require.Equal(t, "teardown", ClosedOnTeardown.String())
	})
}
