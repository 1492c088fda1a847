package hold

import (
	"context"
	"errors"
	"sync"

	"github.com/oshokin/sos-button/internal/domain/safety"
)

var (
	errTestAudio    = errors.New("audio backend unavailable")
	errTestLocation = errors.New("location permission denied")
	errTestStore    = errors.New("store unavailable")
)

// fakeSiren counts Start and Stop calls.
type fakeSiren struct {
	mu       sync.Mutex
	startErr error
	starts   int
	stops    int
}

func (s *fakeSiren) Start(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.starts++

	return s.startErr
}

func (s *fakeSiren) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stops++
}

func (s *fakeSiren) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.starts, s.stops
}

// locatorFunc adapts a function to Locator.
type locatorFunc func(ctx context.Context) (safety.Location, error)

func (f locatorFunc) Locate(ctx context.Context) (safety.Location, error) { return f(ctx) }

// fixedLocator always reports the same point.
func fixedLocator(lat, lng float64) Locator {
	return locatorFunc(func(context.Context) (safety.Location, error) {
		return safety.Location{Latitude: lat, Longitude: lng}, nil
	})
}

// fakeReporter records submitted alerts.
type fakeReporter struct {
	mu         sync.Mutex
	raiseErr   error
	listErr    error
	contacts   []*safety.Contact
	alerts     []safety.Location
	listLimits []int
}

func (r *fakeReporter) RaiseAlert(_ context.Context, location safety.Location) (*safety.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.alerts = append(r.alerts, location)
	if r.raiseErr != nil {
		return nil, r.raiseErr
	}

	return &safety.Alert{ID: "alert", Location: location, Status: safety.AlertActive}, nil
}

func (r *fakeReporter) ListContacts(_ context.Context, limit int) ([]*safety.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listLimits = append(r.listLimits, limit)
	if r.listErr != nil {
		return nil, r.listErr
	}

	return r.contacts, nil
}

func (r *fakeReporter) submitted() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.alerts)
}

// fakeNotifier records notified contacts.
type fakeNotifier struct {
	mu       sync.Mutex
	notified [][]*safety.Contact
}

func (n *fakeNotifier) Notify(_ context.Context, _ safety.Location, contacts []*safety.Contact) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.notified = append(n.notified, contacts)

	return nil
}

// recorder collects snapshots and notices emitted by the controller.
type recorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
	notices   []Notice
}

func (r *recorder) onChange(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots = append(r.snapshots, s)
}

func (r *recorder) onNotice(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notices = append(r.notices, n)
}

// phases returns the phase sequence starting from Idle with consecutive duplicates collapsed.
func (r *recorder) phases() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []Phase{Idle}
	for _, s := range r.snapshots {
		if out[len(out)-1] != s.Phase {
			out = append(out, s.Phase)
		}
	}

	return out
}

func (r *recorder) progressWhile(p Phase) []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []int

	for _, s := range r.snapshots {
		if s.Phase == p {
			out = append(out, s.Progress)
		}
	}

	return out
}

func (r *recorder) noticeKinds() []NoticeKind {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]NoticeKind, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Kind)
	}

	return out
}

// harness bundles a controller with its fakes.
type harness struct {
	ctrl     *Controller
	siren    *fakeSiren
	reporter *fakeReporter
	notifier *fakeNotifier
	rec      *recorder
}

func newHarness(locator Locator) *harness {
	h := &harness{
		siren: new(fakeSiren),
		reporter: &fakeReporter{
			contacts: []*safety.Contact{{ID: "c-1", Name: "Asha", PhoneNumber: "+911"}},
		},
		notifier: new(fakeNotifier),
		rec:      new(recorder),
	}

	h.ctrl = New(context.Background(), DefaultConfig(), Dependencies{
		Siren:    h.siren,
		Locator:  locator,
		Reporter: h.reporter,
		Notifier: h.notifier,
		OnChange: h.rec.onChange,
		OnNotice: h.rec.onNotice,
	})

	return h
}

func (r *fakeReporter) limits() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]int(nil), r.listLimits...)
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.notified)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.snapshots)
}

func (r *recorder) notice(i int) Notice {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.notices[i]
}
