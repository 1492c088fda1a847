package server

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/sos-button/internal/domain/safety"
	repo "github.com/oshokin/sos-button/internal/repository/safety"
)

var errTestStore = errors.New("test store error")

// memoryRepository is a minimal in-memory Repository implementation for tests.
type memoryRepository struct {
	mu       sync.Mutex
	alerts   []*domain.Alert
	contacts []*domain.Contact
	profiles map[string]*domain.Profile
	// failWith makes every write return this error.
	failWith error
	seq      int
}

func (m *memoryRepository) nextID(prefix string) string {
	m.seq++

	return prefix + "-" + string(rune('0'+m.seq))
}

func (m *memoryRepository) InsertAlert(_ context.Context, alert *domain.Alert) (*domain.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	stored := alert.Clone()
	stored.ID = m.nextID("alert")
	m.alerts = append(m.alerts, stored)

	return stored.Clone(), nil
}

func (m *memoryRepository) GetAlert(_ context.Context, userID, id string) (*domain.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, alert := range m.alerts {
		if alert.UserID == userID && alert.ID == id {
			return alert.Clone(), nil
		}
	}

	return nil, repo.ErrNotFound
}

func (m *memoryRepository) ResolveAlert(_ context.Context, userID, id string, at time.Time) (*domain.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, alert := range m.alerts {
		if alert.UserID == userID && alert.ID == id {
			if alert.Status == domain.AlertActive {
				alert.Status = domain.AlertResolved
				alert.ResolvedAt = at
			}

			return alert.Clone(), nil
		}
	}

	return nil, repo.ErrNotFound
}

func (m *memoryRepository) ListAlerts(_ context.Context, userID string) ([]*domain.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var alerts []*domain.Alert

	for i := len(m.alerts) - 1; i >= 0; i-- {
		if m.alerts[i].UserID == userID {
			alerts = append(alerts, m.alerts[i].Clone())
		}
	}

	return alerts, nil
}

func (m *memoryRepository) InsertContact(
	_ context.Context,
	contact *domain.Contact,
	limit int,
) (*domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	if limit > 0 && m.countLocked(contact.UserID) >= limit {
		return nil, repo.ErrContactLimit
	}

	stored := contact.Clone()
	stored.ID = m.nextID("contact")
	m.contacts = append(m.contacts, stored)

	return stored.Clone(), nil
}

func (m *memoryRepository) ListContacts(_ context.Context, userID string, limit int) ([]*domain.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var contacts []*domain.Contact

	for _, c := range m.contacts {
		if c.UserID == userID {
			contacts = append(contacts, c.Clone())
		}
	}

	sort.SliceStable(contacts, func(i, j int) bool { return contacts[i].CreatedAt.Before(contacts[j].CreatedAt) })

	if limit > 0 && len(contacts) > limit {
		contacts = contacts[:limit]
	}

	return contacts, nil
}

func (m *memoryRepository) CountContacts(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.countLocked(userID), nil
}

func (m *memoryRepository) countLocked(userID string) int {
	var count int

	for _, c := range m.contacts {
		if c.UserID == userID {
			count++
		}
	}

	return count
}

func (m *memoryRepository) DeleteContact(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.contacts {
		if c.UserID == userID && c.ID == id {
			m.contacts = append(m.contacts[:i], m.contacts[i+1:]...)
			return nil
		}
	}

	return repo.ErrNotFound
}

func (m *memoryRepository) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profile, ok := m.profiles[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}

	return profile.Clone(), nil
}

func (m *memoryRepository) UpsertProfile(_ context.Context, profile *domain.Profile) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return nil, m.failWith
	}

	if m.profiles == nil {
		m.profiles = make(map[string]*domain.Profile)
	}

	m.profiles[profile.ID] = profile.Clone()

	return profile.Clone(), nil
}

// newTestService returns a service with a clock advancing one second per call.
func newTestService(r repo.Repository) *service {
	s := newService(r)

	var (
		mu  sync.Mutex
		now = time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)
	)

	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()

		now = now.Add(time.Second)

		return now
	}

	return s
}

// TestService_RequiresUser rejects every operation without a user id.
func TestService_RequiresUser(t *testing.T) {
	t.Parallel()

	var (
		s   = newTestService(new(memoryRepository))
		ctx = context.Background()
	)

	_, err := s.RaiseAlert(ctx, "", domain.Location{})
	require.ErrorIs(t, err, domain.ErrUserRequired)

	_, err = s.ListContacts(ctx, " ", 0)
	require.ErrorIs(t, err, domain.ErrUserRequired)

	_, err = s.GetProfile(ctx, "")
	require.ErrorIs(t, err, domain.ErrUserRequired)

	require.ErrorIs(t, s.DeleteContact(ctx, "", "c-1"), domain.ErrUserRequired)
}

// TestService_AlertLifecycle raises, lists and resolves an alert.
func TestService_AlertLifecycle(t *testing.T) {
	t.Parallel()

	var (
		s   = newTestService(new(memoryRepository))
		ctx = context.Background()
		loc = domain.Location{Latitude: 28.6139, Longitude: 77.209}
	)

	_, err := s.RaiseAlert(ctx, "u-1", domain.Location{Latitude: 91})
	require.ErrorIs(t, err, domain.ErrInvalidLocation)

	alert, err := s.RaiseAlert(ctx, "u-1", loc)
	require.NoError(t, err)
	require.Equal(t, domain.AlertActive, alert.Status)
	require.Equal(t, loc, alert.Location)
	require.False(t, alert.CreatedAt.IsZero())

	alerts, err := s.ListAlerts(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	resolved, err := s.ResolveAlert(ctx, "u-1", alert.ID)
	require.NoError(t, err)
	require.Equal(t, domain.AlertResolved, resolved.Status)
	require.True(t, resolved.ResolvedAt.After(alert.CreatedAt))

	again, err := s.ResolveAlert(ctx, "u-1", alert.ID)
	require.NoError(t, err)
	require.Equal(t, resolved.ResolvedAt, again.ResolvedAt)

	_, err = s.ResolveAlert(ctx, "u-2", alert.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// TestService_AddContact validates fields and enforces the contact limit.
func TestService_AddContact(t *testing.T) {
	t.Parallel()

	var (
		s   = newTestService(new(memoryRepository))
		ctx = context.Background()
	)

	_, err := s.AddContact(ctx, "u-1", &domain.Contact{Name: "  ", PhoneNumber: "+91"})
	require.ErrorIs(t, err, domain.ErrContactIncomplete)

	_, err = s.AddContact(ctx, "u-1", nil)
	require.ErrorIs(t, err, domain.ErrContactIncomplete)

	for _, name := range []string{"Asha", "Meera", "Ravi"} {
		contact, err := s.AddContact(ctx, "u-1", &domain.Contact{
			UserID:      "spoofed",
			Name:        " " + name + " ",
			PhoneNumber: "+911234",
		})
		require.NoError(t, err)
		require.Equal(t, name, contact.Name)
		require.Equal(t, "u-1", contact.UserID)
	}

	_, err = s.AddContact(ctx, "u-1", &domain.Contact{Name: "Extra", PhoneNumber: "+91"})
	require.ErrorIs(t, err, domain.ErrContactLimit)
	require.EqualError(t, errors.Unwrap(err), "you can only add 3 emergency contacts")

	contacts, err := s.ListContacts(ctx, "u-1", 2)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	require.Equal(t, "Asha", contacts[0].Name)

	require.NoError(t, s.DeleteContact(ctx, "u-1", contacts[0].ID))
	require.ErrorIs(t, s.DeleteContact(ctx, "u-1", contacts[0].ID), domain.ErrNotFound)

	_, err = s.AddContact(ctx, "u-1", &domain.Contact{Name: "Extra", PhoneNumber: "+91"})
	require.NoError(t, err)
}

// TestService_Profile returns an empty profile until one is stored.
func TestService_Profile(t *testing.T) {
	t.Parallel()

	var (
		s   = newTestService(new(memoryRepository))
		ctx = context.Background()
	)

	profile, err := s.GetProfile(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, &domain.Profile{ID: "u-1"}, profile)

	updated, err := s.UpdateProfile(ctx, "u-1", &domain.Profile{ID: "other", FullName: " Asha Rao ", PhoneNumber: "+911"})
	require.NoError(t, err)
	require.Equal(t, "u-1", updated.ID)
	require.Equal(t, "Asha Rao", updated.FullName)

	profile, err = s.GetProfile(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, updated, profile)
}

// TestService_StoreFailure wraps repository errors.
func TestService_StoreFailure(t *testing.T) {
	t.Parallel()

	s := newTestService(&memoryRepository{failWith: errTestStore})

	_, err := s.RaiseAlert(context.Background(), "u-1", domain.Location{})
	require.ErrorIs(t, err, errTestStore)

	_, err = s.UpdateProfile(context.Background(), "u-1", nil)
	require.ErrorIs(t, err, errTestStore)
}
