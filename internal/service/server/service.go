package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/oshokin/sos-button/internal/domain/safety"
	"github.com/oshokin/sos-button/internal/logger"
	repo "github.com/oshokin/sos-button/internal/repository/safety"
)

// service applies the safety rules on top of the repository.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// repo handles persistent storage of alerts, contacts and profiles.
	repo repo.Repository
	// now returns the current time; replaced in tests.
	now func() time.Time
}

// newService creates a service backed by the provided repository.
func newService(repository repo.Repository) *service {
	return &service{
		repo: repository,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// RaiseAlert records an active alert at the given location.
func (s *service) RaiseAlert(ctx context.Context, userID string, location domain.Location) (*domain.Alert, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	if err := location.Validate(); err != nil {
		return nil, err
	}

	alert, err := s.repo.InsertAlert(ctx, &domain.Alert{
		UserID:    userID,
		Location:  location,
		Status:    domain.AlertActive,
		CreatedAt: s.now(),
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to persist alert: %v", err)

		return nil, fmt.Errorf("persist alert: %w", err)
	}

	logger.InfoKV(ctx, "SOS alert raised",
		"user_id", userID,
		"alert_id", alert.ID,
		"latitude", location.Latitude,
		"longitude", location.Longitude,
	)

	return alert, nil
}

// ResolveAlert marks the alert resolved. Resolving twice returns the alert unchanged.
func (s *service) ResolveAlert(ctx context.Context, userID, alertID string) (*domain.Alert, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	alert, err := s.repo.ResolveAlert(ctx, userID, alertID, s.now())
	if err != nil {
		return nil, translate(err, "resolve alert")
	}

	logger.InfoKV(ctx, "SOS alert resolved", "user_id", userID, "alert_id", alert.ID)

	return alert, nil
}

// ListAlerts returns the user's alerts, newest first.
func (s *service) ListAlerts(ctx context.Context, userID string) ([]*domain.Alert, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	alerts, err := s.repo.ListAlerts(ctx, userID)
	if err != nil {
		return nil, translate(err, "list alerts")
	}

	return alerts, nil
}

// AddContact validates and stores a new emergency contact.
func (s *service) AddContact(ctx context.Context, userID string, contact *domain.Contact) (*domain.Contact, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	if contact == nil {
		return nil, domain.ErrContactIncomplete
	}

	candidate := contact.Clone()
	candidate.Normalize()

	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	candidate.ID = ""
	candidate.UserID = userID
	candidate.CreatedAt = s.now()

	stored, err := s.repo.InsertContact(ctx, candidate, domain.MaxContacts)
	if err != nil {
		return nil, translate(err, "add contact")
	}

	logger.InfoKV(ctx, "Emergency contact added", "user_id", userID, "contact_id", stored.ID)

	return stored, nil
}

// ListContacts returns the user's contacts in creation order. A positive limit caps the result.
func (s *service) ListContacts(ctx context.Context, userID string, limit int) ([]*domain.Contact, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	contacts, err := s.repo.ListContacts(ctx, userID, limit)
	if err != nil {
		return nil, translate(err, "list contacts")
	}

	return contacts, nil
}

// DeleteContact removes one of the user's contacts.
func (s *service) DeleteContact(ctx context.Context, userID, contactID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := s.repo.DeleteContact(ctx, userID, contactID); err != nil {
		return translate(err, "delete contact")
	}

	logger.InfoKV(ctx, "Emergency contact deleted", "user_id", userID, "contact_id", contactID)

	return nil
}

// GetProfile returns the user's profile; a user without one gets an empty profile.
func (s *service) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return &domain.Profile{ID: userID}, nil
	}

	if err != nil {
		return nil, translate(err, "get profile")
	}

	return profile, nil
}

// UpdateProfile replaces the user's profile details.
func (s *service) UpdateProfile(ctx context.Context, userID string, profile *domain.Profile) (*domain.Profile, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	updated := &domain.Profile{ID: userID, UpdatedAt: s.now()}
	if profile != nil {
		updated.FullName = strings.TrimSpace(profile.FullName)
		updated.PhoneNumber = strings.TrimSpace(profile.PhoneNumber)
	}

	stored, err := s.repo.UpsertProfile(ctx, updated)
	if err != nil {
		return nil, translate(err, "update profile")
	}

	logger.InfoKV(ctx, "Profile updated", "user_id", userID)

	return stored, nil
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return domain.ErrUserRequired
	}

	return nil
}

// translate maps repository errors onto domain errors understood by the transport.
func translate(err error, op string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case errors.Is(err, repo.ErrContactLimit):
		return fmt.Errorf("%s: %w", op, domain.ErrContactLimit)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
