package safety

import (
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"

	domain "github.com/oshokin/sos-button/internal/domain/safety"
)

// Alert is the wire form of an emergency alert.
type Alert struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	Latitude   float64                `json:"location_lat"`
	Longitude  float64                `json:"location_lng"`
	Status     string                 `json:"status"`
	CreatedAt  *timestamppb.Timestamp `json:"created_at,omitempty"`
	ResolvedAt *timestamppb.Timestamp `json:"resolved_at,omitempty"`
}

// Contact is the wire form of an emergency contact.
type Contact struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	PhoneNumber  string                 `json:"phone_number"`
	Relationship string                 `json:"relationship,omitempty"`
	CreatedAt    *timestamppb.Timestamp `json:"created_at,omitempty"`
}

// Profile is the wire form of a user profile.
type Profile struct {
	ID          string                 `json:"id"`
	FullName    string                 `json:"full_name"`
	PhoneNumber string                 `json:"phone_number"`
	UpdatedAt   *timestamppb.Timestamp `json:"updated_at,omitempty"`
}

type (
	// RaiseAlertRequest carries the device location at activation time.
	RaiseAlertRequest struct {
		Latitude  float64 `json:"location_lat"`
		Longitude float64 `json:"location_lng"`
	}

	// ResolveAlertRequest names the alert to resolve.
	ResolveAlertRequest struct {
		AlertID string `json:"alert_id"`
	}

	// AlertResponse returns a single alert.
	AlertResponse struct {
		Alert *Alert `json:"alert"`
	}

	// ListAlertsRequest has no fields; the user comes from metadata.
	ListAlertsRequest struct{}

	// ListAlertsResponse returns the user's alerts, newest first.
	ListAlertsResponse struct {
		Alerts []*Alert `json:"alerts"`
	}

	// AddContactRequest carries the contact to store.
	AddContactRequest struct {
		Contact *Contact `json:"contact"`
	}

	// ContactResponse returns a single contact.
	ContactResponse struct {
		Contact *Contact `json:"contact"`
	}

	// ListContactsRequest optionally caps the number of contacts returned.
	ListContactsRequest struct {
		Limit int32 `json:"limit,omitempty"`
	}

	// ListContactsResponse returns contacts in creation order.
	ListContactsResponse struct {
		Contacts []*Contact `json:"contacts"`
	}

	// DeleteContactRequest names the contact to delete.
	DeleteContactRequest struct {
		ContactID string `json:"contact_id"`
	}

	// DeleteContactResponse is empty.
	DeleteContactResponse struct{}

	// GetProfileRequest has no fields; the user comes from metadata.
	GetProfileRequest struct{}

	// UpdateProfileRequest carries the new profile details.
	UpdateProfileRequest struct {
		Profile *Profile `json:"profile"`
	}

	// ProfileResponse returns the user's profile.
	ProfileResponse struct {
		Profile *Profile `json:"profile"`
	}
)

// FromDomainAlert converts a domain alert to its wire form.
func FromDomainAlert(alert *domain.Alert) *Alert {
	if alert == nil {
		return nil
	}

	return &Alert{
		ID:         alert.ID,
		UserID:     alert.UserID,
		Latitude:   alert.Location.Latitude,
		Longitude:  alert.Location.Longitude,
		Status:     string(alert.Status),
		CreatedAt:  toTimestamp(alert.CreatedAt),
		ResolvedAt: toTimestamp(alert.ResolvedAt),
	}
}

// ToDomainAlert converts a wire alert to the domain type.
func ToDomainAlert(alert *Alert) *domain.Alert {
	if alert == nil {
		return nil
	}

	return &domain.Alert{
		ID:         alert.ID,
		UserID:     alert.UserID,
		Location:   domain.Location{Latitude: alert.Latitude, Longitude: alert.Longitude},
		Status:     domain.AlertStatus(alert.Status),
		CreatedAt:  fromTimestamp(alert.CreatedAt),
		ResolvedAt: fromTimestamp(alert.ResolvedAt),
	}
}

// FromDomainContact converts a domain contact to its wire form.
func FromDomainContact(contact *domain.Contact) *Contact {
	if contact == nil {
		return nil
	}

	return &Contact{
		ID:           contact.ID,
		Name:         contact.Name,
		PhoneNumber:  contact.PhoneNumber,
		Relationship: contact.Relationship,
		CreatedAt:    toTimestamp(contact.CreatedAt),
	}
}

// ToDomainContact converts a wire contact to the domain type.
func ToDomainContact(contact *Contact) *domain.Contact {
	if contact == nil {
		return nil
	}

	return &domain.Contact{
		ID:           contact.ID,
		Name:         contact.Name,
		PhoneNumber:  contact.PhoneNumber,
		Relationship: contact.Relationship,
		CreatedAt:    fromTimestamp(contact.CreatedAt),
	}
}

// FromDomainProfile converts a domain profile to its wire form.
func FromDomainProfile(profile *domain.Profile) *Profile {
	if profile == nil {
		return nil
	}

	return &Profile{
		ID:          profile.ID,
		FullName:    profile.FullName,
		PhoneNumber: profile.PhoneNumber,
		UpdatedAt:   toTimestamp(profile.UpdatedAt),
	}
}

// ToDomainProfile converts a wire profile to the domain type.
func ToDomainProfile(profile *Profile) *domain.Profile {
	if profile == nil {
		return nil
	}

	return &domain.Profile{
		ID:          profile.ID,
		FullName:    profile.FullName,
		PhoneNumber: profile.PhoneNumber,
		UpdatedAt:   fromTimestamp(profile.UpdatedAt),
	}
}

func toTimestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}

	return timestamppb.New(t)
}

func fromTimestamp(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}

	return ts.AsTime()
}
