package safety

import (
	"errors"
	"math"
	"strings"
	"time"
)

// MaxContacts is how many emergency contacts a user may keep.
const MaxContacts = 3

var (
	// ErrNotFound is returned when a record does not exist for the user.
	ErrNotFound = errors.New("not found")
	// ErrContactLimit is returned when the user already keeps MaxContacts contacts.
	ErrContactLimit = errors.New("you can only add 3 emergency contacts")
	// ErrUserRequired is returned when an operation has no user to act for.
	ErrUserRequired = errors.New("user id is required")
)

// AlertStatus is the lifecycle state of an emergency alert.
type AlertStatus string

const (
	// AlertActive marks an alert raised and not yet handled.
	AlertActive AlertStatus = "active"
	// AlertResolved marks an alert closed by the user.
	AlertResolved AlertStatus = "resolved"
)

// Location is a point reported by the device.
type Location struct {
	Latitude  float64
	Longitude float64
}

// ErrInvalidLocation is returned when coordinates are out of range.
var ErrInvalidLocation = errors.New("location coordinates out of range")

// Validate checks that the coordinates are finite and within range.
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || math.IsNaN(l.Longitude) ||
		math.Abs(l.Latitude) > 90 || math.Abs(l.Longitude) > 180 {
		return ErrInvalidLocation
	}

	return nil
}

// Alert represents one SOS activation.
type Alert struct {
	// ID is the unique alert identifier.
	ID string
	// UserID is the user who raised the alert.
	UserID string
	// Location is where the device was at activation time.
	Location Location
	// Status is the current lifecycle state.
	Status AlertStatus
	// CreatedAt is when the alert was raised.
	CreatedAt time.Time
	// ResolvedAt is when the alert was resolved; zero while active.
	ResolvedAt time.Time
}

// Clone returns a copy of the alert.
func (a *Alert) Clone() *Alert {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// Contact is a person notified when an alert is raised.
type Contact struct {
	ID           string
	UserID       string
	Name         string
	PhoneNumber  string
	Relationship string
	CreatedAt    time.Time
}

// ErrContactIncomplete is returned when a contact misses its name or phone number.
var ErrContactIncomplete = errors.New("please fill in name and phone number")

// Normalize trims whitespace from the user-supplied fields.
func (c *Contact) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.PhoneNumber = strings.TrimSpace(c.PhoneNumber)
	c.Relationship = strings.TrimSpace(c.Relationship)
}

// Validate checks the required contact fields.
func (c *Contact) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.PhoneNumber) == "" {
		return ErrContactIncomplete
	}

	return nil
}

// Clone returns a copy of the contact.
func (c *Contact) Clone() *Contact {
	if c == nil {
		return nil
	}

	cloned := *c

	return &cloned
}

// Profile holds the user's own details.
type Profile struct {
	// ID equals the user identifier.
	ID          string
	FullName    string
	PhoneNumber string
	UpdatedAt   time.Time
}

// Clone returns a copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}

	cloned := *p

	return &cloned
}

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser marks messages written by the user.
	RoleUser Role = "user"
	// RoleAssistant marks messages produced by the assistant.
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
