package client

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/oshokin/sos-button/internal/domain/safety"
)

// notice is an error rendered the way the app shows toasts: a title and a sentence.
type notice struct {
	title   string
	message string
	err     error
}

func (n *notice) Error() string {
	return n.title + ": " + n.message
}

func (n *notice) Unwrap() error {
	return n.err
}

// friendly turns known service errors into user-facing notices.
func friendly(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, safety.ErrContactIncomplete):
		return &notice{title: "Error", message: "Please fill in name and phone number", err: err}
	case errors.Is(err, safety.ErrContactLimit):
		return &notice{title: "Limit reached", message: "You can only add 3 emergency contacts", err: err}
	case errors.Is(err, safety.ErrNotFound):
		return &notice{title: "Error", message: "Not found", err: err}
	default:
		return &notice{title: "Error", message: err.Error(), err: err}
	}
}

// Contacts lists the emergency contacts.
func (a *App) Contacts(ctx context.Context) error {
	contacts, err := a.backend.ListContacts(ctx, 0)
	if err != nil {
		return friendly(err)
	}

	if len(contacts) == 0 {
		a.println("No emergency contacts yet.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPHONE\tRELATIONSHIP")

	for _, c := range contacts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.PhoneNumber, c.Relationship)
	}

	_ = w.Flush()

	a.printf("%d of %d contacts.\n", len(contacts), safety.MaxContacts)

	return nil
}

// AddContact stores a new emergency contact.
func (a *App) AddContact(ctx context.Context, contact *safety.Contact) error {
	candidate := contact.Clone()
	candidate.Normalize()

	if err := candidate.Validate(); err != nil {
		return friendly(err)
	}

	existing, err := a.backend.ListContacts(ctx, 0)
	if err != nil {
		return friendly(err)
	}

	if len(existing) >= safety.MaxContacts {
		return friendly(safety.ErrContactLimit)
	}

	if _, err = a.backend.AddContact(ctx, candidate); err != nil {
		return friendly(err)
	}

	a.println("Success: Contact added successfully")

	return nil
}

// DeleteContact removes an emergency contact.
func (a *App) DeleteContact(ctx context.Context, contactID string) error {
	if err := a.backend.DeleteContact(ctx, contactID); err != nil {
		return friendly(err)
	}

	a.println("Success: Contact removed")

	return nil
}

// Profile prints the user's profile.
func (a *App) Profile(ctx context.Context) error {
	profile, err := a.backend.GetProfile(ctx)
	if err != nil {
		return friendly(err)
	}

	a.printf("Full name:    %s\n", orDash(profile.FullName))
	a.printf("Phone number: %s\n", orDash(profile.PhoneNumber))

	return nil
}

// UpdateProfile changes the given fields; nil fields keep their stored value.
func (a *App) UpdateProfile(ctx context.Context, fullName, phoneNumber *string) error {
	current, err := a.backend.GetProfile(ctx)
	if err != nil {
		return friendly(err)
	}

	updated := current.Clone()

	if fullName != nil {
		updated.FullName = *fullName
	}

	if phoneNumber != nil {
		updated.PhoneNumber = *phoneNumber
	}

	if _, err = a.backend.UpdateProfile(ctx, updated); err != nil {
		return friendly(err)
	}

	a.println("Success: Profile updated successfully")

	return nil
}

// Alerts lists the user's alerts, newest first.
func (a *App) Alerts(ctx context.Context) error {
	alerts, err := a.backend.ListAlerts(ctx)
	if err != nil {
		return friendly(err)
	}

	if len(alerts) == 0 {
		a.println("No alerts.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tLOCATION\tCREATED\tRESOLVED")

	for _, alert := range alerts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.4f, %.4f\t%s\t%s\n",
			alert.ID,
			alert.Status,
			alert.Location.Latitude,
			alert.Location.Longitude,
			formatTime(alert.CreatedAt),
			formatTime(alert.ResolvedAt),
		)
	}

	return w.Flush()
}

// ResolveAlert marks an alert resolved.
func (a *App) ResolveAlert(ctx context.Context, alertID string) error {
	alert, err := a.backend.ResolveAlert(ctx, alertID)
	if err != nil {
		return friendly(err)
	}

	a.printf("Alert %s resolved at %s\n", alert.ID, formatTime(alert.ResolvedAt))

	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Local().Format(time.DateTime)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
