//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	api "github.com/oshokin/sos-button/internal/api/grpc/safety"
	"github.com/oshokin/sos-button/internal/config"
	domain "github.com/oshokin/sos-button/internal/domain/safety"
	"github.com/oshokin/sos-button/internal/session"
	"github.com/oshokin/sos-button/internal/telemetry"
)

// Client wraps the gRPC SafetyService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the safety server.
	conn *grpc.ClientConn
	// api is the SafetyService client interface.
	api api.SafetyServiceClient
	// sessions supplies the user id attached to every call.
	sessions *session.Store

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithSession makes the client act for the user signed in to sessions.
func WithSession(sessions *session.Store) Option {
	return func(c *Client) {
		if sessions != nil {
			c.sessions = sessions
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the safety server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(
		address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		telemetry.DialOption(),
	)
	if err != nil {
		return nil, fmt.Errorf("dial safety server: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         api.NewSafetyServiceClient(conn),
		sessions:    new(session.Store),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// RaiseAlert records an active alert at location.
func (c *Client) RaiseAlert(ctx context.Context, location domain.Location) (*domain.Alert, error) {
	callCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := c.api.RaiseAlert(callCtx, &api.RaiseAlertRequest{
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
	})
	if err != nil {
		return nil, fmt.Errorf("raise alert: %w", api.FromStatus(err))
	}

	return api.ToDomainAlert(resp.Alert), nil
}

// ResolveAlert marks the alert resolved.
func (c *Client) ResolveAlert(ctx context.Context, alertID string) (*domain.Alert, error) {
	callCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := c.api.ResolveAlert(callCtx, &api.ResolveAlertRequest{AlertID: alertID})
	if err != nil {
		return nil, fmt.Errorf("resolve alert: %w", api.FromStatus(err))
	}

	return api.ToDomainAlert(resp.Alert), nil
}

// ListAlerts returns the user's alerts, newest first.
func (c *Client) ListAlerts(ctx context.Context) ([]*domain.Alert, error) {
	callCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := c.api.ListAlerts(callCtx, new(api.ListAlertsRequest))
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", api.FromStatus(err))
	}

	alerts := make([]*domain.Alert, 0, len(resp.Alerts))
	for _, alert := range resp.Alerts {
		alerts = append(alerts, api.ToDomainAlert(alert))
	}

	return alerts, nil
}

// AddContact stores a new emergency contact.
func (c *Client) AddContact(ctx context.Context, contact *domain.Contact) (*domain.Contact, error) {
	callCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := c.api.AddContact(callCtx, &api.AddContactRequest{Contact: api.FromDomainContact(contact)})
	if err != nil {
		return nil, fmt.Errorf("add contact: %w", api.FromStatus(err))
	}

	return api.ToDomainContact(resp.Contact), nil
}

// ListContacts returns the user's contacts in creation order. A positive limit caps the result.
func (c *Client) ListContacts(ctx context.Context, limit int) ([]*domain.Contact, error) {
	callCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	//nolint:gosec // Limits are tiny.
	resp, err := c.api.ListContacts(callCtx, &api.ListContactsRequest{Limit: int32(limit)})
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", api.FromStatus(err))
	}

	contacts := make([]*domain.Contact, 0, len(resp.Contacts))
	for _, contact := range resp.Contacts {
		contacts = append(contacts, api.ToDomainContact(contact))
	}

	return contacts, nil
}

// DeleteContact removes one of the user's contacts.
func (c *Client) DeleteContact(ctx context.Context, contactID string) error {
	callCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = c.api.DeleteContact(callCtx, &api.DeleteContactRequest{ContactID: contactID}); err != nil {
		return fmt.Errorf("delete contact: %w", api.FromStatus(err))
	}

	return nil
}

// GetProfile returns the user's profile.
func (c *Client) GetProfile(ctx context.Context) (*domain.Profile, error) {
	callCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := c.api.GetProfile(callCtx, new(api.GetProfileRequest))
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", api.FromStatus(err))
	}

	return api.ToDomainProfile(resp.Profile), nil
}

// UpdateProfile replaces the user's profile details.
func (c *Client) UpdateProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	callCtx, cancel, err := c.callContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := c.api.UpdateProfile(callCtx, &api.UpdateProfileRequest{Profile: api.FromDomainProfile(profile)})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", api.FromStatus(err))
	}

	return api.ToDomainProfile(resp.Profile), nil
}

// callContext returns a context carrying the signed-in user with the client's call
// timeout if configured, otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	current, err := c.currentSession()
	if err != nil {
		return nil, nil, err
	}

	ctx = api.WithOutgoingUserID(ctx, current.UserID)

	if c.callTimeout <= 0 {
		ctx, cancel := context.WithCancel(ctx)
		return ctx, cancel, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)

	return ctx, cancel, nil
}

func (c *Client) currentSession() (session.Session, error) {
	if c.sessions == nil {
		return session.Session{}, session.ErrNoSession
	}

	return c.sessions.Current()
}
