package safety

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domain "github.com/oshokin/sos-button/internal/domain/safety"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	RaiseAlert(ctx context.Context, userID string, location domain.Location) (*domain.Alert, error)
	ResolveAlert(ctx context.Context, userID, alertID string) (*domain.Alert, error)
	ListAlerts(ctx context.Context, userID string) ([]*domain.Alert, error)
	AddContact(ctx context.Context, userID string, contact *domain.Contact) (*domain.Contact, error)
	ListContacts(ctx context.Context, userID string, limit int) ([]*domain.Contact, error)
	DeleteContact(ctx context.Context, userID, contactID string) error
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID string, profile *domain.Profile) (*domain.Profile, error)
}

// Server implements the SafetyService gRPC API.
type Server struct {
	// service provides the business logic for safety operations.
	service Service
}

var errRequestRequired = status.Error(codes.InvalidArgument, "request is required")

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// RaiseAlert records an active alert at the reported location.
func (s *Server) RaiseAlert(ctx context.Context, req *RaiseAlertRequest) (*AlertResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	alert, err := s.service.RaiseAlert(ctx, UserIDFromContext(ctx), domain.Location{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &AlertResponse{Alert: FromDomainAlert(alert)}, nil
}

// ResolveAlert marks an alert resolved.
func (s *Server) ResolveAlert(ctx context.Context, req *ResolveAlertRequest) (*AlertResponse, error) {
	if req == nil || req.AlertID == "" {
		return nil, status.Error(codes.InvalidArgument, "alert id is required")
	}

	alert, err := s.service.ResolveAlert(ctx, UserIDFromContext(ctx), req.AlertID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &AlertResponse{Alert: FromDomainAlert(alert)}, nil
}

// ListAlerts returns the caller's alerts.
func (s *Server) ListAlerts(ctx context.Context, _ *ListAlertsRequest) (*ListAlertsResponse, error) {
	alerts, err := s.service.ListAlerts(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	response := &ListAlertsResponse{Alerts: make([]*Alert, 0, len(alerts))}
	for _, alert := range alerts {
		response.Alerts = append(response.Alerts, FromDomainAlert(alert))
	}

	return response, nil
}

// AddContact stores a new emergency contact.
func (s *Server) AddContact(ctx context.Context, req *AddContactRequest) (*ContactResponse, error) {
	if req == nil || req.Contact == nil {
		return nil, status.Error(codes.InvalidArgument, domain.ErrContactIncomplete.Error())
	}

	contact, err := s.service.AddContact(ctx, UserIDFromContext(ctx), ToDomainContact(req.Contact))
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &ContactResponse{Contact: FromDomainContact(contact)}, nil
}

// ListContacts returns the caller's contacts.
func (s *Server) ListContacts(ctx context.Context, req *ListContactsRequest) (*ListContactsResponse, error) {
	var limit int
	if req != nil {
		limit = int(req.Limit)
	}

	contacts, err := s.service.ListContacts(ctx, UserIDFromContext(ctx), limit)
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	response := &ListContactsResponse{Contacts: make([]*Contact, 0, len(contacts))}
	for _, contact := range contacts {
		response.Contacts = append(response.Contacts, FromDomainContact(contact))
	}

	return response, nil
}

// DeleteContact removes one of the caller's contacts.
func (s *Server) DeleteContact(ctx context.Context, req *DeleteContactRequest) (*DeleteContactResponse, error) {
	if req == nil || req.ContactID == "" {
		return nil, status.Error(codes.InvalidArgument, "contact id is required")
	}

	if err := s.service.DeleteContact(ctx, UserIDFromContext(ctx), req.ContactID); err != nil {
		return nil, toStatus(ctx, err)
	}

	return new(DeleteContactResponse), nil
}

// GetProfile returns the caller's profile.
func (s *Server) GetProfile(ctx context.Context, _ *GetProfileRequest) (*ProfileResponse, error) {
	profile, err := s.service.GetProfile(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &ProfileResponse{Profile: FromDomainProfile(profile)}, nil
}

// UpdateProfile replaces the caller's profile details.
func (s *Server) UpdateProfile(ctx context.Context, req *UpdateProfileRequest) (*ProfileResponse, error) {
	if req == nil {
		return nil, errRequestRequired
	}

	profile, err := s.service.UpdateProfile(ctx, UserIDFromContext(ctx), ToDomainProfile(req.Profile))
	if err != nil {
		return nil, toStatus(ctx, err)
	}

	return &ProfileResponse{Profile: FromDomainProfile(profile)}, nil
}
