package device

import (
	"context"

	"github.com/oshokin/sos-button/internal/domain/safety"
	"github.com/oshokin/sos-button/internal/logger"
)

// LogNotifier logs the contacts an alert would reach.
type LogNotifier struct{}

// Notify logs one line per contact.
func (LogNotifier) Notify(ctx context.Context, location safety.Location, contacts []*safety.Contact) error {
	for _, c := range contacts {
		logger.InfoKV(ctx, "Emergency contact notified",
			"name", c.Name,
			"phone_number", c.PhoneNumber,
			"latitude", location.Latitude,
			"longitude", location.Longitude,
		)
	}

	return nil
}
