package device

import (
	"context"
	"errors"

	"github.com/oshokin/sos-button/internal/config"
	"github.com/oshokin/sos-button/internal/domain/safety"
)

// ErrLocationUnavailable is returned when no coordinates are known.
var ErrLocationUnavailable = errors.New("location unavailable")

// StaticLocator reports fixed coordinates from the settings.
type StaticLocator struct {
	location *safety.Location
}

// NewStaticLocator creates a locator for cfg; nil cfg means location is unavailable.
func NewStaticLocator(cfg *config.LocationConfig) *StaticLocator {
	if cfg == nil {
		return new(StaticLocator)
	}

	return &StaticLocator{location: &safety.Location{Latitude: cfg.Latitude, Longitude: cfg.Longitude}}
}

// Locate returns the configured coordinates.
func (l *StaticLocator) Locate(ctx context.Context) (safety.Location, error) {
	if err := ctx.Err(); err != nil {
		return safety.Location{}, err
	}

	if l.location == nil {
		return safety.Location{}, ErrLocationUnavailable
	}

	return *l.location, nil
}
