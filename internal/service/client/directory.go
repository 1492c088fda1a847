package client

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/oshokin/sos-button/internal/directory"
)

// errUnknownAuthority is returned when --call names a number outside the directory.
var errUnknownAuthority = errors.New("unknown authority number")

// Authorities lists the emergency numbers.
func (a *App) Authorities() error {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NUMBER\tNAME\tDESCRIPTION")

	for _, authority := range directory.Authorities() {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", authority.Number, authority.Name, authority.Description)
	}

	return w.Flush()
}

// Call dials one of the listed authorities.
func (a *App) Call(ctx context.Context, number string) error {
	authority, ok := directory.FindAuthority(number)
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownAuthority, number)
	}

	if err := a.dial(ctx, authority.Number); err != nil {
		return friendly(err)
	}

	a.printf("Calling %s (%s)...\n", authority.Name, authority.Number)

	return nil
}

// SafeSpots lists nearby safe places with map links. Like the app, it needs
// the device location first.
func (a *App) SafeSpots(ctx context.Context) error {
	location, err := a.locator.Locate(ctx)
	if err != nil {
		return &notice{title: "Location Error", message: "Could not get your location", err: err}
	}

	a.printf("Your location: %.4f, %.4f\n\n", location.Latitude, location.Longitude)

	for _, spot := range directory.SafeSpots() {
		a.printf("%s (%s)\n  %s\n  %s\n", spot.Name, spot.Distance, spot.Address, directory.MapsURL(spot))
	}

	return nil
}
