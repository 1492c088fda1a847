package safety

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestAlertClone verifies that Clone returns a copy and handles nil safely.
func TestAlertClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Alert)(nil).Clone())

	a := &Alert{
		ID:        "a-1",
		UserID:    "u-1",
		Location:  Location{Latitude: 28.6139, Longitude: 77.209},
		Status:    AlertActive,
		CreatedAt: time.Now().UTC(),
	}

	b := a.Clone()

	require.Equal(t, a, b)
	require.NotSame(t, a, b)
}

// TestContactValidate checks that name and phone number are mandatory.
func TestContactValidate(t *testing.T) {
	t.Parallel()

	c := &Contact{Name: "  Asha ", PhoneNumber: " +911234567890 "}
	c.Normalize()
	require.NoError(t, c.Validate())
	require.Equal(t, "Asha", c.Name)
	require.Equal(t, "+911234567890", c.PhoneNumber)

	require.ErrorIs(t, (&Contact{Name: "Asha"}).Validate(), ErrContactIncomplete)
	require.ErrorIs(t, (&Contact{PhoneNumber: "100"}).Validate(), ErrContactIncomplete)
	require.ErrorIs(t, (&Contact{Name: " ", PhoneNumber: "100"}).Validate(), ErrContactIncomplete)
}

// TestLocationValidate rejects coordinates outside the globe.
func TestLocationValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Location{Latitude: -90, Longitude: 180}.Validate())
	require.ErrorIs(t, Location{Latitude: 90.5}.Validate(), ErrInvalidLocation)
	require.ErrorIs(t, Location{Longitude: -181}.Validate(), ErrInvalidLocation)
	require.ErrorIs(t, Location{Latitude: math.NaN()}.Validate(), ErrInvalidLocation)
}

// TestProfileClone verifies that Clone copies every field.
func TestProfileClone(t *testing.T) {
	t.Parallel()
	require.Nil(t, (*Profile)(nil).Clone())

	p := &Profile{ID: "u-1", FullName: "Asha Rao", PhoneNumber: "+91"}
	c := p.Clone()

	require.Equal(t, p, c)
	require.NotSame(t, p, c)
}
