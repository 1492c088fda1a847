//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	api "github.com/oshokin/sos-button/internal/api/grpc/safety"
	"github.com/oshokin/sos-button/internal/session"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	sessions := new(session.Store)
	sessions.Set(session.Session{UserID: "u-1"})

	c := &Client{
		sessions:    sessions,
		callTimeout: 0,
	}

	ctx, cancel, err := c.callContext(context.Background())
	require.NoError(t, err)

	cancel()

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	require.Equal(t, []string{"u-1"}, md.Get(api.UserIDHeader))

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel, err = c.callContext(context.Background())
	require.NoError(t, err)

	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_RequiresSession asserts that calls fail before anyone signs in.
func TestClient_RequiresSession(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "127.0.0.1:1")
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	_, err = c.ListAlerts(context.Background())
	require.ErrorIs(t, err, session.ErrNoSession)

	require.ErrorIs(t, c.DeleteContact(context.Background(), "c-1"), session.ErrNoSession)
}
