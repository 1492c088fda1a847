package integration

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/sos-button/internal/chat"
	"github.com/oshokin/sos-button/internal/config"
	"github.com/oshokin/sos-button/internal/domain/safety"
	"github.com/oshokin/sos-button/internal/service/common"
	"github.com/oshokin/sos-button/internal/service/server"
	"github.com/oshokin/sos-button/internal/session"
)

// reserveAddress returns a free loopback address.
func reserveAddress(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

// startServer runs sos-server with a temporary config and database.
// The returned function stops it and waits for Run to return.
func startServer(t *testing.T, grpcAddr, httpAddr, database string) (stop func()) {
	t.Helper()

	// Create cancellable context for server lifecycle.
	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	// Create temporary configuration file.
	require.NoError(t, config.Save(cfgPath, &config.Config{
		ServerAddress: grpcAddr,
		HTTPAddress:   httpAddr,
		Database:      database,
		Timeout:       5 * time.Second,
	}))

	done := make(chan error, 1)

	// Start server in background goroutine.
	go func() {
		done <- server.Run(ctx, &server.Options{
			ConfigPath:    cfgPath,
			ListenAddress: grpcAddr,
		})
	}()

	// Wait until the HTTP API answers.
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + httpAddr + "/health") //nolint:noctx // Test probe.
		if err != nil {
			return false
		}

		_ = resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	return func() {
		cancel()
		require.NoError(t, <-done)
	}
}

// TestServer_Roundtrip starts the real server and exercises every record operation with on-disk persistence.
func TestServer_Roundtrip(t *testing.T) {
	t.Parallel()

	grpcAddr := reserveAddress(t)
	httpAddr := reserveAddress(t)
	database := filepath.Join(t.TempDir(), "sos.db")

	stop := startServer(t, grpcAddr, httpAddr, database)
	defer stop()

	ctx := context.Background()

	sessions := new(session.Store)
	sessions.Set(session.Session{UserID: "priya@laptop"})

	// Connect to the test server with timeout.
	c, err := common.Dial(ctx, grpcAddr,
		common.WithCallTimeout(3*time.Second),
		common.WithSession(sessions),
	)
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	// Contacts are capped at three per user.
	for _, name := range []string{"Asha", "Vikram", "Meera"} {
		_, err = c.AddContact(ctx, &safety.Contact{Name: name, PhoneNumber: "+91 98100 00000", Relationship: "Family"})
		require.NoError(t, err)
	}

	_, err = c.AddContact(ctx, &safety.Contact{Name: "Extra", PhoneNumber: "+91 1"})
	require.ErrorIs(t, err, safety.ErrContactLimit)

	_, err = c.AddContact(ctx, &safety.Contact{Name: "No phone"})
	require.ErrorIs(t, err, safety.ErrContactIncomplete)

	contacts, err := c.ListContacts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	// Raise and resolve an alert.
	alert, err := c.RaiseAlert(ctx, safety.Location{Latitude: 28.6139, Longitude: 77.209})
	require.NoError(t, err)
	require.Equal(t, safety.AlertActive, alert.Status)

	resolved, err := c.ResolveAlert(ctx, alert.ID)
	require.NoError(t, err)
	require.Equal(t, safety.AlertResolved, resolved.Status)
	require.False(t, resolved.ResolvedAt.IsZero())

	_, err = c.ResolveAlert(ctx, "missing")
	require.ErrorIs(t, err, safety.ErrNotFound)

	alerts, err := c.ListAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	// A new user sees an empty profile until it is saved.
	profile, err := c.GetProfile(ctx)
	require.NoError(t, err)
	require.Empty(t, profile.FullName)

	_, err = c.UpdateProfile(ctx, &safety.Profile{FullName: "Priya Sharma", PhoneNumber: "+91 90000 00000"})
	require.NoError(t, err)

	profile, err = c.GetProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, "Priya Sharma", profile.FullName)

	// Records are scoped to the signed-in user.
	sessions.Set(session.Session{UserID: "someone@else"})

	contacts, err = c.ListContacts(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, contacts)

	// Signed out calls never reach the server.
	sessions.Clear()

	_, err = c.ListAlerts(ctx)
	require.ErrorIs(t, err, session.ErrNoSession)

	// Verify state was persisted to disk.
	_, err = os.Stat(database)
	require.NoError(t, err)
}

// TestServer_HTTPAPI checks the directory routes and the relay error shape.
func TestServer_HTTPAPI(t *testing.T) {
	t.Parallel()

	grpcAddr := reserveAddress(t)
	httpAddr := reserveAddress(t)

	stop := startServer(t, grpcAddr, httpAddr, filepath.Join(t.TempDir(), "sos.db"))
	defer stop()

	resp, err := http.Get("http://" + httpAddr + "/api/v1/authorities") //nolint:noctx // Test request.
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	var body struct {
		Authorities []map[string]string `json:"authorities"`
	}

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Authorities, 4)

	if os.Getenv("SOS_AI_API_KEY") != "" {
		t.Skip("AI key configured in environment, relay would call the gateway")
	}

	_, err = chat.NewClient("http://"+httpAddr, 5*time.Second).Complete(
		context.Background(),
		[]safety.Message{{Role: safety.RoleUser, Content: "hello"}},
	)
	require.EqualError(t, err, chat.ErrAPIKeyMissing.Error())
}
