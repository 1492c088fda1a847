package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/oshokin/sos-button/internal/chat"
	"github.com/oshokin/sos-button/internal/config"
	"github.com/oshokin/sos-button/internal/domain/safety"
	"github.com/oshokin/sos-button/internal/hold"
	"github.com/oshokin/sos-button/internal/logger"
	"github.com/oshokin/sos-button/internal/service/common"
	"github.com/oshokin/sos-button/internal/service/device"
	"github.com/oshokin/sos-button/internal/session"
)

// chatTimeout bounds one relay round trip; completions are slow.
const chatTimeout = time.Minute

// Options configures how the client connects.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string

	// ServerAddress overrides server address from config when specified.
	ServerAddress string
}

// Backend is the safety service as seen by the client views.
type Backend interface {
	RaiseAlert(ctx context.Context, location safety.Location) (*safety.Alert, error)
	ResolveAlert(ctx context.Context, alertID string) (*safety.Alert, error)
	ListAlerts(ctx context.Context) ([]*safety.Alert, error)
	AddContact(ctx context.Context, contact *safety.Contact) (*safety.Contact, error)
	ListContacts(ctx context.Context, limit int) ([]*safety.Contact, error)
	DeleteContact(ctx context.Context, contactID string) error
	GetProfile(ctx context.Context) (*safety.Profile, error)
	UpdateProfile(ctx context.Context, profile *safety.Profile) (*safety.Profile, error)
}

// App bundles the settings and collaborators shared by all views.
type App struct {
	settings *config.Config
	sessions *session.Store
	backend  Backend
	siren    hold.Siren
	locator  hold.Locator
	notifier hold.Notifier
	chat     chat.Completer
	dial     func(ctx context.Context, number string) error

	in  io.Reader
	out io.Writer

	closer io.Closer
}

// Open loads the settings, signs the user in and connects to the safety server.
func Open(ctx context.Context, opts *Options) (*App, error) {
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := settings.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	userID := settings.UserID
	if userID == "" {
		if userID, err = common.DetectUserID(); err != nil {
			return nil, fmt.Errorf("detect user id: %w", err)
		}
	}

	sessions := new(session.Store)
	sessions.Set(session.Session{UserID: userID})

	client, err := common.Dial(ctx, serverAddress,
		common.WithCallTimeout(settings.Timeout),
		common.WithSession(sessions),
	)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Connected to safety server", "server_address", serverAddress, "user_id", userID)

	var siren hold.Siren = device.NewBellSiren(os.Stderr, settings.Siren.BellInterval)
	if len(settings.Siren.Command) > 0 {
		siren = device.NewExecSiren(settings.Siren.Command)
	}

	return &App{
		settings: settings,
		sessions: sessions,
		backend:  client,
		siren:    siren,
		locator:  device.NewStaticLocator(settings.Location),
		notifier: device.LogNotifier{},
		chat:     chat.NewClient(httpBaseURL(settings.HTTPAddress), chatTimeout),
		dial:     device.Dial,
		in:       os.Stdin,
		out:      os.Stdout,
		closer:   client,
	}, nil
}

// Close releases the server connection.
func (a *App) Close() error {
	if a == nil || a.closer == nil {
		return nil
	}

	return a.closer.Close()
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}

// httpBaseURL turns a listen address into a URL the client can reach.
func httpBaseURL(address string) string {
	if strings.HasPrefix(address, "http://") || strings.HasPrefix(address, "https://") {
		return address
	}

	if strings.HasPrefix(address, ":") {
		address = "127.0.0.1" + address
	}

	return "http://" + address
}
