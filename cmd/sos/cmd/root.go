package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/sos-button/internal/config"
	"github.com/oshokin/sos-button/internal/domain/safety"
	"github.com/oshokin/sos-button/internal/logger"
	client "github.com/oshokin/sos-button/internal/service/client"
	"github.com/oshokin/sos-button/internal/version"
)

var (
	// cfgPath stores the configuration file path.
	cfgPath string
	// serverAddress overrides the server address from config.
	serverAddress string
	// logLevel is the minimum level written to the log.
	logLevel string

	// rootCmd represents the base command of the safety client.
	rootCmd = &cobra.Command{
		Use:   "sos",
		Short: "Personal safety client: SOS button, fake call, contacts and assistant.",
		Long: `Talks to the sos-server safety service.

Hold the SOS button for five seconds to raise an alert with your location,
start the siren and notify up to three emergency contacts. Release earlier
and nothing is sent. The other commands manage contacts and the profile,
list alerts, show a fake incoming call, list emergency numbers and safe
spots, and chat with the RakshiniAI assistant.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return applyLogLevel(logLevel)
		},
	}

	holdFor time.Duration

	holdCmd = &cobra.Command{
		Use:   "hold",
		Short: "Press and hold the SOS button.",
		Long: `Simulates pressing the SOS button. The press lasts --for, or until Enter
is pressed when --for is zero. Holding past five seconds activates SOS.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, app *client.App) error {
				return app.Hold(ctx, holdFor)
			})
		},
	}

	dismissAfter time.Duration

	fakeCallCmd = &cobra.Command{
		Use:   "fake-call",
		Short: "Show a simulated incoming call.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, app *client.App) error {
				return app.FakeCall(ctx, dismissAfter)
			})
		},
	}

	contactsCmd = &cobra.Command{
		Use:   "contacts",
		Short: "List emergency contacts.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, app *client.App) error {
				return app.Contacts(ctx)
			})
		},
	}

	contactRelationship string

	contactsAddCmd = &cobra.Command{
		Use:   "add <name> <phone-number>",
		Short: "Add an emergency contact.",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *client.App) error {
				return app.AddContact(ctx, &safety.Contact{
					Name:         args[0],
					PhoneNumber:  args[1],
					Relationship: contactRelationship,
				})
			})
		},
	}

	contactsDeleteCmd = &cobra.Command{
		Use:     "delete <contact-id>",
		Aliases: []string{"rm"},
		Short:   "Remove an emergency contact.",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *client.App) error {
				return app.DeleteContact(ctx, args[0])
			})
		},
	}

	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Show your profile.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, app *client.App) error {
				return app.Profile(ctx)
			})
		},
	}

	profileName  string
	profilePhone string

	profileSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Update your profile.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var fullName, phoneNumber *string

			if cmd.Flags().Changed("name") {
				fullName = &profileName
			}

			if cmd.Flags().Changed("phone") {
				phoneNumber = &profilePhone
			}

			return withApp(func(ctx context.Context, app *client.App) error {
				return app.UpdateProfile(ctx, fullName, phoneNumber)
			})
		},
	}

	alertsCmd = &cobra.Command{
		Use:   "alerts",
		Short: "List your alerts.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, app *client.App) error {
				return app.Alerts(ctx)
			})
		},
	}

	alertsResolveCmd = &cobra.Command{
		Use:   "resolve <alert-id>",
		Short: "Mark an alert resolved.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, app *client.App) error {
				return app.ResolveAlert(ctx, args[0])
			})
		},
	}

	chatCmd = &cobra.Command{
		Use:   "chat",
		Short: "Talk to the RakshiniAI safety assistant.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, app *client.App) error {
				return app.Chat(ctx)
			})
		},
	}

	callNumber string

	authoritiesCmd = &cobra.Command{
		Use:   "authorities",
		Short: "List emergency numbers, or call one with --call.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, app *client.App) error {
				if callNumber != "" {
					return app.Call(ctx, callNumber)
				}

				return app.Authorities()
			})
		},
	}

	safeSpotsCmd = &cobra.Command{
		Use:   "safe-spots",
		Short: "List safe places near you.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(func(ctx context.Context, app *client.App) error {
				return app.SafeSpots(ctx)
			})
		},
	}
)

// Execute runs the sos CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	err := rootCmd.Execute()

	logger.Sync()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withApp opens the client for the duration of fn and cancels it on SIGINT or SIGTERM.
func withApp(fn func(ctx context.Context, app *client.App) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	app, err := client.Open(ctx, &client.Options{
		ConfigPath:    cfgPath,
		ServerAddress: serverAddress,
	})
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.WarnKV(ctx, "Failed to close connection", "error", closeErr)
		}
	}()

	return fn(ctx, app)
}

func applyLogLevel(s string) error {
	level, ok := logger.ParseLevel(s)
	if !ok {
		return fmt.Errorf("unknown log level %q", s)
	}

	logger.SetLevel(level)

	return nil
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "", "server address, overrides config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	holdCmd.Flags().DurationVar(&holdFor, "for", 0, "release after this long; zero waits for Enter")
	fakeCallCmd.Flags().DurationVar(&dismissAfter, "dismiss-after", 0, "decline after this long; zero waits for Enter")
	contactsAddCmd.Flags().StringVarP(&contactRelationship, "relationship", "r", "", "relationship to you, e.g. Mother")
	profileSetCmd.Flags().StringVar(&profileName, "name", "", "full name")
	profileSetCmd.Flags().StringVar(&profilePhone, "phone", "", "phone number")
	authoritiesCmd.Flags().StringVar(&callNumber, "call", "", "dial this emergency number")

	contactsCmd.AddCommand(contactsAddCmd, contactsDeleteCmd)
	profileCmd.AddCommand(profileSetCmd)
	alertsCmd.AddCommand(alertsResolveCmd)

	rootCmd.AddCommand(
		holdCmd,
		fakeCallCmd,
		contactsCmd,
		profileCmd,
		alertsCmd,
		chatCmd,
		authoritiesCmd,
		safeSpotsCmd,
	)
}
