package device

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var (
	// ErrUnsupportedOS indicates the current OS has no known URI handler.
	ErrUnsupportedOS = errors.New("unsupported operating system")
	// errNumberRequired is returned for an empty phone number.
	errNumberRequired = errors.New("phone number is required")
)

// TelURI returns the tel: URI for number with spaces removed.
func TelURI(number string) string {
	return "tel:" + strings.ReplaceAll(strings.TrimSpace(number), " ", "")
}

// Dial asks the OS to handle the tel: URI of number using its built-in opener:
// - Linux:   `xdg-open tel:<number>`
// - macOS:   `open tel:<number>`
// - Windows: `rundll32 url.dll,FileProtocolHandler tel:<number>`
// The opener is started asynchronously; the OS takes over the rest.
func Dial(ctx context.Context, number string) error {
	if strings.TrimSpace(number) == "" {
		return errNumberRequired
	}

	name, args, err := openerCommand(runtime.GOOS, TelURI(number))
	if err != nil {
		return err
	}

	//nolint:gosec // The opener is fixed and the URI is a single argument.
	if err = exec.CommandContext(ctx, name, args...).Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}

	return nil
}

// openerCommand returns the URI opener invocation for goos.
func openerCommand(goos, uri string) (string, []string, error) {
	switch strings.ToLower(goos) {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{uri}, nil
	case "darwin":
		return "open", []string{uri}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", uri}, nil
	default:
		return "", nil, fmt.Errorf("unsupported operating system: %s: %w", goos, ErrUnsupportedOS)
	}
}
