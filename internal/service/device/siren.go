package device

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/oshokin/sos-button/internal/logger"
)

// errNoCommand is returned by ExecSiren.Start without a player command.
var errNoCommand = errors.New("siren command is empty")

// restartDelay is the pause before a failed player is started again.
const restartDelay = time.Second

// ExecSiren loops an external player command until stopped.
type ExecSiren struct {
	command []string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewExecSiren creates a siren running command, e.g. ["paplay", "siren.wav"].
func NewExecSiren(command []string) *ExecSiren {
	return &ExecSiren{command: append([]string(nil), command...)}
}

// Start begins playback in the background. It fails when the player is missing.
func (s *ExecSiren) Start(ctx context.Context) error {
	if len(s.command) == 0 {
		return errNoCommand
	}

	if _, err := exec.LookPath(s.command[0]); err != nil {
		return fmt.Errorf("find siren player: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.loop(runCtx)

	return nil
}

// Stop ends playback without waiting for the player to exit.
func (s *ExecSiren) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *ExecSiren) loop(ctx context.Context) {
	for {
		//nolint:gosec // The command comes from the user's own settings.
		err := exec.CommandContext(ctx, s.command[0], s.command[1:]...).Run()
		if ctx.Err() != nil {
			return
		}

		if err != nil {
			logger.WarnKV(ctx, "Siren player failed", "error", err)

			select {
			case <-ctx.Done():
				return
			case <-time.After(restartDelay):
			}
		}
	}
}

// bell is the terminal bell control character.
const bell = "\a"

// BellSiren rings the terminal bell at a fixed interval until stopped.
type BellSiren struct {
	w        io.Writer
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewBellSiren creates a siren writing the bell to w every interval.
func NewBellSiren(w io.Writer, interval time.Duration) *BellSiren {
	if interval <= 0 {
		interval = time.Second
	}

	return &BellSiren{w: w, interval: interval}
}

// Start rings once immediately, then every interval.
func (s *BellSiren) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return nil
	}

	if _, err := io.WriteString(s.w, bell); err != nil {
		return fmt.Errorf("ring bell: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	go s.loop(runCtx)

	return nil
}

// Stop silences the bell.
func (s *BellSiren) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *BellSiren) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := io.WriteString(s.w, bell); err != nil {
				logger.WarnKV(ctx, "Bell failed", "error", err)
				return
			}
		}
	}
}
