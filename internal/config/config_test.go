package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields, formats and defaults.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Missing server address.
	require.Error(t, Validate(new(Config)))

	// Bad server address.
	require.Error(t, Validate(&Config{ServerAddress: "bad:address"}))

	// Negative hold step.
	require.Error(t, Validate(&Config{ServerAddress: "127.0.0.1:0", Hold: HoldConfig{Step: -1}}))

	// Out of range location.
	require.Error(t, Validate(&Config{
		ServerAddress: "127.0.0.1:0",
		Location:      &LocationConfig{Latitude: 91},
	}))

	cfg := &Config{ServerAddress: "127.0.0.1:0"}
	require.NoError(t, Validate(cfg))

	require.Equal(t, DefaultHTTPAddress, cfg.HTTPAddress)
	require.Equal(t, DefaultDatabaseFilename, cfg.Database)
	require.Equal(t, DefaultTimeout, cfg.Timeout)
	require.Equal(t, DefaultAIModel, cfg.AI.Model)
	require.Equal(t, DefaultAIBaseURL, cfg.AI.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Hold.Dwell)
	require.Equal(t, 100*time.Millisecond, cfg.Hold.Tick)
	require.Equal(t, 2, cfg.Hold.Step)
	require.Equal(t, 10*time.Second, cfg.Hold.Display)
	require.Equal(t, 3, cfg.Hold.ContactLimit)
	require.Equal(t, "Raj", cfg.FakeCall.Caller)
	require.Equal(t, 10*time.Second, cfg.FakeCall.Duration)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	settings := &Config{
		ServerAddress: "127.0.0.1:50051",
		HTTPAddress:   "127.0.0.1:8081",
		UserID:        "user-1",
		AI:            AIConfig{APIKey: "secret"},
		Hold:          HoldConfig{Dwell: 3 * time.Second},
		Location:      &LocationConfig{Latitude: 28.6139, Longitude: 77.209},
	}

	require.NoError(t, Save(path, settings))

	loaded, err := LoadWithEnv(path, map[string]string{})
	require.NoError(t, err)
	require.Equal(t, settings.ServerAddress, loaded.ServerAddress)
	require.Equal(t, settings.HTTPAddress, loaded.HTTPAddress)
	require.Equal(t, "user-1", loaded.UserID)
	require.Equal(t, 3*time.Second, loaded.Hold.Dwell)
	require.Equal(t, settings.Location, loaded.Location)

	// The API key is never written to disk.
	require.Empty(t, loaded.AI.APIKey)

	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadWithEnv_Overrides verifies environment values take precedence over the file.
func TestLoadWithEnv_Overrides(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server_addr: 127.0.0.1:50051\nuser_id: from-file\n"), 0o600))

	loaded, err := LoadWithEnv(path, map[string]string{
		"SOS_AI_API_KEY":    "key-from-env",
		"SOS_AI_BASE_URL":   "http://127.0.0.1:9999/v1",
		"SOS_USER_ID":       "from-env",
		"SOS_OTEL_ENDPOINT": "http://127.0.0.1:4318/v1/traces",
	})
	require.NoError(t, err)
	require.Equal(t, "key-from-env", loaded.AI.APIKey)
	require.Equal(t, "http://127.0.0.1:9999/v1", loaded.AI.BaseURL)
	require.Equal(t, "from-env", loaded.UserID)
	require.Equal(t, "http://127.0.0.1:4318/v1/traces", loaded.Telemetry.Endpoint)
}

// TestLoad_MissingFile reports a read error.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}
