package config

import (
	"errors"
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the sos binaries.
type Config struct {
	// ServerAddress is the gRPC address of the safety service.
	ServerAddress string `yaml:"server_addr"`
	// HTTPAddress is the address of the HTTP API serving the chat relay.
	HTTPAddress string `yaml:"http_addr"`
	// Database is the path to the SQLite database file.
	Database string `yaml:"database"`
	// Timeout bounds network operations and RPC calls.
	Timeout time.Duration `yaml:"timeout"`
	// UserID identifies the client user towards the service.
	UserID string `yaml:"user_id"`
	// AI configures the chat completion provider used by the relay.
	AI AIConfig `yaml:"ai"`
	// Hold configures the press-and-hold activation timings.
	Hold HoldConfig `yaml:"hold"`
	// FakeCall configures the simulated incoming call.
	FakeCall FakeCallConfig `yaml:"fake_call"`
	// Siren configures the audible alert signal.
	Siren SirenConfig `yaml:"siren"`
	// Location holds static device coordinates; nil means location is unavailable.
	Location *LocationConfig `yaml:"location,omitempty"`
	// Telemetry configures trace export.
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	// Endpoint is the OTLP/HTTP traces URL; empty disables tracing.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// AIConfig configures the OpenAI-compatible completion endpoint.
type AIConfig struct {
	// BaseURL is the API root, e.g. https://ai.gateway.lovable.dev/v1.
	BaseURL string `yaml:"base_url"`
	// Model is the model identifier sent with each completion.
	Model string `yaml:"model"`
	// APIKey is the bearer credential. Prefer SOS_AI_API_KEY over storing it here.
	APIKey string `yaml:"api_key,omitempty"`
}

// HoldConfig configures the press-and-hold control.
type HoldConfig struct {
	// Dwell is how long the press must be held before activation.
	Dwell time.Duration `yaml:"dwell"`
	// Tick is the progress update interval.
	Tick time.Duration `yaml:"tick"`
	// Step is the progress increment per tick, in percent.
	Step int `yaml:"step"`
	// Display is how long the activated state lasts before winding down.
	Display time.Duration `yaml:"display"`
	// ContactLimit is how many contacts are fetched for notification.
	ContactLimit int `yaml:"contact_limit"`
}

// FakeCallConfig configures the simulated incoming call.
type FakeCallConfig struct {
	// Caller is the name shown on the incoming call screen.
	Caller string `yaml:"caller"`
	// Duration is the auto-dismiss delay.
	Duration time.Duration `yaml:"duration"`
}

// SirenConfig configures the audible signal.
type SirenConfig struct {
	// Command is an external player invocation looped while the siren is on.
	// An empty command falls back to the terminal bell.
	Command []string `yaml:"command,omitempty"`
	// BellInterval is the pause between terminal bells.
	BellInterval time.Duration `yaml:"bell_interval"`
}

// LocationConfig holds static device coordinates.
type LocationConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "sos-settings.yaml"
	// DefaultDatabaseFilename is the default SQLite database file.
	DefaultDatabaseFilename = "sos.db"
	// DefaultHTTPAddress is where the HTTP API listens when not configured.
	DefaultHTTPAddress = "127.0.0.1:8080"
	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultAIBaseURL is the completion gateway used when none is configured.
	DefaultAIBaseURL = "https://ai.gateway.lovable.dev/v1"
	// DefaultAIModel is the completion model used when none is configured.
	DefaultAIModel = "google/gemini-2.5-flash"

	// DefaultDwell is the press duration required for activation.
	DefaultDwell = 5 * time.Second
	// DefaultTick is the progress update interval.
	DefaultTick = 100 * time.Millisecond
	// DefaultStep is the progress increment per tick, in percent.
	DefaultStep = 2
	// DefaultDisplay is how long the activated state lasts.
	DefaultDisplay = 10 * time.Second
	// DefaultContactLimit is how many contacts are notified on activation.
	DefaultContactLimit = 3

	// DefaultCaller is the fake call caller name.
	DefaultCaller = "Raj"
	// DefaultFakeCallDuration is the fake call auto-dismiss delay.
	DefaultFakeCallDuration = 10 * time.Second
	// DefaultBellInterval is the pause between terminal bells.
	DefaultBellInterval = time.Second

	// DefaultFilePermissions is the file mode for written settings.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerAddressRequired is returned when the gRPC address is missing.
	errServerAddressRequired = errors.New("server address must be provided")
	// errInvalidHold is returned for non-positive hold timings.
	errInvalidHold = errors.New("hold timings must be positive and step within 1..100")
	// errInvalidLocation is returned for coordinates outside the valid range.
	errInvalidLocation = errors.New("location coordinates out of range")
)

// overrides lists values taken from the environment.
type overrides struct {
	APIKey    string `env:"SOS_AI_API_KEY"`
	AIBaseURL string `env:"SOS_AI_BASE_URL"`
	UserID    string `env:"SOS_USER_ID"`
	Endpoint  string `env:"SOS_OTEL_ENDPOINT"`
}

// Load reads settings from path, overlays the process environment and validates the result.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, env.ToMap(os.Environ()))
}

// LoadWithEnv is Load with an explicit environment.
func LoadWithEnv(path string, environ map[string]string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := applyEnv(&cfg, environ); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes settings to path. The API key is never written.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	persisted := *cfg
	persisted.AI.APIKey = ""

	data, err := yaml.Marshal(&persisted)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults for optional ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ServerAddress == "" {
		return errServerAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	if cfg.HTTPAddress == "" {
		cfg.HTTPAddress = DefaultHTTPAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.HTTPAddress); err != nil {
		return fmt.Errorf("invalid http address: %w", err)
	}

	if cfg.Database == "" {
		cfg.Database = DefaultDatabaseFilename
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if err := validateAI(&cfg.AI); err != nil {
		return err
	}

	if err := validateHold(&cfg.Hold); err != nil {
		return err
	}

	if cfg.FakeCall.Caller == "" {
		cfg.FakeCall.Caller = DefaultCaller
	}

	if cfg.FakeCall.Duration <= 0 {
		cfg.FakeCall.Duration = DefaultFakeCallDuration
	}

	if cfg.Siren.BellInterval <= 0 {
		cfg.Siren.BellInterval = DefaultBellInterval
	}

	if endpoint := cfg.Telemetry.Endpoint; endpoint != "" {
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return fmt.Errorf("invalid telemetry endpoint: %w", err)
		}
	}

	if loc := cfg.Location; loc != nil {
		if math.Abs(loc.Latitude) > 90 || math.Abs(loc.Longitude) > 180 {
			return errInvalidLocation
		}
	}

	return nil
}

// validateAI fills completion defaults and checks the base URL.
func validateAI(ai *AIConfig) error {
	if ai.BaseURL == "" {
		ai.BaseURL = DefaultAIBaseURL
	}

	if ai.Model == "" {
		ai.Model = DefaultAIModel
	}

	if _, err := url.ParseRequestURI(ai.BaseURL); err != nil {
		return fmt.Errorf("invalid AI base URL: %w", err)
	}

	return nil
}

// validateHold fills zero timings with defaults and rejects negative ones.
func validateHold(h *HoldConfig) error {
	if h.Dwell == 0 {
		h.Dwell = DefaultDwell
	}

	if h.Tick == 0 {
		h.Tick = DefaultTick
	}

	if h.Step == 0 {
		h.Step = DefaultStep
	}

	if h.Display == 0 {
		h.Display = DefaultDisplay
	}

	if h.ContactLimit <= 0 {
		h.ContactLimit = DefaultContactLimit
	}

	if h.Dwell < 0 || h.Tick < 0 || h.Display < 0 || h.Step < 0 || h.Step > 100 {
		return errInvalidHold
	}

	return nil
}

// applyEnv overlays non-empty environment values onto cfg.
func applyEnv(cfg *Config, environ map[string]string) error {
	var o overrides

	//nolint:exhaustruct // Only the environment source is customised.
	if err := env.ParseWithOptions(&o, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if o.APIKey != "" {
		cfg.AI.APIKey = o.APIKey
	}

	if o.AIBaseURL != "" {
		cfg.AI.BaseURL = o.AIBaseURL
	}

	if o.UserID != "" {
		cfg.UserID = o.UserID
	}

	if o.Endpoint != "" {
		cfg.Telemetry.Endpoint = o.Endpoint
	}

	return nil
}
