// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonathan/freelance-agent/internal/schemas"
	schemafiles "github.com/jonathan/freelance-agent/schemas"
)

// Defaults
const (
	DefaultAPIURL        = "http://localhost:5000/api"
	DefaultRedisKey      = "freelance_agent:session"
	DefaultTimeout       = 30 * time.Second
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultWatchSchedule = "@every 30m"
)

// Session storage backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Environment variables read by FromEnv.
const (
	EnvAPIURL         = "FREELANCE_API_URL"
	EnvSessionBackend = "FREELANCE_SESSION_BACKEND"
	EnvSessionFile    = "FREELANCE_SESSION_FILE"
	EnvRedisURL       = "REDIS_URL"
	EnvRedisKey       = "FREELANCE_REDIS_KEY"
	EnvLogLevel       = "FREELANCE_LOG_LEVEL"
	EnvLogFormat      = "FREELANCE_LOG_FORMAT"
	EnvOTLPEndpoint   = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvMetricsAddr    = "FREELANCE_METRICS_ADDR"
	EnvWatchSchedule  = "FREELANCE_WATCH_SCHEDULE"
	EnvTimeout        = "FREELANCE_TIMEOUT"
)

// Duration is a time.Duration written as a Go duration string ("30s") in JSON.
type Duration struct {
	time.Duration
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults, environment variables or CLI flags.
type Config struct {
	// Backend
	APIURL  string   `json:"api_url,omitempty"` // Backend API root
	Timeout Duration `json:"timeout,omitzero"`  // Per-request timeout

	// Session storage
	SessionBackend string `json:"session_backend,omitempty"` // file, redis or memory
	SessionFile    string `json:"session_file,omitempty"`    // Path for the file backend
	RedisURL       string `json:"redis_url,omitempty"`       // Connection URL for the redis backend
	RedisKey       string `json:"redis_key,omitempty"`       // Hash key holding the session

	// Observability
	LogLevel     string `json:"log_level,omitempty"`
	LogFormat    string `json:"log_format,omitempty"`
	OTLPEndpoint string `json:"otlp_endpoint,omitempty"` // Empty disables tracing
	MetricsAddr  string `json:"metrics_addr,omitempty"`  // Empty disables the metrics endpoint

	// Watch
	WatchSchedule string `json:"watch_schedule,omitempty"` // Cron spec for scheduled job searches
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		Timeout:        Duration{DefaultTimeout},
		SessionBackend: BackendFile,
		SessionFile:    DefaultSessionFile(),
		RedisKey:       DefaultRedisKey,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		WatchSchedule:  DefaultWatchSchedule,
	}
}

// DefaultSessionFile returns ~/.freelance_agent/session.json, or a path relative to the
// working directory when the home directory is unknown.
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".freelance_agent", "session.json")
	}
	return filepath.Join(home, ".freelance_agent", "session.json")
}

// LoadConfig loads configuration from a JSON file and checks it against the
// configuration schema. Returns an error if the file cannot be read, parsed or validated.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := schemas.ValidateNamed(schemafiles.ConfigSchemaName, schemafiles.ConfigSchema, data); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables using lookup (os.LookupEnv in
// production). Unset variables leave fields empty.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := Config{
		APIURL:         get(EnvAPIURL),
		SessionBackend: get(EnvSessionBackend),
		SessionFile:    get(EnvSessionFile),
		RedisURL:       get(EnvRedisURL),
		RedisKey:       get(EnvRedisKey),
		LogLevel:       get(EnvLogLevel),
		LogFormat:      get(EnvLogFormat),
		OTLPEndpoint:   get(EnvOTLPEndpoint),
		MetricsAddr:    get(EnvMetricsAddr),
		WatchSchedule:  get(EnvWatchSchedule),
	}

	if raw := get(EnvTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config error: %s: invalid duration %q", EnvTimeout, raw)
		}
		cfg.Timeout = Duration{d}
	}

	return cfg, nil
}

// Load resolves the configuration from, in order of precedence, the environment, the
// optional config file and the built-in defaults. CLI flags are applied by the caller.
func Load(path string, lookup func(string) (string, bool)) (Config, error) {
	env, err := FromEnv(lookup)
	if err != nil {
		return Config{}, err
	}

	file := Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		file = *loaded
	}

	merged := env.MergeWithDefaults(file)
	return merged.MergeWithDefaults(Default()), nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config error: 'api_url' must be an http(s) URL, got %q", c.APIURL)
	}

	if c.Timeout.Duration < 0 {
		return fmt.Errorf("config error: 'timeout' must be non-negative")
	}

	switch c.SessionBackend {
	case BackendFile:
		if c.SessionFile == "" {
			return fmt.Errorf("config error: 'session_file' is required for the file backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("config error: 'redis_url' is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("config error: unknown 'session_backend' %q (expected file, redis or memory)", c.SessionBackend)
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config error: unknown 'log_level' %q", c.LogLevel)
	}

	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: unknown 'log_format' %q", c.LogFormat)
	}

	if c.WatchSchedule != "" {
		if _, err := cron.ParseStandard(c.WatchSchedule); err != nil {
			return fmt.Errorf("config error: invalid 'watch_schedule' %q: %w", c.WatchSchedule, err)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fill := func(field *string, def string) {
		if *field == "" {
			*field = def
		}
	}
	fill(&result.APIURL, defaults.APIURL)
	fill(&result.SessionBackend, defaults.SessionBackend)
	fill(&result.SessionFile, defaults.SessionFile)
	fill(&result.RedisURL, defaults.RedisURL)
	fill(&result.RedisKey, defaults.RedisKey)
	fill(&result.LogLevel, defaults.LogLevel)
	fill(&result.LogFormat, defaults.LogFormat)
	fill(&result.OTLPEndpoint, defaults.OTLPEndpoint)
	fill(&result.MetricsAddr, defaults.MetricsAddr)
	fill(&result.WatchSchedule, defaults.WatchSchedule)

	// Duration fields: use default if zero
	if result.Timeout.Duration == 0 {
		result.Timeout = defaults.Timeout
	}

	return result
}
