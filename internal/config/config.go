package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidetracker/pkg/http/client"
)

const defaultNOAABaseURL = "https://api.tidesandcurrents.noaa.gov"

// Config is the process-wide setup shared by every binary: environment,
// logging and how NOAA is reached.
type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	MaxRetries  int
	NOAABaseURL string
}

type Option func(*Config)

func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel parses a zerolog level name; unknown names mean info.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil || level == "" {
			parsed = zerolog.InfoLevel
		}
		c.LogLevel = parsed
	}
}

func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

// WithMaxRetries sets NOAA retries. Negative disables them.
func WithMaxRetries(n int) Option {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

func WithNOAABaseURL(url string) Option {
	return func(c *Config) {
		c.NOAABaseURL = url
	}
}

func New(opts ...Option) *Config {
	cfg := &Config{
		Environment: "production",
		LogLevel:    zerolog.InfoLevel,
		HTTPTimeout: 10 * time.Second,
		MaxRetries:  3,
		NOAABaseURL: defaultNOAABaseURL,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// InitializeLogging configures the global zerolog logger. Local environments
// get human-readable console output.
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.IsLocal() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

func (c *Config) IsLocal() bool {
	return c.Environment == "local" || c.Environment == "development"
}

// ClientOptions returns the settings for the NOAA HTTP client.
func (c *Config) ClientOptions() client.Options {
	return client.Options{
		BaseURL:    c.NOAABaseURL,
		Timeout:    c.HTTPTimeout,
		MaxRetries: c.MaxRetries,
	}
}

// LoadFromEnv reads ENV, LOG_LEVEL, HTTP_TIMEOUT, HTTP_MAX_RETRIES and
// NOAA_BASE_URL. Unparseable values are logged and replaced by defaults.
func LoadFromEnv() *Config {
	return New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(envValue("HTTP_TIMEOUT", 10*time.Second, time.ParseDuration)),
		WithMaxRetries(getEnvInt("HTTP_MAX_RETRIES", 3)),
		WithNOAABaseURL(getEnvOrDefault("NOAA_BASE_URL", defaultNOAABaseURL)),
	)
}

// envValue parses key with parse, falling back to def when the variable is
// unset or invalid.
func envValue[T any](key string, def T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Invalid environment value, using default")
		return def
	}
	return v
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	return envValue(key, def, strconv.Atoi)
}

func getEnvBool(key string, def bool) bool {
	return envValue(key, def, func(s string) (bool, error) {
		switch s {
		case "true", "1", "yes":
			return true, nil
		case "false", "0", "no":
			return false, nil
		}
		return false, strconv.ErrSyntax
	})
}
