package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewConfigWithDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, "https://api.tidesandcurrents.noaa.gov", cfg.NOAABaseURL)
	assert.False(t, cfg.IsLocal())
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name  string
		opt   Option
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "environment",
			opt:  WithEnvironment("development"),
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "development", cfg.Environment)
				assert.True(t, cfg.IsLocal())
			},
		},
		{
			name: "log level",
			opt:  WithLogLevel("debug"),
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
			},
		},
		{
			name: "bad log level falls back to info",
			opt:  WithLogLevel("loud"),
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
			},
		},
		{
			name: "http timeout",
			opt:  WithHTTPTimeout(30 * time.Second),
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
			},
		},
		{
			name: "max retries",
			opt:  WithMaxRetries(-1),
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, -1, cfg.MaxRetries)
			},
		},
		{
			name: "base url",
			opt:  WithNOAABaseURL("http://localhost:9000"),
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://localhost:9000", cfg.NOAABaseURL)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, New(tt.opt))
		})
	}
}

func TestInitializeLogging(t *testing.T) {
	original := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(original)

	cfg := New(WithEnvironment("local"), WithLogLevel("debug"))
	cfg.InitializeLogging()

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("HTTP_MAX_RETRIES", "7")
	t.Setenv("NOAA_BASE_URL", "http://noaa.local")

	cfg := LoadFromEnv()

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 7, cfg.MaxRetries)
	assert.Equal(t, "http://noaa.local", cfg.NOAABaseURL)
}

func TestLoadFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	t.Setenv("HTTP_MAX_RETRIES", "many")

	cfg := LoadFromEnv()

	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestClientOptions(t *testing.T) {
	cfg := New(WithNOAABaseURL("http://noaa.local"), WithHTTPTimeout(2*time.Second), WithMaxRetries(-1))

	opts := cfg.ClientOptions()
	assert.Equal(t, "http://noaa.local", opts.BaseURL)
	assert.Equal(t, 2*time.Second, opts.Timeout)
	assert.Equal(t, -1, opts.MaxRetries)
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{value: "yes", def: false, want: true},
		{value: "1", def: false, want: true},
		{value: "no", def: true, want: false},
		{value: "0", def: true, want: false},
		{value: "maybe", def: true, want: true},
		{value: "", def: true, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TIDETRACKER_TEST_FLAG", tt.value)
			assert.Equal(t, tt.want, getEnvBool("TIDETRACKER_TEST_FLAG", tt.def))
		})
	}
}
