package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the complete medner configuration.
// Values come from defaults, then the config file, then MEDNER_* env vars, then flags.
type Config struct {
	API    APIConfig    `yaml:"api" mapstructure:"api"`
	Input  InputConfig  `yaml:"input" mapstructure:"input"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Export ExportConfig `yaml:"export" mapstructure:"export"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// APIConfig describes how to reach the analysis service
type APIConfig struct {
	BaseURL      string          `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	Timeout      time.Duration   `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"` // 0 = no client timeout
	UserAgent    string          `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64           `yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"gt=0"`
	HTTPProxy    string          `yaml:"http_proxy,omitempty" mapstructure:"http_proxy" validate:"omitempty,url"`
	HTTPSProxy   string          `yaml:"https_proxy,omitempty" mapstructure:"https_proxy" validate:"omitempty,url"`
	RateLimit    RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// RateLimitConfig throttles calls to the service. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gte=0"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size" validate:"gte=0"`
}

// InputConfig bounds the submitted text length in characters.
// MaxLength 0 means unbounded.
type InputConfig struct {
	MinLength int `yaml:"min_length" mapstructure:"min_length" validate:"gte=0"`
	MaxLength int `yaml:"max_length" mapstructure:"max_length" validate:"gte=0"`
}

// ServerConfig configures the web UI
type ServerConfig struct {
	Addr              string        `yaml:"addr" mapstructure:"addr" validate:"required"`
	CSRFKey           string        `yaml:"csrf_key,omitempty" mapstructure:"csrf_key" validate:"omitempty,len=32"`
	SecureCookies     bool          `yaml:"secure_cookies" mapstructure:"secure_cookies"`
	TrustedOrigins    []string      `yaml:"trusted_origins,omitempty" mapstructure:"trusted_origins"`
	ScrollDelay       time.Duration `yaml:"scroll_delay" mapstructure:"scroll_delay" validate:"gte=0"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" mapstructure:"read_header_timeout" validate:"gt=0"`
}

// CacheConfig controls caching of the service's entity type catalogue
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir,omitempty" mapstructure:"dir"` // empty = memory only
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl" validate:"gte=0"`
}

// RenderConfig controls result rendering
type RenderConfig struct {
	// SanitizeAnnotated strips the service's annotated markup down to inline
	// highlighting elements. Off by default: the service is trusted.
	SanitizeAnnotated bool `yaml:"sanitize_annotated" mapstructure:"sanitize_annotated"`
}

// ExportConfig controls where export artifacts are written
type ExportConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir" validate:"required"`
}

// LogConfig holds the log level
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
}

// DefaultConfig returns the shipped configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:      "http://localhost:5000/api",
			UserAgent:    "medner/0.3",
			MaxBodyBytes: 10 << 20,
			RateLimit: RateLimitConfig{
				BurstSize: 1,
			},
		},
		Input: InputConfig{
			MinLength: 1,
		},
		Server: ServerConfig{
			Addr:              ":8080",
			ScrollDelay:       100 * time.Millisecond,
			ReadHeaderTimeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var validate = validator.New()

// Validate checks field constraints and the cross-field input bounds
func (c *Config) Validate() error {
	var errs []error

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("%s: failed %q constraint", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}

	if c.Input.MaxLength > 0 && c.Input.MaxLength < c.Input.MinLength {
		errs = append(errs, fmt.Errorf("input.max_length (%d) is below input.min_length (%d)", c.Input.MaxLength, c.Input.MinLength))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
