package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/advait-mulye/medner/internal/cache"
	"github.com/advait-mulye/medner/internal/client"
	"github.com/advait-mulye/medner/internal/input"
	"github.com/advait-mulye/medner/internal/logger"
	"github.com/advait-mulye/medner/internal/model"
)

const cacheCleanupInterval = 10 * time.Minute

// registerDefaults makes every config key known to v so MEDNER_* variables
// reach keys the config file leaves out
func registerDefaults(v *viper.Viper) {
	d := model.DefaultConfig()

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.user_agent", d.API.UserAgent)
	v.SetDefault("api.max_body_bytes", d.API.MaxBodyBytes)
	v.SetDefault("api.http_proxy", d.API.HTTPProxy)
	v.SetDefault("api.https_proxy", d.API.HTTPSProxy)
	v.SetDefault("api.rate_limit.requests_per_second", d.API.RateLimit.RequestsPerSecond)
	v.SetDefault("api.rate_limit.burst_size", d.API.RateLimit.BurstSize)

	v.SetDefault("input.min_length", d.Input.MinLength)
	v.SetDefault("input.max_length", d.Input.MaxLength)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.csrf_key", d.Server.CSRFKey)
	v.SetDefault("server.secure_cookies", d.Server.SecureCookies)
	v.SetDefault("server.trusted_origins", []string{})
	v.SetDefault("server.scroll_delay", d.Server.ScrollDelay)
	v.SetDefault("server.read_header_timeout", d.Server.ReadHeaderTimeout)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)

	v.SetDefault("render.sanitize_annotated", d.Render.SanitizeAnnotated)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("log.level", d.Log.Level)
}

// loadConfig builds and validates the effective configuration and applies
// its log level
func loadConfig() (*model.Config, error) {
	if configErr != nil {
		return nil, configErr
	}

	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if strict {
		s := input.Strict()
		cfg.Input.MinLength, cfg.Input.MaxLength = s.MinLength, s.MaxLength
	}
	if verbose && cfg.Log.Level == "info" {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.SetLevel(cfg.Log.Level)
	return cfg, nil
}

func validatorFor(cfg *model.Config) input.Validator {
	return input.Validator{MinLength: cfg.Input.MinLength, MaxLength: cfg.Input.MaxLength}
}

// newCache returns nil when caching is disabled. A cache dir adds a disk
// layer behind memory.
func newCache(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Dir == "" {
		return cache.NewMemoryCache(cfg.Cache.TTL, cacheCleanupInterval)
	}
	return cache.NewMemoryDiskCache(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
}

func newClient(cfg *model.Config) *client.Client {
	opts := []client.Option{client.WithLogger(logger.Get())}
	if c := newCache(cfg); c != nil {
		opts = append(opts, client.WithCache(c, cfg.Cache.TTL))
	}
	return client.New(cfg.API, opts...)
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage medner configuration",
	Long: `Manage medner configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (MEDNER_*, also read from .env)
3. Config file (~/.medner/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if f := viper.ConfigFileUsed(); f != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", f)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (defaults and environment)\n\n")
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long:  `Create ~/.medner/config.yaml (or the --config path) holding every option at its default.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("find home directory: %w", err)
			}
			path = filepath.Join(home, ".medner", "config.yaml")
		}

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'medner config show' to view it, or delete it first to recreate", path)
		}

		data, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		header := "# medner configuration\n" +
			"#\n" +
			"# Priority (highest first): CLI flags, MEDNER_* environment variables,\n" +
			"# this file, built-in defaults. Nested keys map to variables with\n" +
			"# dots replaced by underscores, e.g. MEDNER_API_BASE_URL.\n" +
			"#\n" +
			"# input.min_length 10 and input.max_length 10000 reproduce --strict.\n" +
			"# server.csrf_key must be exactly 32 bytes to enable CSRF protection.\n\n"

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
		if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Created default configuration: %s\n", path)
		fmt.Fprintf(out, "\nTo view the effective configuration:\n  medner config show\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
