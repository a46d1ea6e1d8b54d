package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/eldadfux/isAWSback/internal/constants"
)

// LoadConfig loads configuration with precedence:
// 1. Explicit CLI flags (highest priority)
// 2. Environment variables
// 3. Configuration file values
// 4. Default configuration values (lowest priority)
func LoadConfig(configFile string, cliFlags *CLIFlags) (*Config, error) {
	config := DefaultConfig()

	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		config = fileConfig
	}

	loadFromEnv(config)

	if cliFlags != nil {
		overrideWithCLI(config, cliFlags)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// CLIFlags contains CLI flag values that can override configuration.
// Only flags the user explicitly set take effect.
type CLIFlags struct {
	Host             *string
	Port             *string
	MetricsPort      *string
	ReadTimeout      *time.Duration
	WriteTimeout     *time.Duration
	IdleTimeout      *time.Duration
	ShutdownTimeout  *time.Duration
	FeedURL          *string
	UserAgent        *string
	FetchTimeout     *time.Duration
	Freshness        *time.Duration
	RateLimitEnabled *bool
	RateLimitRPS     *int
	HotReload        *bool
	LogLevel         *string
}

// loadFromFile loads configuration from a YAML or JSON file. The file is
// unmarshalled over the defaults, so absent fields keep their default values
// and an explicit false still takes effect.
func loadFromFile(filePath string) (*Config, error) {
	if !filepath.IsAbs(filePath) {
		absPath, err := filepath.Abs(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for %s: %w", filePath, err)
		}
		filePath = absPath
	}

	if strings.Contains(filepath.Clean(filePath), "..") {
		return nil, fmt.Errorf("config file path %s contains directory traversal", filePath)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 - path cleaned above
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	config := DefaultConfig()
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".json":
		err = json.Unmarshal(data, config)
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
	}

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(config *Config) {
	if val := os.Getenv(constants.EnvHost); val != "" {
		config.Server.Host = val
	}
	if val := os.Getenv(constants.EnvPort); val != "" {
		config.Server.Port = val
	}
	if val := os.Getenv(constants.EnvMetricsPort); val != "" {
		config.Server.MetricsPort = val
	}
	if val := os.Getenv(constants.EnvReadTimeout); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Server.ReadTimeout = duration
		}
	}
	if val := os.Getenv(constants.EnvWriteTimeout); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Server.WriteTimeout = duration
		}
	}
	if val := os.Getenv(constants.EnvIdleTimeout); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Server.IdleTimeout = duration
		}
	}
	if val := os.Getenv(constants.EnvShutdownTimeout); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Server.ShutdownTimeout = duration
		}
	}
	if val := os.Getenv(constants.EnvFeedURL); val != "" {
		config.Feed.URL = val
	}
	if val := os.Getenv(constants.EnvUserAgent); val != "" {
		config.Feed.UserAgent = val
	}
	if val := os.Getenv(constants.EnvFetchTimeout); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Feed.FetchTimeout = duration
		}
	}
	if val := os.Getenv(constants.EnvFreshness); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.Feed.Freshness = duration
		}
	}
	if val := os.Getenv(constants.EnvHotReload); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			config.HotReload.Enabled = enabled
		}
	}
	if val := os.Getenv(constants.EnvLogLevel); val != "" {
		config.Observability.Logging.Level = val
	}
}

// overrideWithCLI overrides configuration with CLI flag values.
// Only explicitly set CLI flags override other configuration sources.
func overrideWithCLI(config *Config, flags *CLIFlags) {
	if flags.Host != nil && flagChanged("host") {
		config.Server.Host = *flags.Host
	}
	if flags.Port != nil && flagChanged("port") {
		config.Server.Port = *flags.Port
	}
	if flags.MetricsPort != nil && flagChanged("metrics-port") {
		config.Server.MetricsPort = *flags.MetricsPort
	}
	if flags.ReadTimeout != nil && flagChanged("read-timeout") {
		config.Server.ReadTimeout = *flags.ReadTimeout
	}
	if flags.WriteTimeout != nil && flagChanged("write-timeout") {
		config.Server.WriteTimeout = *flags.WriteTimeout
	}
	if flags.IdleTimeout != nil && flagChanged("idle-timeout") {
		config.Server.IdleTimeout = *flags.IdleTimeout
	}
	if flags.ShutdownTimeout != nil && flagChanged("shutdown-timeout") {
		config.Server.ShutdownTimeout = *flags.ShutdownTimeout
	}
	if flags.FeedURL != nil && flagChanged("feed-url") {
		config.Feed.URL = *flags.FeedURL
	}
	if flags.UserAgent != nil && flagChanged("user-agent") {
		config.Feed.UserAgent = *flags.UserAgent
	}
	if flags.FetchTimeout != nil && flagChanged("fetch-timeout") {
		config.Feed.FetchTimeout = *flags.FetchTimeout
	}
	if flags.Freshness != nil && flagChanged("freshness") {
		config.Feed.Freshness = *flags.Freshness
	}
	if flags.RateLimitEnabled != nil && flagChanged("rate-limit-enabled") {
		config.Security.RateLimit.Enabled = *flags.RateLimitEnabled
	}
	if flags.RateLimitRPS != nil && flagChanged("rate-limit-rps") {
		config.Security.RateLimit.RequestsPerSecond = *flags.RateLimitRPS
	}
	if flags.HotReload != nil && flagChanged("hot-reload") {
		config.HotReload.Enabled = *flags.HotReload
	}
	if flags.LogLevel != nil && flagChanged("log-level") {
		config.Observability.Logging.Level = *flags.LogLevel
	}
}

// flagChanged reports whether a flag was explicitly set on the command line.
// Flags registered under test or not registered at all count as set, so that
// CLIFlags populated directly in tests still apply.
func flagChanged(name string) bool {
	f := pflag.Lookup(name)
	if f == nil {
		return true
	}
	return f.Changed
}
