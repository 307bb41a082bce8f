package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix for every environment variable read by Load.
const EnvPrefix = "ESGDASH"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" split_words:"true"`
	Security  SecurityConfig  `yaml:"security" split_words:"true"`
	Logging   LoggingConfig   `yaml:"logging" split_words:"true"`
	Dataset   DatasetConfig   `yaml:"dataset" split_words:"true"`
	Dashboard DashboardConfig `yaml:"dashboard" split_words:"true"`
	Telemetry TelemetryConfig `yaml:"telemetry" split_words:"true"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" split_words:"true" default:"127.0.0.1"`
	Port            int           `yaml:"port" split_words:"true" default:"8501"`
	ReadTimeout     time.Duration `yaml:"read_timeout" split_words:"true" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" split_words:"true" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" split_words:"true" default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" split_words:"true" default:"20s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" default:"10s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" split_words:"true" default:"http://localhost:8501"`
	EnableCORS     bool            `yaml:"enable_cors" split_words:"true" default:"false"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" split_words:"true"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" split_words:"true" default:"true"`
	RPS     float64 `yaml:"rps" split_words:"true" default:"50"`
	Burst   int     `yaml:"burst" split_words:"true" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" split_words:"true" default:"info"`
	Output   string `yaml:"output" split_words:"true" default:"console"`
	Format   string `yaml:"format" split_words:"true" default:"json"`
	FilePath string `yaml:"file_path" split_words:"true" default:"logs/esgdash.log"`
}

// DatasetConfig controls where the company table is loaded from.
// Path, when set, is tried before Candidates.
type DatasetConfig struct {
	Path       string   `yaml:"path" split_words:"true"`
	Candidates []string `yaml:"candidates" split_words:"true" default:"sp500esg.csv,esg_project/sp500esg.csv,data/sp500esg.csv"`
}

// DashboardConfig holds widget defaults and chart geometry.
type DashboardConfig struct {
	DefaultTopN int    `yaml:"default_top_n" split_words:"true" default:"15"`
	ChartWidth  int    `yaml:"chart_width" split_words:"true" default:"10"`
	ChartHeight int    `yaml:"chart_height" split_words:"true" default:"6"`
	ChartFormat string `yaml:"chart_format" split_words:"true" default:"png"`
}

// TelemetryConfig toggles OpenTelemetry exporters.
type TelemetryConfig struct {
	Environment   string  `yaml:"environment" split_words:"true" default:"development"`
	EnableMetrics bool    `yaml:"enable_metrics" split_words:"true" default:"true"`
	EnableTracing bool    `yaml:"enable_tracing" split_words:"true" default:"false"`
	SampleRatio   float64 `yaml:"sample_ratio" split_words:"true" default:"1.0"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit YAML file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg, *Default())
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays file values on top of env values that were left at
// their defaults. An explicitly exported variable always wins.
func mergeConfigs(fileConfig, envConfig, defaults Config) Config {
	out := envConfig

	out.Server.Host = pick(envConfig.Server.Host, defaults.Server.Host, fileConfig.Server.Host)
	out.Server.Port = pick(envConfig.Server.Port, defaults.Server.Port, fileConfig.Server.Port)
	out.Server.ReadTimeout = pick(envConfig.Server.ReadTimeout, defaults.Server.ReadTimeout, fileConfig.Server.ReadTimeout)
	out.Server.WriteTimeout = pick(envConfig.Server.WriteTimeout, defaults.Server.WriteTimeout, fileConfig.Server.WriteTimeout)
	out.Server.IdleTimeout = pick(envConfig.Server.IdleTimeout, defaults.Server.IdleTimeout, fileConfig.Server.IdleTimeout)
	out.Server.RequestTimeout = pick(envConfig.Server.RequestTimeout, defaults.Server.RequestTimeout, fileConfig.Server.RequestTimeout)
	out.Server.ShutdownTimeout = pick(envConfig.Server.ShutdownTimeout, defaults.Server.ShutdownTimeout, fileConfig.Server.ShutdownTimeout)

	if len(fileConfig.Security.AllowedOrigins) > 0 && equalStrings(envConfig.Security.AllowedOrigins, defaults.Security.AllowedOrigins) {
		out.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	out.Security.RateLimit.RPS = pick(envConfig.Security.RateLimit.RPS, defaults.Security.RateLimit.RPS, fileConfig.Security.RateLimit.RPS)
	out.Security.RateLimit.Burst = pick(envConfig.Security.RateLimit.Burst, defaults.Security.RateLimit.Burst, fileConfig.Security.RateLimit.Burst)

	out.Logging.Level = pick(envConfig.Logging.Level, defaults.Logging.Level, fileConfig.Logging.Level)
	out.Logging.Output = pick(envConfig.Logging.Output, defaults.Logging.Output, fileConfig.Logging.Output)
	out.Logging.Format = pick(envConfig.Logging.Format, defaults.Logging.Format, fileConfig.Logging.Format)
	out.Logging.FilePath = pick(envConfig.Logging.FilePath, defaults.Logging.FilePath, fileConfig.Logging.FilePath)

	out.Dataset.Path = pick(envConfig.Dataset.Path, defaults.Dataset.Path, fileConfig.Dataset.Path)
	if len(fileConfig.Dataset.Candidates) > 0 && equalStrings(envConfig.Dataset.Candidates, defaults.Dataset.Candidates) {
		out.Dataset.Candidates = fileConfig.Dataset.Candidates
	}

	out.Dashboard.DefaultTopN = pick(envConfig.Dashboard.DefaultTopN, defaults.Dashboard.DefaultTopN, fileConfig.Dashboard.DefaultTopN)
	out.Dashboard.ChartWidth = pick(envConfig.Dashboard.ChartWidth, defaults.Dashboard.ChartWidth, fileConfig.Dashboard.ChartWidth)
	out.Dashboard.ChartHeight = pick(envConfig.Dashboard.ChartHeight, defaults.Dashboard.ChartHeight, fileConfig.Dashboard.ChartHeight)
	out.Dashboard.ChartFormat = pick(envConfig.Dashboard.ChartFormat, defaults.Dashboard.ChartFormat, fileConfig.Dashboard.ChartFormat)

	out.Telemetry.Environment = pick(envConfig.Telemetry.Environment, defaults.Telemetry.Environment, fileConfig.Telemetry.Environment)
	out.Telemetry.SampleRatio = pick(envConfig.Telemetry.SampleRatio, defaults.Telemetry.SampleRatio, fileConfig.Telemetry.SampleRatio)

	return out
}

// pick returns fileVal when envVal is still the default and fileVal is set.
func pick[T comparable](envVal, defVal, fileVal T) T {
	var zero T
	if envVal == defVal && fileVal != zero {
		return fileVal
	}
	return envVal
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Dashboard.DefaultTopN < MinTopN || c.Dashboard.DefaultTopN > MaxTopN {
		return fmt.Errorf("dashboard default_top_n must be between %d and %d, got %d", MinTopN, MaxTopN, c.Dashboard.DefaultTopN)
	}

	if c.Dashboard.ChartWidth <= 0 || c.Dashboard.ChartHeight <= 0 {
		return fmt.Errorf("chart dimensions must be positive")
	}

	switch strings.ToLower(c.Dashboard.ChartFormat) {
	case "png", "svg":
		c.Dashboard.ChartFormat = strings.ToLower(c.Dashboard.ChartFormat)
	default:
		return fmt.Errorf("unsupported chart format: %s", c.Dashboard.ChartFormat)
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
		c.Logging.Format = strings.ToLower(c.Logging.Format)
	default:
		c.Logging.Format = "json"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/esgdash.log"
	}

	return nil
}

// DatasetCandidates returns the ordered list of paths the loader should try.
// An explicit path comes first; duplicates are dropped.
func (c *Config) DatasetCandidates() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	add(c.Dataset.Path)
	for _, p := range c.Dataset.Candidates {
		add(p)
	}
	return out
}

// Address returns host:port for the HTTP listener.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8501,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  20 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8501"},
			EnableCORS:     false,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			Format:   "json",
			FilePath: "logs/esgdash.log",
		},
		Dataset: DatasetConfig{
			Candidates: []string{"sp500esg.csv", "esg_project/sp500esg.csv", "data/sp500esg.csv"},
		},
		Dashboard: DashboardConfig{
			DefaultTopN: DefaultTopN,
			ChartWidth:  10,
			ChartHeight: 6,
			ChartFormat: "png",
		},
		Telemetry: TelemetryConfig{
			Environment:   "development",
			EnableMetrics: true,
			EnableTracing: false,
			SampleRatio:   1.0,
		},
	}
}
