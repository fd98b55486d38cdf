package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"ecomlens/internal/analytics"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/ecomlens.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	OrdersFile string `yaml:"orders_file" envconfig:"ORDERS_FILE" default:"orders.csv"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// AnalyticsConfig carries the default analysis parameters. Request parameters
// override these per call; the engine still validates ranges.
type AnalyticsConfig struct {
	Clusters     int `yaml:"clusters" envconfig:"CLUSTERS" default:"4"`
	TrendDays    int `yaml:"trend_days" envconfig:"TREND_DAYS" default:"7"`
	ForecastDays int `yaml:"forecast_days" envconfig:"FORECAST_DAYS" default:"7"`
	TopN         int `yaml:"top_n" envconfig:"TOP_N" default:"10"`
	DailyDays    int `yaml:"daily_days" envconfig:"DAILY_DAYS" default:"30"`
}

// Load loads configuration from environment variables and an optional YAML
// file; environment values take precedence.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("ECOM", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	configFile := configFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config from file: %w", err)
		}
		cfg = merge(*fileCfg, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func configFilePath() string {
	if p := os.Getenv("ECOM_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays env config on top of file config; zero-valued env fields
// fall back to the file.
func merge(fileCfg, envCfg Config) Config {
	if envCfg.Server.Port == 0 {
		envCfg.Server.Port = fileCfg.Server.Port
	}
	if envCfg.Server.ReadTimeout == 0 {
		envCfg.Server.ReadTimeout = fileCfg.Server.ReadTimeout
	}
	if envCfg.Server.WriteTimeout == 0 {
		envCfg.Server.WriteTimeout = fileCfg.Server.WriteTimeout
	}
	if envCfg.Logging.Level == "" {
		envCfg.Logging.Level = fileCfg.Logging.Level
	}
	if envCfg.Paths.DataDir == "" {
		envCfg.Paths.DataDir = fileCfg.Paths.DataDir
	}
	if envCfg.Paths.OrdersFile == "" {
		envCfg.Paths.OrdersFile = fileCfg.Paths.OrdersFile
	}
	if envCfg.Analytics.Clusters == 0 {
		envCfg.Analytics.Clusters = fileCfg.Analytics.Clusters
	}
	return envCfg
}

// OrdersPath returns the resolved path of the orders CSV file.
func (c *Config) OrdersPath() string {
	if filepath.IsAbs(c.Paths.OrdersFile) {
		return c.Paths.OrdersFile
	}
	return filepath.Join(c.Paths.DataDir, c.Paths.OrdersFile)
}

// EnsureDirectories creates the data and logs directories if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

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
	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}
	if c.Analytics.Clusters < analytics.MinClusters || c.Analytics.Clusters > analytics.MaxClusters {
		return fmt.Errorf("invalid default cluster count: %d", c.Analytics.Clusters)
	}
	if c.Analytics.ForecastDays < analytics.MinForecastDays || c.Analytics.ForecastDays > analytics.MaxForecastDays {
		return fmt.Errorf("invalid default forecast horizon: %d", c.Analytics.ForecastDays)
	}
	if c.Analytics.TopN < analytics.MinTopN || c.Analytics.TopN > analytics.MaxTopN {
		return fmt.Errorf("invalid default top-n: %d", c.Analytics.TopN)
	}
	return nil
}
