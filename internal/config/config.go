package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Source    SourceConfig    `yaml:"source" envconfig:"SOURCE"`
	Retention RetentionConfig `yaml:"retention" envconfig:"RETENTION"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
}

// SourceConfig contains floorsheet source configuration
type SourceConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://merolagani.com/Floorsheet.aspx" validate:"required,url"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
	// RequestsPerSecond throttles page fetches so the site is not hammered
	// during pagination. The default is roughly one request every two seconds.
	RequestsPerSecond float64 `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND" default:"0.5" validate:"gt=0"`
	UserAgent         string  `yaml:"user_agent" envconfig:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"`
}

// RetentionConfig controls the sliding data-retention window
type RetentionConfig struct {
	Days int `yaml:"days" envconfig:"DAYS" default:"365" validate:"min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/nepse.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" default:"public" validate:"required"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// Load loads configuration from environment variables and an optional
// config file (nepse.yaml in the working directory, or NEPSE_CONFIG).
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("NEPSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
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

// mergeConfigs overlays non-zero file config values onto the env config.
// envconfig has already applied struct-tag defaults, so a sparse YAML file
// only overrides what it actually sets.
func mergeConfigs(fileCfg, envCfg Config) Config {
	merged := envCfg

	if fileCfg.Source.BaseURL != "" {
		merged.Source.BaseURL = fileCfg.Source.BaseURL
	}
	if fileCfg.Source.RequestTimeout != 0 {
		merged.Source.RequestTimeout = fileCfg.Source.RequestTimeout
	}
	if fileCfg.Source.RequestsPerSecond != 0 {
		merged.Source.RequestsPerSecond = fileCfg.Source.RequestsPerSecond
	}
	if fileCfg.Source.UserAgent != "" {
		merged.Source.UserAgent = fileCfg.Source.UserAgent
	}
	if fileCfg.Retention.Days != 0 {
		merged.Retention.Days = fileCfg.Retention.Days
	}
	if fileCfg.Logging.Level != "" {
		merged.Logging.Level = fileCfg.Logging.Level
	}
	if fileCfg.Logging.Format != "" {
		merged.Logging.Format = fileCfg.Logging.Format
	}
	if fileCfg.Logging.Output != "" {
		merged.Logging.Output = fileCfg.Logging.Output
	}
	if fileCfg.Logging.FilePath != "" {
		merged.Logging.FilePath = fileCfg.Logging.FilePath
	}
	if fileCfg.Paths.DataDir != "" {
		merged.Paths.DataDir = fileCfg.Paths.DataDir
	}
	if fileCfg.Paths.LogsDir != "" {
		merged.Paths.LogsDir = fileCfg.Paths.LogsDir
	}

	return merged
}

// Validate checks the configuration against struct-level constraints
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// getConfigFilePath returns the config file location
func getConfigFilePath() string {
	if path := os.Getenv("NEPSE_CONFIG"); path != "" {
		return path
	}
	return "nepse.yaml"
}
