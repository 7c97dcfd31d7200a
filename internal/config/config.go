package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "GAPSCAN_CONFIG"
	oracleKeyEnv   = "DEEPSEEK_API_KEY"
	oracleModelEnv = "DEEPSEEK_MODEL"
	outputDirEnv   = "GAPSCAN_OUTPUT_DIR"
	httpPortEnv    = "PORT"
)

// Config holds all settings required across the application. It is built
// once at startup and passed into constructors; nothing mutates it later.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Oracle  OracleConfig  `yaml:"oracle"`
	Fetcher FetcherConfig `yaml:"fetcher"`
	Scoring ScoringConfig `yaml:"scoring"`
	Output  OutputConfig  `yaml:"output"`
	HTTP    HTTPConfig    `yaml:"http"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// OracleConfig describes the reasoning-oracle endpoint and retry policy.
type OracleConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"apiKey"`
	MaxRetries int    `yaml:"maxRetries"`
	RetryDelay int    `yaml:"retryDelaySeconds"`
}

// RetryDelayDuration resolves the configured delay in seconds.
func (c OracleConfig) RetryDelayDuration() time.Duration {
	return time.Duration(c.RetryDelay) * time.Second
}

// Validate checks the oracle section.
func (c OracleConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Endpoint, validation.Required),
		validation.Field(&c.Model, validation.Required),
		validation.Field(&c.MaxRetries, validation.Min(0), validation.Max(10)),
		validation.Field(&c.RetryDelay, validation.Min(0), validation.Max(300)),
	)
}

// FetcherConfig controls target-page fetching.
type FetcherConfig struct {
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	MaxRetries     int    `yaml:"maxRetries"`
	UserAgent      string `yaml:"userAgent"`
}

// Timeout resolves the configured fetch timeout.
func (c FetcherConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate checks the fetcher section.
func (c FetcherConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TimeoutSeconds, validation.Min(1), validation.Max(120)),
		validation.Field(&c.MaxRetries, validation.Min(0), validation.Max(10)),
	)
}

// ScoringConfig bounds the content sample embedded into scoring prompts.
type ScoringConfig struct {
	MaxContentChars int `yaml:"maxContentChars"`
}

// Validate checks the scoring section.
func (c ScoringConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxContentChars, validation.Required, validation.Min(500)),
	)
}

// OutputConfig locates the artifact directory.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Validate checks the output section.
func (c OutputConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// HTTPConfig holds API server settings.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the listen address for the API server.
func (c HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate checks the HTTP section.
func (c HTTPConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Oracle.Validate(); err != nil {
		return fmt.Errorf("oracle: %w", err)
	}
	if err := c.Fetcher.Validate(); err != nil {
		return fmt.Errorf("fetcher: %w", err)
	}
	if err := c.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	return nil
}

// Load reads YAML configuration over the defaults (path taken from the
// argument or GAPSCAN_CONFIG), applies environment overrides, and validates
// the result. Environment references inside the file are expanded.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		expanded := os.ExpandEnv(string(raw))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(oracleKeyEnv); v != "" {
		c.Oracle.APIKey = v
	}
	if v := os.Getenv(oracleModelEnv); v != "" {
		c.Oracle.Model = v
	}
	if v := os.Getenv(outputDirEnv); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv(httpPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.HTTP.Port = port
		}
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Oracle: OracleConfig{
			Endpoint:   "https://api.deepseek.com/chat/completions",
			Model:      "deepseek-chat",
			MaxRetries: 2,
			RetryDelay: 2,
		},
		Fetcher: FetcherConfig{
			TimeoutSeconds: 20,
			MaxRetries:     2,
			UserAgent:      "gapscan/1.0",
		},
		Scoring: ScoringConfig{MaxContentChars: 3000},
		Output:  OutputConfig{Dir: "output"},
		HTTP:    HTTPConfig{Port: 8082},
	}
}
