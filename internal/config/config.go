// Package config loads the engine configuration from a YAML file with
// environment variable overrides. Secrets live in .env locally and in real
// env vars on the deployment host.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the outreach engine.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	SES      SESConfig      `yaml:"ses"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Cron     CronConfig     `yaml:"cron"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, listening on all interfaces inside a
// container.
func (c ServerConfig) GetHost() string {
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// RedisConfig holds Redis settings for throttling and run-level locking.
type RedisConfig struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// SESConfig holds AWS SES credentials for the mail transport.
type SESConfig struct {
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// DispatchConfig holds engine batch and pacing tuning.
type DispatchConfig struct {
	BatchSize        int `yaml:"batch_size"`
	MaxAttempts      int `yaml:"max_attempts"`
	SendIntervalSecs int `yaml:"send_interval_seconds"`
	// WorkerIntervalSecs is how often cmd/worker invokes the engine.
	WorkerIntervalSecs int `yaml:"worker_interval_seconds"`
}

// SendInterval returns the pacing delay between successful sends.
func (c DispatchConfig) SendInterval() time.Duration {
	return time.Duration(c.SendIntervalSecs) * time.Second
}

// WorkerInterval returns the standalone worker's tick interval.
func (c DispatchConfig) WorkerInterval() time.Duration {
	return time.Duration(c.WorkerIntervalSecs) * time.Second
}

// CronConfig protects the HTTP cron surface.
type CronConfig struct {
	Secret         string   `yaml:"secret"`
	RateLimit      int      `yaml:"rate_limit"`
	RateWindowSecs int      `yaml:"rate_window_seconds"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RunTimeoutSecs int      `yaml:"run_timeout_seconds"`
}

// RateWindow returns the rate-limit window.
func (c CronConfig) RateWindow() time.Duration {
	return time.Duration(c.RateWindowSecs) * time.Second
}

// RunTimeout returns the per-invocation bound on a dispatch run.
func (c CronConfig) RunTimeout() time.Duration {
	return time.Duration(c.RunTimeoutSecs) * time.Second
}

// Load reads configuration from a YAML file and applies defaults. A
// missing file yields defaults only.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = "us-east-1"
	}
	if cfg.Dispatch.BatchSize == 0 {
		cfg.Dispatch.BatchSize = 10
	}
	if cfg.Dispatch.MaxAttempts == 0 {
		cfg.Dispatch.MaxAttempts = 3
	}
	if cfg.Dispatch.SendIntervalSecs == 0 {
		cfg.Dispatch.SendIntervalSecs = 1
	}
	if cfg.Dispatch.WorkerIntervalSecs == 0 {
		cfg.Dispatch.WorkerIntervalSecs = 300
	}
	if cfg.Cron.RateLimit == 0 {
		cfg.Cron.RateLimit = 10
	}
	if cfg.Cron.RateWindowSecs == 0 {
		cfg.Cron.RateWindowSecs = 10
	}
	if cfg.Cron.RunTimeoutSecs == 0 {
		cfg.Cron.RunTimeoutSecs = 300
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides. A
// .env file (if present) is loaded first so local secrets don't need to
// be exported.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("CRON_SECRET"); v != "" {
		cfg.Cron.Secret = v
	}
	if v := os.Getenv("AWS_SES_ACCESS_KEY"); v != "" {
		cfg.SES.AccessKey = v
	}
	if v := os.Getenv("AWS_SES_SECRET_KEY"); v != "" {
		cfg.SES.SecretKey = v
	}
	if v := os.Getenv("AWS_SES_REGION"); v != "" {
		cfg.SES.Region = v
	}

	return cfg, nil
}
