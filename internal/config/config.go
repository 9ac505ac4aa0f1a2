package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the export engine. It is loaded once at
// process start and treated as read-only afterwards.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Export    ExportConfig    `yaml:"export"`
	Vault     VaultConfig     `yaml:"vault"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig holds optional Redis settings. When Addr is empty the engine
// falls back to PostgreSQL advisory locks for scheduler tick ownership.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ExportConfig holds artifact output settings.
type ExportConfig struct {
	OutputDirectory     string `yaml:"output_directory"`
	DefaultFTPTimeoutMs int    `yaml:"default_ftp_timeout_ms"`
}

// VaultConfig holds the process-wide encryption secret for delivery
// credentials.
type VaultConfig struct {
	Secret string `yaml:"secret"`
}

// SchedulerConfig holds auto-export scheduler settings.
type SchedulerConfig struct {
	Enabled             bool `yaml:"enabled"`
	TickIntervalSeconds int  `yaml:"tick_interval_seconds"`
}

// ArchiveConfig holds optional S3 artifact archive settings.
type ArchiveConfig struct {
	Enabled    bool   `yaml:"enabled"`
	S3Bucket   string `yaml:"s3_bucket"`
	S3Prefix   string `yaml:"s3_prefix"`
	S3Region   string `yaml:"s3_region"`
	AWSProfile string `yaml:"aws_profile"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultFTPTimeout returns the default remote delivery timeout as a
// duration, applying the built-in fallback when unset or non-positive.
func (e ExportConfig) DefaultFTPTimeout() time.Duration {
	if e.DefaultFTPTimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(e.DefaultFTPTimeoutMs) * time.Millisecond
}

// TickInterval returns the scheduler tick as a duration. Ticks must stay
// sub-minute so a configured HH:MM boundary is never skipped.
func (s SchedulerConfig) TickInterval() time.Duration {
	if s.TickIntervalSeconds <= 0 || s.TickIntervalSeconds > 59 {
		return 30 * time.Second
	}
	return time.Duration(s.TickIntervalSeconds) * time.Second
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv reads the YAML file and then applies .env / environment
// variable overrides. A missing config file is fine when the essentials are
// supplied through the environment.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	var cfg *Config
	if _, err := os.Stat(path); err == nil {
		cfg, err = load(path)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = defaults()
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("EXPORT_OUTPUT_DIR"); v != "" {
		cfg.Export.OutputDirectory = v
	}
	if v := os.Getenv("EXPORT_DEFAULT_FTP_TIMEOUT_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			cfg.Export.DefaultFTPTimeoutMs = ms
		}
	}
	if v := os.Getenv("VAULT_SECRET"); v != "" {
		cfg.Vault.Secret = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("ARCHIVE_S3_BUCKET"); v != "" {
		cfg.Archive.S3Bucket = v
		cfg.Archive.Enabled = true
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// load parses without validating so LoadFromEnv can fill gaps from the
// environment before the final check.
func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Export: ExportConfig{
			OutputDirectory:     "exports",
			DefaultFTPTimeoutMs: 30000,
		},
		Scheduler: SchedulerConfig{
			Enabled:             true,
			TickIntervalSeconds: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is complete enough to start.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required (or DATABASE_URL)")
	}
	if c.Vault.Secret == "" {
		return fmt.Errorf("vault.secret is required (or VAULT_SECRET)")
	}
	if c.Export.OutputDirectory == "" {
		return fmt.Errorf("export.output_directory is required")
	}
	if c.Archive.Enabled && c.Archive.S3Bucket == "" {
		return fmt.Errorf("archive.s3_bucket is required when the archive is enabled")
	}
	return nil
}
