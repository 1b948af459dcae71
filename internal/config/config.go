package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName                string        `mapstructure:"app_name" validate:"required"`
	Env                    string        `mapstructure:"app_env"`
	LogLevel               string        `mapstructure:"log_level"`
	HTTPHost               string        `mapstructure:"http_host" validate:"required"`
	ReadTimeoutSeconds     int64         `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds    int64         `mapstructure:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int64         `mapstructure:"shutdown_timeout_seconds"`
	ReadTimeout            time.Duration `mapstructure:"-"`
	WriteTimeout           time.Duration `mapstructure:"-"`
	ShutdownTimeout        time.Duration `mapstructure:"-"`

	NodeBaseURL     string  `mapstructure:"node_base_url" validate:"required,url"`
	SenderID        string  `mapstructure:"sender_id" validate:"required"`
	FallbackBalance float64 `mapstructure:"fallback_balance"`
	NotifiersFile   string  `mapstructure:"notifiers_file"`

	StorageType            string        `mapstructure:"storage_type" validate:"oneof=none bbolt"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "noobcash-web")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_host", "0.0.0.0:8000")
	// Write timeout is generous: node calls themselves carry no timeout.
	v.SetDefault("read_timeout_seconds", 5)
	v.SetDefault("write_timeout_seconds", 120)
	v.SetDefault("shutdown_timeout_seconds", 20)
	v.SetDefault("node_base_url", "http://localhost:58080")
	v.SetDefault("sender_id", "id0")
	v.SetDefault("fallback_balance", 55)
	v.SetDefault("notifiers_file", "")
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/journal.db")
	v.SetDefault("storage_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.NodeBaseURL = strings.TrimRight(strings.TrimSpace(cfg.NodeBaseURL), "/")
	cfg.SenderID = strings.TrimSpace(cfg.SenderID)
	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.ReadTimeoutSeconds <= 0 || cfg.WriteTimeoutSeconds <= 0 || cfg.ShutdownTimeoutSeconds <= 0 {
		return nil, errors.New("invalid http timeouts (must be positive seconds)")
	}
	cfg.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	cfg.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	cfg.ShutdownTimeout = time.Duration(cfg.ShutdownTimeoutSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return &cfg, nil
}
