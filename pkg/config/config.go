package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultFlashSecret = "change-me"

// Config is the process configuration. Values come from an optional YAML file
// named by CONFIG_PATH, overridden by environment variables.
type Config struct {
	Port                    string `yaml:"port" env:"PORT" env-default:"8080"`
	Env                     string `yaml:"env" env:"ENV" env-default:"development"`
	BackendURL              string `yaml:"backend_url" env:"BACKEND_URL" env-default:"http://localhost:5000"`
	GeocoderURL             string `yaml:"geocoder_url" env:"GEOCODER_URL" env-default:"https://nominatim.openstreetmap.org"`
	FirebaseCredentialsPath string `yaml:"firebase_credentials_path" env:"FIREBASE_CREDENTIALS_PATH"`
	DevUserEmail            string `yaml:"dev_user_email" env:"DEV_USER_EMAIL"`
	DevUserName             string `yaml:"dev_user_name" env:"DEV_USER_NAME"`
	FlashSecret             string `yaml:"flash_secret" env:"FLASH_SECRET" env-default:"change-me"`
	StatsStrategy           string `yaml:"stats_strategy" env:"STATS_STRATEGY" env-default:"auto"`
	LogLevel                string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads .env (if present), then the config file and environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	var cfg Config
	var err error
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.StatsStrategy {
	case "auto", "endpoint", "fallback":
	default:
		errs = append(errs, fmt.Errorf("STATS_STRATEGY must be auto, endpoint or fallback, got %q", c.StatsStrategy))
	}
	if c.FirebaseCredentialsPath == "" && c.DevUserEmail == "" {
		errs = append(errs, errors.New("no identity source: set FIREBASE_CREDENTIALS_PATH or DEV_USER_EMAIL"))
	}
	if c.IsProduction() && (c.FlashSecret == "" || c.FlashSecret == defaultFlashSecret) {
		errs = append(errs, errors.New("FLASH_SECRET must be set in production"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger: text for development, JSON in production.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
