// Package config loads the SmartFinance configuration.
//
// Values are resolved in order: built-in defaults, an optional YAML file,
// then environment variables (a .env file in the working directory is loaded
// into the environment first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no config path is given and the file exists.
const DefaultFile = "smartfinance.yaml"

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	AI      AIConfig      `yaml:"ai"`
	Live    LiveConfig    `yaml:"live"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`

	// StaticDir holds the web client. Empty disables static serving.
	StaticDir      string   `yaml:"staticDir"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// AIConfig configures the Gemini models. An empty APIKey runs every
// assistant operation on its offline fallback.
type AIConfig struct {
	APIKey     string `yaml:"apiKey"`
	Model      string `yaml:"model"`
	MaxRetries int    `yaml:"maxRetries"`
}

type LiveConfig struct {
	Model          string        `yaml:"model"`
	Voice          string        `yaml:"voice"`
	QueueSize      int           `yaml:"queueSize"`
	ConnectTimeout time.Duration `yaml:"connectTimeout"`
}

type AuthConfig struct {
	Enabled   bool          `yaml:"enabled"`
	JWTSecret string        `yaml:"jwtSecret"`
	TokenTTL  time.Duration `yaml:"tokenTTL"`
}

type LogConfig struct {
	Level string `yaml:"level"`

	// File receives a JSON copy of every log record when set.
	File string `yaml:"file"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   "./data/smartfinance.db",
		},
		AI: AIConfig{
			Model:      "gemini-2.5-flash",
			MaxRetries: 4,
		},
		Live: LiveConfig{
			Model:          "gemini-2.5-flash-native-audio-preview-09-2025",
			Voice:          "Zephyr",
			QueueSize:      32,
			ConnectTimeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. path names a YAML file that must exist;
// when empty, DefaultFile is used if present.
func Load(path string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		if err := cfg.loadFile(file); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Addr, "SMARTFINANCE_ADDR")
	setString(&c.Server.StaticDir, "SMARTFINANCE_STATIC_DIR")
	if v := os.Getenv("SMARTFINANCE_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	setString(&c.Storage.Driver, "SMARTFINANCE_STORAGE")
	setString(&c.Storage.Path, "SMARTFINANCE_DB_PATH")

	// Later keys win.
	setString(&c.AI.APIKey, "API_KEY")
	setString(&c.AI.APIKey, "GOOGLE_API_KEY")
	setString(&c.AI.APIKey, "SMARTFINANCE_API_KEY")
	setString(&c.AI.Model, "SMARTFINANCE_MODEL")
	setString(&c.Live.Model, "SMARTFINANCE_LIVE_MODEL")
	setString(&c.Live.Voice, "SMARTFINANCE_VOICE")

	setString(&c.Auth.JWTSecret, "SMARTFINANCE_JWT_SECRET")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.File, "SMARTFINANCE_LOG_FILE")

	var errs []error
	errs = append(errs,
		setInt(&c.AI.MaxRetries, "SMARTFINANCE_MAX_RETRIES"),
		setInt(&c.Live.QueueSize, "SMARTFINANCE_LIVE_QUEUE"),
		setDuration(&c.Live.ConnectTimeout, "SMARTFINANCE_LIVE_TIMEOUT"),
		setBool(&c.Auth.Enabled, "SMARTFINANCE_AUTH"),
		setDuration(&c.Auth.TokenTTL, "SMARTFINANCE_TOKEN_TTL"),
	)
	return errors.Join(errs...)
}

// Validate checks the combined configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server address is required"))
	}
	switch c.Storage.Driver {
	case DriverSQLite, DriverBolt:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Storage.Path == "" {
		errs = append(errs, errors.New("storage path is required"))
	}
	if c.AI.MaxRetries < 0 {
		errs = append(errs, errors.New("ai.maxRetries cannot be negative"))
	}
	if c.Live.QueueSize < 1 {
		errs = append(errs, errors.New("live.queueSize must be positive"))
	}
	if c.Live.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("live.connectTimeout must be positive"))
	}
	if c.Auth.Enabled {
		if len(c.Auth.JWTSecret) < 32 {
			errs = append(errs, errors.New("auth.jwtSecret must be at least 32 characters"))
		}
		if c.Storage.Driver != DriverSQLite {
			errs = append(errs, errors.New("auth requires the sqlite storage driver"))
		}
		if c.Auth.TokenTTL <= 0 {
			errs = append(errs, errors.New("auth.tokenTTL must be positive"))
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}

	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
