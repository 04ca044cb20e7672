package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"pastebin/internal/ids"
	"pastebin/internal/logging"
	"pastebin/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFile          = "config.yaml"
	DefaultPort          = 5000
	DefaultTokenExpiry   = 7
	DefaultMaxPasteBytes = 1 << 20
)

type Config struct {
	Port        int    `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`

	// SecretKey signs session tokens. Empty means a random per-process key.
	SecretKey           string `yaml:"secret_key"`
	TokenExpiryDays     int    `yaml:"token_expiry_days"`
	RegistrationEnabled bool   `yaml:"registration_enabled"`
	BcryptCost          int    `yaml:"bcrypt_cost"`

	PasteRequiredFields []string `yaml:"paste_required_fields"`
	IDScheme            string   `yaml:"id_scheme"`
	MaxPasteBytes       int64    `yaml:"max_paste_bytes"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogFile   string `yaml:"log_file_name"`

	CORSOrigins []string `yaml:"cors_origins"`

	// SeedUsers maps username to password; missing users are created at startup.
	SeedUsers map[string]string `yaml:"seed_users"`
}

func Default() Config {
	return Config{
		Port:                DefaultPort,
		TokenExpiryDays:     DefaultTokenExpiry,
		BcryptCost:          bcrypt.DefaultCost,
		PasteRequiredFields: []string{},
		IDScheme:            ids.SchemeUUID,
		MaxPasteBytes:       DefaultMaxPasteBytes,
		LogLevel:            "info",
		LogFormat:           "json",
		CORSOrigins:         []string{"*"},
	}
}

// Load builds the config from defaults, then the YAML file named by
// PASTEBIN_CONFIG (default config.yaml, skipped when absent), then PASTEBIN_*
// environment variables.
func Load() (Config, error) {
	cfg := Default()

	path := os.Getenv("PASTEBIN_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.loadFile(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from the environment. Unparseable numbers and
// booleans are ignored.
func (c *Config) applyEnv() {
	if v := os.Getenv("PASTEBIN_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p < 65536 {
			c.Port = p
		}
	}

	if v := os.Getenv("PASTEBIN_DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	} else if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if v := os.Getenv("PASTEBIN_SECRET_KEY"); v != "" {
		c.SecretKey = v
	} else if v := os.Getenv("SECRET_KEY"); v != "" {
		c.SecretKey = v
	}

	if v := os.Getenv("PASTEBIN_TOKEN_EXPIRY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TokenExpiryDays = n
		}
	}

	if v := os.Getenv("PASTEBIN_REGISTRATION_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RegistrationEnabled = b
		}
	}

	if v := os.Getenv("PASTEBIN_BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BcryptCost = n
		}
	}

	if v, ok := os.LookupEnv("PASTEBIN_PASTE_REQUIRED_FIELDS"); ok {
		c.PasteRequiredFields = splitList(v)
	}

	if v := os.Getenv("PASTEBIN_ID_SCHEME"); v != "" {
		c.IDScheme = v
	}

	if v := os.Getenv("PASTEBIN_MAX_PASTE_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.MaxPasteBytes = n
		}
	}

	if v := os.Getenv("PASTEBIN_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PASTEBIN_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("PASTEBIN_LOG_FILE"); v != "" {
		c.LogFile = v
	}

	if v := os.Getenv("PASTEBIN_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
}

func (c Config) Validate() error {
	for _, f := range c.PasteRequiredFields {
		if !model.KnownField(f) {
			return fmt.Errorf("paste_required_fields: unknown field %q", f)
		}
	}
	if _, err := ids.New(c.IDScheme); err != nil {
		return fmt.Errorf("id_scheme: %w", err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("log_format: unknown format %q", c.LogFormat)
	}
	if c.TokenExpiryDays <= 0 {
		return fmt.Errorf("token_expiry_days must be positive, got %d", c.TokenExpiryDays)
	}
	if c.MaxPasteBytes <= 0 {
		return fmt.Errorf("max_paste_bytes must be positive, got %d", c.MaxPasteBytes)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost must be in [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	return nil
}

func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenExpiryDays) * 24 * time.Hour
}

func (c Config) LogOptions() logging.Options {
	return logging.Options{Level: c.LogLevel, Format: c.LogFormat, File: c.LogFile}
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
