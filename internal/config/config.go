// Package config loads and validates Backpack Pi YAML configuration.
// The config file is optional; environment variables override file
// values so secrets can stay out of the YAML, and defaults fill in the
// rest so the daemon can rely on fully populated values.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// FilesConfig holds the sandbox settings.
type FilesConfig struct {
	Root string `yaml:"root"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
	// SecureCookies marks session cookies Secure for TLS-terminated
	// deployments. Off by default: the dashboard serves plain HTTP on
	// the LAN.
	SecureCookies bool `yaml:"secure_cookies"`
}

// DevAuthConfig holds the development fallback settings.
type DevAuthConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Password string `yaml:"password"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	SessionSecret string        `yaml:"session_secret"`
	SudoUser      string        `yaml:"sudo_user"`
	DevFallback   DevAuthConfig `yaml:"dev_fallback"`
}

// Config mirrors the backpackpi.yaml schema.
type Config struct {
	Log   LogConfig   `yaml:"log"`
	DB    DBConfig    `yaml:"db"`
	Files FilesConfig `yaml:"files"`
	HTTP  HTTPConfig  `yaml:"http"`
	Auth  AuthConfig  `yaml:"auth"`
}

// Load reads an optional YAML config file, overlays environment
// variables, applies defaults, and validates the result.
func Load(path string) (Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, err
		}
	}
	applyEnv(&c)
	applyDefaults(&c)
	if err := validate(&c); err != nil {
		return Config{}, err
	}
	c.DB.Path = strings.TrimSpace(c.DB.Path)
	c.Files.Root = strings.TrimSpace(c.Files.Root)
	return c, nil
}

// applyEnv overlays BACKPACKPI_* variables onto file values.
func applyEnv(c *Config) {
	setStr := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setStr(&c.Log.Level, "BACKPACKPI_LOG_LEVEL")
	setStr(&c.DB.Path, "BACKPACKPI_DB_PATH")
	setStr(&c.Files.Root, "BACKPACKPI_FILE_ROOT")
	setStr(&c.HTTP.Bind, "BACKPACKPI_BIND")
	setStr(&c.Auth.SessionSecret, "BACKPACKPI_SESSION_SECRET")
	setStr(&c.Auth.SudoUser, "BACKPACKPI_SUDO_USER")
	setStr(&c.Auth.DevFallback.Password, "BACKPACKPI_DEV_PASSWORD")

	if v, ok := os.LookupEnv("BACKPACKPI_PORT"); ok && v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.HTTP.Port = p
		}
	}
	if v, ok := os.LookupEnv("BACKPACKPI_DEV_AUTH"); ok {
		c.Auth.DevFallback.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
}

// applyDefaults populates zero-values with sane defaults.
func applyDefaults(c *Config) {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.DB.Path == "" {
		c.DB.Path = "./data/backpackpi.db"
	}
	if c.Files.Root == "" {
		c.Files.Root = "./data/files"
	}
	if c.HTTP.Bind == "" {
		c.HTTP.Bind = "0.0.0.0"
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3000
	}
	if c.Auth.SudoUser == "" {
		c.Auth.SudoUser = "pi"
	}
}

// validate performs sanity checks for required fields and ranges.
// It does not mutate the config.
func validate(c *Config) error {
	if strings.TrimSpace(c.Log.Level) == "" {
		return errors.New("log.level is required")
	}
	if c.DB.Path == "" {
		return errors.New("db.path is required")
	}
	if c.Files.Root == "" {
		return errors.New("files.root is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return errors.New("http.port is invalid")
	}
	if strings.TrimSpace(c.Auth.SessionSecret) == "" {
		return errors.New("auth.session_secret is required (set BACKPACKPI_SESSION_SECRET)")
	}
	if strings.TrimSpace(c.Auth.SudoUser) == "" {
		return errors.New("auth.sudo_user is required")
	}
	return nil
}
