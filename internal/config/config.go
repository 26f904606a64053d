package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gravitrone/shelf/cli/internal/api"
)

// Session backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

const (
	// EnvAPIURL overrides api_url from the config file.
	EnvAPIURL = "SHELF_API_URL"

	defaultAPIURL  = api.DefaultBaseURL
	defaultTimeout = 30 * time.Second
)

// Config holds CLI configuration stored at ~/.shelf/config.
type Config struct {
	APIURL         string        `yaml:"api_url"`
	Timeout        time.Duration `yaml:"timeout"`
	SessionBackend string        `yaml:"session_backend"`
	DataDir        string        `yaml:"data_dir,omitempty"`
	LogLevel       string        `yaml:"log_level"`
	LogFile        string        `yaml:"log_file,omitempty"`
	ConfirmDeletes *bool         `yaml:"confirm_deletes,omitempty"`

	path string
}

// Dir returns the default shelf directory.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".shelf")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(Dir(), "config")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{path: Path()}
	cfg.applyDefaults()
	return cfg
}

// Load reads the config at the default path.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads and parses the config file at path. A missing file yields
// defaults; an insecure or unparseable one is an error.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{path: path}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg.applyDefaults()
		cfg.applyEnv()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	perm := info.Mode().Perm()
	if perm != 0600 {
		return nil, fmt.Errorf("config permissions too open: %04o (want 0600)", perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.SessionBackend == "" {
		c.SessionBackend = BackendFile
	}
	if c.DataDir == "" {
		c.DataDir = Dir()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "shelf.log")
	}
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
}

func (c *Config) validate() error {
	switch c.SessionBackend {
	case BackendFile, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown session_backend %q (want file, sqlite or memory)", c.SessionBackend)
	}
	return nil
}

// ShouldConfirmDeletes reports whether deletes prompt first. Defaults to true.
func (c *Config) ShouldConfirmDeletes() bool {
	return c.ConfirmDeletes == nil || *c.ConfirmDeletes
}

// SessionPath is where the file session store keeps its record.
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session")
}

// DatabasePath is the SQLite file used by the sqlite session store.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "shelf.db")
}

// File is the path the config was loaded from and saves to.
func (c *Config) File() string {
	if c.path == "" {
		return Path()
	}
	return c.path
}

// Keys lists the names Set accepts, in file order.
var Keys = []string{"api_url", "timeout", "session_backend", "data_dir", "log_level", "log_file", "confirm_deletes"}

// Set assigns one setting from its text form and validates the result.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "api_url":
		c.APIURL = strings.TrimRight(value, "/")
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("timeout must be a positive duration like 30s")
		}
		c.Timeout = d
	case "session_backend":
		c.SessionBackend = value
	case "data_dir":
		c.DataDir = value
	case "log_level":
		c.LogLevel = value
	case "log_file":
		c.LogFile = value
	case "confirm_deletes":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("confirm_deletes must be true or false")
		}
		c.ConfirmDeletes = &b
	default:
		return fmt.Errorf("unknown setting %q (want one of %s)", key, strings.Join(Keys, ", "))
	}
	c.applyDefaults()
	return c.validate()
}

// Save writes the config to disk with secure permissions.
func (c *Config) Save() error {
	path := c.File()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}
