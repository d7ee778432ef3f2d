// Package config handles configuration loading from files, .env, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Storage backends.
const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Config holds the application configuration.
type Config struct {
	Storage   StorageConfig   `toml:"storage"`
	Firestore FirestoreConfig `toml:"firestore"`
	Cache     CacheConfig     `toml:"cache"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Dashboard DashboardConfig `toml:"dashboard"`
	UI        UIConfig        `toml:"ui"`
	Log       LogConfig       `toml:"log"`
	Server    ServerConfig    `toml:"server"`
}

// StorageConfig selects and locates the task store.
type StorageConfig struct {
	Backend string `toml:"backend"` // "sqlite" or "firestore"
	DBPath  string `toml:"db_path"`
}

// FirestoreConfig holds Cloud Firestore settings.
type FirestoreConfig struct {
	ProjectID       string `toml:"project_id"`
	CredentialsFile string `toml:"credentials_file"` // empty uses application default credentials
	Collection      string `toml:"collection"`
}

// CacheConfig controls the per-day read cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	TTL     string `toml:"ttl"`  // Go duration, e.g. "5m"
	Size    int    `toml:"size"` // days kept
}

// ScheduleConfig holds time-picker settings.
type ScheduleConfig struct {
	SlotInterval  int `toml:"slot_interval"`  // minutes between picker options
	DefaultLength int `toml:"default_length"` // minutes for a new task
}

// DashboardConfig holds dashboard display settings.
type DashboardConfig struct {
	UpcomingLimit int `toml:"upcoming_limit"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `toml:"level"` // logrus level name, or "off"
	File  string `toml:"file"`  // empty writes to stderr
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr      string  `toml:"addr"`
	RateLimit float64 `toml:"rate_limit"` // requests per second
	Burst     int     `toml:"burst"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
			DBPath:  defaultDBPath(),
		},
		Firestore: FirestoreConfig{
			Collection: "tasks",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     "5m",
			Size:    64,
		},
		Schedule: ScheduleConfig{
			SlotInterval:  15,
			DefaultLength: 60,
		},
		Dashboard: DashboardConfig{
			UpcomingLimit: 3,
		},
		UI: UIConfig{
			Theme: "mocha",
		},
		Log: LogConfig{
			Level: "info",
			File:  defaultLogPath(),
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:8080",
			RateLimit: 2,
			Burst:     20,
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "scheduler.db"
	}
	return filepath.Join(home, ".local", "share", "my-scheduler", "scheduler.db")
}

func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "scheduler.log"
	}
	return filepath.Join(home, ".local", "state", "my-scheduler", "scheduler.log")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "my-scheduler", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, loads a .env
// file from the working directory, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Firestore.CredentialsFile = expandPath(cfg.Firestore.CredentialsFile)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// loadDotEnv loads KEY=VALUE pairs into the process environment.
// Variables that are already set win over the file.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SCHEDULER_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("SCHEDULER_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("SCHEDULER_FIRESTORE_PROJECT"); v != "" {
		cfg.Firestore.ProjectID = v
	}
	if v := os.Getenv("SCHEDULER_FIRESTORE_CREDENTIALS"); v != "" {
		cfg.Firestore.CredentialsFile = v
	}
	if v := os.Getenv("SCHEDULER_FIRESTORE_COLLECTION"); v != "" {
		cfg.Firestore.Collection = v
	}

	if v := os.Getenv("SCHEDULER_CACHE_TTL"); v != "" {
		cfg.Cache.TTL = v
	}
	if v := os.Getenv("SCHEDULER_CACHE_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SCHEDULER_CACHE_ENABLED: %w", err)
		}
		cfg.Cache.Enabled = b
	}

	if v := os.Getenv("SCHEDULER_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}

	if v := os.Getenv("SCHEDULER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv("SCHEDULER_LOG_FILE"); ok {
		cfg.Log.File = v
	}

	if v := os.Getenv("SCHEDULER_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			return errors.New("db_path must be set")
		}
	case BackendFirestore:
		if c.Firestore.ProjectID == "" {
			return errors.New("firestore project_id must be set")
		}
		if c.Firestore.Collection == "" {
			return errors.New("firestore collection must be set")
		}
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}

	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.Cache.Size <= 0 {
		return errors.New("cache size must be positive")
	}

	if c.Schedule.SlotInterval <= 0 || 60%c.Schedule.SlotInterval != 0 {
		return fmt.Errorf("slot_interval must divide an hour, got %d", c.Schedule.SlotInterval)
	}
	if c.Schedule.DefaultLength < 5 || c.Schedule.DefaultLength > 18*60 {
		return fmt.Errorf("default_length must be between 5 and 1080 minutes, got %d", c.Schedule.DefaultLength)
	}

	if c.Dashboard.UpcomingLimit < 0 {
		return errors.New("upcoming_limit cannot be negative")
	}

	if c.Server.RateLimit <= 0 || c.Server.Burst <= 0 {
		return errors.New("server rate_limit and burst must be positive")
	}
	return nil
}

// CacheTTL returns the parsed cache time-to-live.
func (c *Config) CacheTTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, fmt.Errorf("cache ttl: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	return d, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
