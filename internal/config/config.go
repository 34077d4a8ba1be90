package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds all configurable punchclock settings.
type Config struct {
	IdleThresholdSeconds int    `json:"idle_threshold_seconds"` // auto-close after this much inactivity
	PollIntervalSeconds  int    `json:"poll_interval_seconds"`  // monitor wake-up interval
	DatabaseURL          string `json:"database_url"`           // remote Postgres DSN; empty = local-only
	DataDir              string `json:"data_dir"`               // override XDG data directory
	ListenAddr           string `json:"listen_addr"`            // serve command bind address
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		IdleThresholdSeconds: 7200,
		PollIntervalSeconds:  30,
		ListenAddr:           ":5000",
	}
}

// LoadGlobal reads ~/.config/punchclock/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "punchclock", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .punchclockrc in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".punchclockrc", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	for _, c := range []*Config{global, project} {
		if c == nil {
			continue
		}
		if c.IdleThresholdSeconds > 0 {
			result.IdleThresholdSeconds = c.IdleThresholdSeconds
		}
		if c.PollIntervalSeconds > 0 {
			result.PollIntervalSeconds = c.PollIntervalSeconds
		}
		if c.DatabaseURL != "" {
			result.DatabaseURL = c.DatabaseURL
		}
		if c.DataDir != "" {
			result.DataDir = c.DataDir
		}
		if c.ListenAddr != "" {
			result.ListenAddr = c.ListenAddr
		}
	}

	return result
}

// ApplyEnv overlays environment variables on cfg. DATABASE_URL keeps the
// original deployment convention; the rest are prefixed.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("PUNCHCLOCK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PUNCHCLOCK_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("PUNCHCLOCK_IDLE_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.IdleThresholdSeconds = n
		}
	}
	if v := os.Getenv("PUNCHCLOCK_POLL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PollIntervalSeconds = n
		}
	}
}

// ResolveDataDir returns cfg.DataDir when set, else the punchclock XDG data
// directory: $XDG_DATA_HOME/punchclock or ~/.local/share/punchclock.
func (c Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "punchclock"), nil
}

// TaskFilePath returns the location of the local CSV task file.
func (c Config) TaskFilePath() (string, error) {
	dir, err := c.ResolveDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tasks.csv"), nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
