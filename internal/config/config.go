// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/jeranaias/sopchat/internal/util"
)

// =============================================================================
// CONFIG TYPES
// =============================================================================

// Config is the complete sopchat configuration.
type Config struct {
	Backend     BackendConfig     `toml:"backend" json:"backend"`
	Storage     StorageConfig     `toml:"storage" json:"storage"`
	Attachments AttachmentsConfig `toml:"attachments" json:"attachments"`
	Viewer      ViewerConfig      `toml:"viewer" json:"viewer"`
	Guard       GuardConfig       `toml:"guard" json:"guard"`
	UI          UIConfig          `toml:"ui" json:"ui"`
	Log         LogConfig         `toml:"log" json:"log"`
	DevServer   DevServerConfig   `toml:"devserver" json:"devserver"`
}

// BackendConfig locates the chat completion endpoint.
type BackendConfig struct {
	URL     string        `toml:"url" json:"url" env:"SOPCHAT_BACKEND_URL"`
	Timeout time.Duration `toml:"timeout" json:"timeout" env:"SOPCHAT_BACKEND_TIMEOUT"`
}

// StorageConfig selects where history is kept.
type StorageConfig struct {
	// Backend is one of file, sqlite, pebble, memory.
	Backend string `toml:"backend" json:"backend" env:"SOPCHAT_STORAGE_BACKEND"`
	// Path is a directory for file and pebble, a database file for sqlite.
	// Empty picks a location under ConfigDir.
	Path string `toml:"path" json:"path" env:"SOPCHAT_STORAGE_PATH"`
	Key  string `toml:"key" json:"key" env:"SOPCHAT_STORAGE_KEY"`
}

// AttachmentsConfig tunes availability probes.
type AttachmentsConfig struct {
	ProbeTimeout time.Duration `toml:"probe_timeout" json:"probe_timeout" env:"SOPCHAT_PROBE_TIMEOUT"`
	// ProbeRate is the sustained number of probes per second.
	ProbeRate  float64 `toml:"probe_rate" json:"probe_rate" env:"SOPCHAT_PROBE_RATE"`
	ProbeBurst int     `toml:"probe_burst" json:"probe_burst" env:"SOPCHAT_PROBE_BURST"`
}

// ViewerConfig tunes text attachment fetches.
type ViewerConfig struct {
	FetchTimeout time.Duration `toml:"fetch_timeout" json:"fetch_timeout" env:"SOPCHAT_VIEWER_FETCH_TIMEOUT"`
	MaxBytes     int64         `toml:"max_bytes" json:"max_bytes" env:"SOPCHAT_VIEWER_MAX_BYTES"`
}

// GuardConfig tunes the capture warning.
type GuardConfig struct {
	WarningDuration time.Duration `toml:"warning_duration" json:"warning_duration" env:"SOPCHAT_GUARD_WARNING_DURATION"`
	// ExtraTriggerKeys are bubbletea key names that also raise the warning.
	ExtraTriggerKeys []string `toml:"extra_trigger_keys" json:"extra_trigger_keys" env:"SOPCHAT_GUARD_EXTRA_KEYS"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Locale string `toml:"locale" json:"locale" env:"SOPCHAT_LOCALE"`
	// Theme is auto, dark or light.
	Theme string `toml:"theme" json:"theme" env:"SOPCHAT_THEME"`
	// Welcome overrides the localized greeting when set.
	Welcome string `toml:"welcome" json:"welcome" env:"SOPCHAT_WELCOME"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level  string `toml:"level" json:"level" env:"SOPCHAT_LOG_LEVEL"`
	File   string `toml:"file" json:"file" env:"SOPCHAT_LOG_FILE"`
	Pretty bool   `toml:"pretty" json:"pretty" env:"SOPCHAT_LOG_PRETTY"`
}

// DevServerConfig configures the local fake backend.
type DevServerConfig struct {
	Addr     string `toml:"addr" json:"addr" env:"SOPCHAT_DEVSERVER_ADDR"`
	Fixtures string `toml:"fixtures" json:"fixtures" env:"SOPCHAT_DEVSERVER_FIXTURES"`
	FilesDir string `toml:"files_dir" json:"files_dir" env:"SOPCHAT_DEVSERVER_FILES"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     "http://127.0.0.1:8787/chat",
			Timeout: 60 * time.Second,
		},
		Storage: StorageConfig{
			Backend: "file",
			Key:     "chatMessages",
		},
		Attachments: AttachmentsConfig{
			ProbeTimeout: 10 * time.Second,
			ProbeRate:    8,
			ProbeBurst:   4,
		},
		Viewer: ViewerConfig{
			FetchTimeout: 30 * time.Second,
			MaxBytes:     2 << 20,
		},
		Guard: GuardConfig{
			WarningDuration: 3 * time.Second,
		},
		UI: UIConfig{
			Locale: "id",
			Theme:  "auto",
		},
		Log: LogConfig{
			Level: "info",
		},
		DevServer: DevServerConfig{
			Addr:     "127.0.0.1:8787",
			Fixtures: "fixtures.yaml",
			FilesDir: "files",
		},
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// ConfigDir returns ~/.sopchat.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "could not determine home directory")
	}
	return filepath.Join(home, ".sopchat"), nil
}

// DefaultPath returns ~/.sopchat/config.toml.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// fillPaths resolves empty path settings against ConfigDir.
func (c *Config) fillPaths() error {
	if c.Storage.Path != "" && c.Log.File != "" {
		return nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if c.Storage.Path == "" {
		switch strings.ToLower(c.Storage.Backend) {
		case "sqlite":
			c.Storage.Path = filepath.Join(dir, "history.db")
		case "pebble":
			c.Storage.Path = filepath.Join(dir, "history.pebble")
		default:
			c.Storage.Path = filepath.Join(dir, "history")
		}
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(dir, "sopchat.log")
	}
	return nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load builds the configuration from defaults, the TOML file at path (the
// default path when empty; a missing file is not an error), .env and the
// environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "decode %s", path)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.fillPaths(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// ApplyEnv loads ./.env when present and applies SOPCHAT_* overrides.
func ApplyEnv(cfg *Config) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "load .env")
	}
	if err := env.Parse(cfg); err != nil {
		return errors.Wrap(err, "parse environment")
	}
	return nil
}

// Save writes cfg as TOML to path atomically with owner-only permissions.
func Save(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# sopchat configuration\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return util.WriteFileAtomic(path, buf.Bytes(), 0o600)
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid setting.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every section and returns ValidateErrors, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.Backend.URL == "" {
		add("backend.url", "must not be empty")
	} else if !strings.HasPrefix(c.Backend.URL, "http://") && !strings.HasPrefix(c.Backend.URL, "https://") {
		add("backend.url", "must be an http or https URL, got %q", c.Backend.URL)
	}
	if c.Backend.Timeout <= 0 {
		add("backend.timeout", "must be positive")
	}

	switch strings.ToLower(c.Storage.Backend) {
	case "file", "sqlite", "pebble", "memory":
	default:
		add("storage.backend", "invalid backend %q, must be one of: file, sqlite, pebble, memory", c.Storage.Backend)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		add("storage.key", "must not be empty")
	}

	if c.Attachments.ProbeTimeout <= 0 {
		add("attachments.probe_timeout", "must be positive")
	}
	if c.Attachments.ProbeRate <= 0 {
		add("attachments.probe_rate", "must be positive")
	}
	if c.Attachments.ProbeBurst < 1 {
		add("attachments.probe_burst", "must be at least 1")
	}

	if c.Viewer.FetchTimeout <= 0 {
		add("viewer.fetch_timeout", "must be positive")
	}
	if c.Viewer.MaxBytes <= 0 {
		add("viewer.max_bytes", "must be positive")
	}

	if c.Guard.WarningDuration <= 0 {
		add("guard.warning_duration", "must be positive")
	}

	switch c.UI.Locale {
	case "id", "en":
	default:
		add("ui.locale", "unsupported locale %q, must be id or en", c.UI.Locale)
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		add("ui.theme", "invalid theme %q, must be one of: auto, dark, light", c.UI.Theme)
	}

	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		add("log.level", "invalid level %q", c.Log.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
