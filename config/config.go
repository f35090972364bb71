// Package config loads deskmate's settings from settings.toml, applies
// DESKMATE_* environment overrides, and manages API credentials.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// OracleConfig selects and configures the LLM backend.
type OracleConfig struct {
	Backend string `toml:"backend"`
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model"`
}

// EmailConfig carries SMTP settings. The password lives in the credential
// store, never in settings.toml.
type EmailConfig struct {
	SMTPHost string `toml:"smtp_host"`
	SMTPPort int    `toml:"smtp_port"`
	Address  string `toml:"address,omitempty"`
}

// SecurityConfig selects how credentials are stored on disk.
type SecurityConfig struct {
	Method     string `toml:"method"` // "plaintext" or "ssh_key"
	SSHKeyPath string `toml:"ssh_key_path,omitempty"`
}

// PluginConfig describes one MCP plugin process.
type PluginConfig struct {
	Name    string            `toml:"name"`
	Command string            `toml:"command"`
	Args    []string          `toml:"args,omitempty"`
	Env     map[string]string `toml:"env,omitempty"`
}

// Config is the fully resolved runtime configuration.
type Config struct {
	DataDirectory     string         `toml:"data_directory"`
	DefaultLanguage   string         `toml:"default_language"`
	SchedulerInterval int            `toml:"scheduler_interval_seconds"`
	Oracle            OracleConfig   `toml:"oracle"`
	Email             EmailConfig    `toml:"email"`
	Security          SecurityConfig `toml:"security"`
	PluginsEnabled    bool           `toml:"plugins_enabled"`
	Plugins           []PluginConfig `toml:"plugins,omitempty"`
}

// DataDir returns the expanded data directory path.
func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// PollInterval returns the reminder scheduler interval as a duration.
func (c *Config) PollInterval() time.Duration {
	if c.SchedulerInterval <= 0 {
		return 0
	}
	return time.Duration(c.SchedulerInterval) * time.Second
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("DESKMATE_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if backend := os.Getenv("DESKMATE_ORACLE_BACKEND"); backend != "" {
		c.Oracle.Backend = backend
	}
	if model := os.Getenv("DESKMATE_ORACLE_MODEL"); model != "" {
		c.Oracle.Model = model
	}
	if baseURL := os.Getenv("DESKMATE_ORACLE_BASE_URL"); baseURL != "" {
		c.Oracle.BaseURL = baseURL
	}
	if lang := os.Getenv("DESKMATE_LANGUAGE"); lang != "" {
		c.DefaultLanguage = lang
	}
	if host := os.Getenv("DESKMATE_SMTP_HOST"); host != "" {
		c.Email.SMTPHost = host
	}
	if port := os.Getenv("DESKMATE_SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Email.SMTPPort = p
		}
	}
	if addr := os.Getenv("DESKMATE_EMAIL_ADDRESS"); addr != "" {
		c.Email.Address = addr
	}
}

// Load reads settings.toml (creating a default one on first run), applies
// environment overrides, and ensures the data directory exists.
func Load() (*Config, error) {
	cfg := Default()

	settingsPath := SettingsFilePath()
	if FileExists(settingsPath) {
		loaded, err := LoadSettings(settingsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		cfg = loaded
	} else if err := CreateDefaultSettings(); err != nil {
		return nil, fmt.Errorf("failed to create default settings: %w", err)
	}

	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to set data directory permissions: %w", err)
	}

	return cfg, nil
}
