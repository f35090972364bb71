package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Default returns the configuration used when no settings file exists.
func Default() *Config {
	return &Config{
		DataDirectory:     "~/.local/share/deskmate",
		DefaultLanguage:   "en",
		SchedulerInterval: 30,
		Oracle: OracleConfig{
			Backend: "groq",
			Model:   "llama-3.3-70b-versatile",
		},
		Email: EmailConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},
		Security: SecurityConfig{
			Method: "plaintext",
		},
		PluginsEnabled: false,
	}
}

// LoadSettings parses a settings.toml file. Fields absent from the file
// keep their defaults.
func LoadSettings(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return cfg, nil
}

// SaveSettings writes the configuration back to path with 0600 permissions.
func SaveSettings(cfg *Config, path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return nil
}

// CreateDefaultSettings writes the annotated first-run settings file.
func CreateDefaultSettings() error {
	if err := EnsureDir(ConfigDir()); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := SettingsFilePath()
	if FileExists(path) {
		return nil
	}

	if err := os.WriteFile(path, []byte(settingsTemplate), 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

const settingsTemplate = `# deskmate configuration
# Location: ~/.config/deskmate/settings.toml
# This file uses TOML format: https://toml.io

# Directory where chat history, tasks, and reminders are stored
data_directory = "~/.local/share/deskmate"

# Default reply language: "en" or "ur"
default_language = "en"

# How often the reminder scheduler polls, in seconds
scheduler_interval_seconds = 30

[oracle]
# LLM backend: "groq", "openai", "anthropic", or "ollama"
backend = "groq"

# Model name for the selected backend
model = "llama-3.3-70b-versatile"

# Override the backend's default API endpoint (optional)
# base_url = ""

[email]
# SMTP settings for send_email. Store the password with:
#   deskmate credential set email
smtp_host = "smtp.gmail.com"
smtp_port = 587
# address = "you@example.com"

[security]
# Credential storage: "plaintext" or "ssh_key"
method = "plaintext"
# ssh_key_path = "~/.ssh/deskmate_ed25519"

# MCP plugin system (disabled by default)
plugins_enabled = false

# [[plugins]]
# name = "filesystem"
# command = "npx"
# args = ["-y", "@modelcontextprotocol/server-filesystem", "/home/you"]
`
