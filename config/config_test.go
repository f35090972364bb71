package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	content := `
default_language = "ur"

[oracle]
backend = "ollama"
model = "llama3.1:latest"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	if cfg.DefaultLanguage != "ur" {
		t.Errorf("DefaultLanguage = %q", cfg.DefaultLanguage)
	}
	if cfg.Oracle.Backend != "ollama" || cfg.Oracle.Model != "llama3.1:latest" {
		t.Errorf("Oracle = %+v", cfg.Oracle)
	}
	// Unset fields keep their defaults.
	if cfg.Email.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want default 587", cfg.Email.SMTPPort)
	}
	if cfg.SchedulerInterval != 30 {
		t.Errorf("SchedulerInterval = %d, want default 30", cfg.SchedulerInterval)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")

	cfg := Default()
	cfg.Oracle.Backend = "anthropic"
	cfg.Oracle.Model = "claude-sonnet-4-20250514"
	cfg.PluginsEnabled = true
	cfg.Plugins = []PluginConfig{{Name: "fs", Command: "npx", Args: []string{"-y", "server-fs"}}}

	if err := SaveSettings(cfg, path); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if loaded.Oracle.Backend != "anthropic" {
		t.Errorf("Backend = %q", loaded.Oracle.Backend)
	}
	if len(loaded.Plugins) != 1 || loaded.Plugins[0].Command != "npx" {
		t.Errorf("Plugins = %+v", loaded.Plugins)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DESKMATE_ORACLE_BACKEND", "openai")
	t.Setenv("DESKMATE_ORACLE_MODEL", "gpt-4o-mini")
	t.Setenv("DESKMATE_LANGUAGE", "ur")

	cfg := Default()
	cfg.applyEnvOverrides()

	if cfg.Oracle.Backend != "openai" {
		t.Errorf("Backend = %q", cfg.Oracle.Backend)
	}
	if cfg.Oracle.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", cfg.Oracle.Model)
	}
	if cfg.DefaultLanguage != "ur" {
		t.Errorf("DefaultLanguage = %q", cfg.DefaultLanguage)
	}
}

func TestCredentialStorePlainText(t *testing.T) {
	dir := t.TempDir()

	store := NewCredentialStore(SecurityPlainText, "")
	store.Set("groq", "gsk_test123")
	store.Set("email", "app-password")
	if err := store.Save(dir); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewCredentialStore(SecurityPlainText, "")
	if err := reloaded.Load(dir); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := reloaded.Get("groq"); got != "gsk_test123" {
		t.Errorf("groq = %q", got)
	}

	reloaded.Delete("groq")
	if got := reloaded.Get("groq"); got != "" {
		t.Errorf("deleted credential still present: %q", got)
	}
}

func TestCredentialEnvWins(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk_from_env")

	store := NewCredentialStore(SecurityPlainText, "")
	store.Set("groq", "gsk_from_file")

	if got := store.Get("groq"); got != "gsk_from_env" {
		t.Errorf("Get(groq) = %q, env should win", got)
	}
}

func TestExpandPath(t *testing.T) {
	home := HomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"~/data", filepath.Join(home, "data")},
		{"/absolute/path", "/absolute/path"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
