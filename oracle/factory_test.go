package oracle

import (
	"errors"
	"testing"

	"deskmate/model"
)

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New(Config{Backend: "watson"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNewMissingAPIKey(t *testing.T) {
	for _, backend := range []Backend{BackendGroq, BackendOpenAI, BackendAnthropic} {
		_, err := New(Config{Backend: backend})
		if !errors.Is(err, model.ErrOracleUnavailable) {
			t.Errorf("%s: err = %v, want ErrOracleUnavailable", backend, err)
		}
	}
}

func TestNewGroqDefaults(t *testing.T) {
	o, err := NewGroq(Config{APIKey: "gsk_test"})
	if err != nil {
		t.Fatalf("NewGroq: %v", err)
	}
	if o.Model() != "llama-3.3-70b-versatile" {
		t.Errorf("model = %q", o.Model())
	}
}

func TestNewOllamaNoKeyNeeded(t *testing.T) {
	o, err := NewOllama(Config{Model: "llama3.1:latest"})
	if err != nil {
		t.Fatalf("NewOllama: %v", err)
	}
	if o.Model() != "llama3.1:latest" {
		t.Errorf("model = %q", o.Model())
	}
}

func TestConfigTimeoutDefault(t *testing.T) {
	if got := (Config{}).timeout(); got != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", got, DefaultTimeout)
	}
}

func TestToAnthropicMessagesSplitsSystem(t *testing.T) {
	msgs, system := toAnthropicMessages([]model.ChatMessage{
		{Role: model.RoleSystem, Content: "be helpful"},
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello"},
	})

	if len(system) != 1 || system[0].Text != "be helpful" {
		t.Errorf("system blocks = %+v", system)
	}
	if len(msgs) != 2 {
		t.Errorf("messages = %d, want 2 (system split out)", len(msgs))
	}
}

func TestToOllamaMessages(t *testing.T) {
	msgs := toOllamaMessages([]model.ChatMessage{
		{Role: model.RoleSystem, Content: "be helpful"},
		{Role: model.RoleUser, Content: "hi"},
	})

	if len(msgs) != 2 {
		t.Fatalf("messages = %d", len(msgs))
	}
	if msgs[0].Role != "system" || msgs[1].Role != "user" {
		t.Errorf("roles = %q, %q", msgs[0].Role, msgs[1].Role)
	}
}
