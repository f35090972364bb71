package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"deskmate/model"
)

// Ollama is the oracle backend for a local Ollama server. It needs no
// credentials, which makes it the only backend that can never be
// "unavailable" at construction time - only unreachable at request time.
type Ollama struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

// NewOllama creates an Ollama oracle.
//
// Defaults: base URL "http://localhost:11434", model "llama3.1:latest".
func NewOllama(cfg Config) (*Ollama, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = "llama3.1:latest"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &Ollama{
		client:  api.NewClient(parsedURL, http.DefaultClient),
		model:   modelName,
		timeout: cfg.timeout(),
	}, nil
}

// Complete implements model.Oracle.
func (o *Ollama) Complete(ctx context.Context, messages []model.ChatMessage, wantJSON bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req := &api.ChatRequest{
		Model:    o.model,
		Messages: toOllamaMessages(messages),
		Stream:   func(b bool) *bool { return &b }(false),
	}
	if wantJSON {
		req.Format = json.RawMessage(`"json"`)
	}

	var sb strings.Builder
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		sb.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama completion failed: %w", err)
	}

	return sb.String(), nil
}

// Model implements model.Oracle.
func (o *Ollama) Model() string {
	return o.model
}

// Ping implements model.Oracle.
func (o *Ollama) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := o.client.List(ctx); err != nil {
		return fmt.Errorf("Ollama ping failed: %w", err)
	}
	return nil
}
