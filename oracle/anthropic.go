package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"deskmate/model"
)

// Anthropic is the oracle backend for Claude models.
type Anthropic struct {
	client  *anthropic.Client
	model   anthropic.Model
	timeout time.Duration
}

// NewAnthropic creates an Anthropic oracle.
//
// Defaults: base URL "https://api.anthropic.com", model Claude Sonnet 4.5.
// The API key is required.
func NewAnthropic(cfg Config) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Anthropic API key not configured", model.ErrOracleUnavailable)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	var anthropicModel anthropic.Model
	if cfg.Model == "" {
		anthropicModel = anthropic.ModelClaudeSonnet4_5_20250929
	} else {
		anthropicModel = anthropic.Model(cfg.Model)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(cfg.APIKey),
	)

	return &Anthropic{
		client:  &client,
		model:   anthropicModel,
		timeout: cfg.timeout(),
	}, nil
}

// Complete implements model.Oracle.
//
// Anthropic has no JSON response mode, so wantJSON is expressed as an extra
// system block demanding a bare JSON object. The resolver tolerates the
// model ignoring it - free text simply takes the fallback extraction path.
func (a *Anthropic) Complete(ctx context.Context, messages []model.ChatMessage, wantJSON bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	anthropicMsgs, systemBlocks := toAnthropicMessages(messages)

	if wantJSON {
		systemBlocks = append(systemBlocks, anthropic.TextBlockParam{
			Text: "Respond with a single JSON object and nothing else.",
		})
	}

	params := anthropic.MessageNewParams{
		Model:     a.model,
		Messages:  anthropicMsgs,
		MaxTokens: 1024,
	}
	if len(systemBlocks) > 0 {
		params.System = systemBlocks
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Anthropic completion failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// Model implements model.Oracle.
func (a *Anthropic) Model() string {
	return string(a.model)
}

// Ping implements model.Oracle. Anthropic has no health endpoint, so ping
// is a one-token request.
func (a *Anthropic) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 1,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock("ping")),
		},
	})
	if err != nil {
		return fmt.Errorf("Anthropic ping failed: %w", err)
	}
	return nil
}
