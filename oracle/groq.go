package oracle

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"deskmate/model"
)

// Groq is the default oracle backend. Groq's API is OpenAI
// wire-compatible, so it rides the official OpenAI Go SDK pointed at
// Groq's base URL.
type Groq struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewGroq creates a Groq oracle.
//
// Defaults: base URL "https://api.groq.com/openai/v1", model
// "llama-3.3-70b-versatile". The API key is required; without it the
// constructor reports model.ErrOracleUnavailable so callers can degrade to
// fallback-only resolution instead of refusing to start.
func NewGroq(cfg Config) (*Groq, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: Groq API key not configured", model.ErrOracleUnavailable)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = "llama-3.3-70b-versatile"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(cfg.APIKey),
	)

	return &Groq{
		client:  client,
		model:   modelName,
		timeout: cfg.timeout(),
	}, nil
}

// Complete implements model.Oracle.
func (g *Groq) Complete(ctx context.Context, messages []model.ChatMessage, wantJSON bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Messages:            toOpenAIMessages(messages),
		Model:               openai.ChatModel(g.model),
		Temperature:         openai.Float(0.7),
		MaxCompletionTokens: openai.Int(1024),
	}
	if wantJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Groq completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("Groq returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// Model implements model.Oracle.
func (g *Groq) Model() string {
	return g.model
}

// Ping implements model.Oracle with a minimal completion request.
func (g *Groq) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage("ping")},
		Model:               openai.ChatModel(g.model),
		MaxCompletionTokens: openai.Int(1),
	})
	if err != nil {
		return fmt.Errorf("Groq ping failed: %w", err)
	}
	return nil
}
