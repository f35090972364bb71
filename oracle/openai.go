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

// OpenAI is the oracle backend for OpenAI's own API.
type OpenAI struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI creates an OpenAI oracle.
//
// Defaults: base URL "https://api.openai.com/v1", model "gpt-4o-mini".
// The API key is required.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key not configured", model.ErrOracleUnavailable)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(cfg.APIKey),
	)

	return &OpenAI{
		client:  client,
		model:   modelName,
		timeout: cfg.timeout(),
	}, nil
}

// Complete implements model.Oracle.
func (o *OpenAI) Complete(ctx context.Context, messages []model.ChatMessage, wantJSON bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Messages:            toOpenAIMessages(messages),
		Model:               openai.ChatModel(o.model),
		Temperature:         openai.Float(0.7),
		MaxCompletionTokens: openai.Int(1024),
	}
	if wantJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("OpenAI completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// Model implements model.Oracle.
func (o *OpenAI) Model() string {
	return o.model
}

// Ping implements model.Oracle with a minimal completion request.
func (o *OpenAI) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage("ping")},
		Model:               openai.ChatModel(o.model),
		MaxCompletionTokens: openai.Int(1),
	})
	if err != nil {
		return fmt.Errorf("OpenAI ping failed: %w", err)
	}
	return nil
}
