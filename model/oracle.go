package model

import (
	"context"
	"errors"
)

// ErrOracleUnavailable means no oracle client could be constructed, usually
// because credentials are missing. The resolver treats it like any other
// oracle failure and falls back to deterministic intent extraction.
var ErrOracleUnavailable = errors.New("oracle unavailable")

// Oracle abstracts the external LLM backends (Groq, OpenAI, Anthropic,
// Ollama) behind one completion call.
//
// The interface lives in the model package, not the oracle package, so
// backend implementations can import model without a cycle - the same
// layering the conversation core uses for every other collaborator.
//
// Complete sends the ordered prompt messages and returns the assistant's
// raw text. When wantJSON is true the backend asks for a JSON object
// response where the API supports it; callers must still tolerate free
// text, since not every backend honors the request.
type Oracle interface {
	Complete(ctx context.Context, messages []ChatMessage, wantJSON bool) (string, error)

	// Model returns the active model name, for logging and display.
	Model() string

	// Ping checks whether the backend is reachable.
	Ping(ctx context.Context) error
}
