// Package oracle implements deskmate's LLM backends.
//
// The assistant supports multiple backends (Groq, OpenAI, Anthropic, local
// Ollama) behind the model.Oracle interface. The resolver stays
// backend-agnostic: it hands over ordered prompt messages and gets raw text
// back, optionally requesting a JSON object response for action-bearing
// utterances. All type conversions between deskmate's ChatMessage and each
// SDK's message shapes happen inside this package.
//
// Every backend bounds its completion call with the configured timeout; a
// timed-out completion is indistinguishable from any other oracle failure
// and degrades to the resolver's fallback path.
package oracle

import "time"

// Backend identifies the oracle implementation.
type Backend string

const (
	BackendGroq      Backend = "groq"
	BackendOpenAI    Backend = "openai"
	BackendAnthropic Backend = "anthropic"
	BackendOllama    Backend = "ollama"
)

// DefaultTimeout bounds oracle round-trips when the config does not say
// otherwise.
const DefaultTimeout = 30 * time.Second

// Config holds backend-specific oracle configuration.
type Config struct {
	Backend Backend
	BaseURL string
	Model   string
	APIKey  string // unused for Ollama
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
