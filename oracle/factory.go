package oracle

import (
	"fmt"

	"deskmate/model"
)

// New creates an oracle from configuration.
//
// This is the single place that maps a configured backend name to a
// concrete client. Constructors fail fast on missing credentials so the
// caller can decide whether to run without an oracle (the resolver's
// fallback path) or refuse to start.
func New(cfg Config) (model.Oracle, error) {
	switch cfg.Backend {
	case BackendGroq:
		return NewGroq(cfg)
	case BackendOpenAI:
		return NewOpenAI(cfg)
	case BackendAnthropic:
		return NewAnthropic(cfg)
	case BackendOllama:
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("unknown oracle backend: %s", cfg.Backend)
	}
}
