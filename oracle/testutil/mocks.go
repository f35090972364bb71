// Package testutil provides mock oracles for testing the resolver and
// session layers without network access.
package testutil

import (
	"context"

	"deskmate/model"
)

// MockOracle implements model.Oracle with configurable behavior.
type MockOracle struct {
	CompleteFunc func(ctx context.Context, messages []model.ChatMessage, wantJSON bool) (string, error)
	PingFunc     func(ctx context.Context) error

	// Calls records every Complete invocation for assertions.
	Calls []CompleteCall

	ModelName string
}

// CompleteCall captures the arguments of one Complete invocation.
type CompleteCall struct {
	Messages []model.ChatMessage
	WantJSON bool
}

// NewMockOracle returns a mock that answers every completion with reply.
func NewMockOracle(reply string) *MockOracle {
	return &MockOracle{
		CompleteFunc: func(context.Context, []model.ChatMessage, bool) (string, error) {
			return reply, nil
		},
		ModelName: "mock-model",
	}
}

// NewFailingOracle returns a mock whose completions always fail with err.
func NewFailingOracle(err error) *MockOracle {
	return &MockOracle{
		CompleteFunc: func(context.Context, []model.ChatMessage, bool) (string, error) {
			return "", err
		},
		ModelName: "mock-model",
	}
}

func (m *MockOracle) Complete(ctx context.Context, messages []model.ChatMessage, wantJSON bool) (string, error) {
	m.Calls = append(m.Calls, CompleteCall{Messages: messages, WantJSON: wantJSON})
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages, wantJSON)
	}
	return "", nil
}

func (m *MockOracle) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

func (m *MockOracle) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
