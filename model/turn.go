// Package model holds deskmate's shared domain types.
//
// These types are deliberately free of storage, transport, and provider
// concerns so that every other package (storage, oracle, resolver, dispatch,
// session) can depend on them without import cycles. Provider-specific and
// SQL-specific representations are converted at the edges.
package model

import "time"

// Role identifies who produced a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Language is the conversation language of a turn.
// The assistant speaks English by default and Urdu on request.
type Language string

const (
	LangEnglish Language = "en"
	LangUrdu    Language = "ur"
)

// ChatTurn is one immutable entry in the conversation log.
type ChatTurn struct {
	Role      Role
	Content   string
	Language  Language
	Timestamp time.Time
}

// ChatMessage is a single prompt message sent to the oracle.
// It mirrors the {role, content} shape every supported LLM API accepts.
type ChatMessage struct {
	Role    Role
	Content string
}
