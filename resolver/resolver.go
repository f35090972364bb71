// Package resolver turns a free-text utterance into a reply and a validated
// list of structured actions.
//
// The primary path asks the LLM oracle for either free text or a JSON
// object {response, actions}. A deterministic keyword fallback covers the
// three ways the oracle can let us down: no client, a request failure, or
// output that does not parse. The resolver never returns an error to the
// session orchestrator - the worst case is an apologetic reply with
// whatever actions the fallback tables could extract.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"deskmate/capability"
	"deskmate/model"
)

// contextWindow is how many recent chat turns are sent to the oracle.
const contextWindow = 10

// apologeticReply is the fixed degraded reply used when the oracle cannot
// be reached at all. Conversational continuity beats a hard failure.
const apologeticReply = "I'm sorry, I couldn't reach my language model just now. I've done what I could without it."

// Resolution is what the resolver hands back for every utterance: a reply
// to show the user and zero or more actions to dispatch.
type Resolution struct {
	Reply   string
	Actions []model.Action
}

// Resolver converts utterances into resolutions.
type Resolver struct {
	oracle   model.Oracle // nil when no backend could be constructed
	registry *capability.Registry
	log      *zap.Logger
}

// New returns a resolver. oracle may be nil, in which case every utterance
// takes the fallback path.
func New(oracle model.Oracle, registry *capability.Registry, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{oracle: oracle, registry: registry, log: logger}
}

// Resolve produces a reply and action list for one utterance. It never
// fails: oracle trouble degrades to the deterministic fallback path.
func (r *Resolver) Resolve(ctx context.Context, utterance string, language model.Language, recent []model.ChatTurn) Resolution {
	if r.oracle == nil {
		r.log.Debug("no oracle configured, using fallback resolution")
		return r.fallbackResolution(utterance)
	}

	messages := buildPrompt(r.registry, utterance, language, recent)
	wantJSON := wantsStructuredOutput(utterance)

	content, err := r.oracle.Complete(ctx, messages, wantJSON)
	if err != nil {
		if errors.Is(err, model.ErrOracleUnavailable) {
			r.log.Warn("oracle unavailable", zap.Error(err))
		} else {
			r.log.Warn("oracle request failed", zap.Error(err))
		}
		return r.fallbackResolution(utterance)
	}

	if reply, actions, ok := r.parseStructured(content); ok {
		return Resolution{Reply: reply, Actions: actions}
	}

	// Free text (or unparsable JSON): the whole content is the reply and
	// action extraction falls to the keyword tables.
	return Resolution{
		Reply:   content,
		Actions: r.extractFallbackActions(utterance),
	}
}

// fallbackResolution is the fully degraded path: fixed apologetic reply
// plus whatever the keyword tables can extract.
func (r *Resolver) fallbackResolution(utterance string) Resolution {
	return Resolution{
		Reply:   apologeticReply,
		Actions: r.extractFallbackActions(utterance),
	}
}

// oracleEnvelope is the JSON shape the oracle is instructed to answer
// action requests with.
type oracleEnvelope struct {
	Response string         `json:"response"`
	Actions  []model.Action `json:"actions"`
}

// parseStructured tries to interpret oracle output as the JSON envelope.
// Suggested actions whose type is not registered are dropped, not fatal -
// the oracle hallucinating a capability must never crash a request.
func (r *Resolver) parseStructured(content string) (string, []model.Action, bool) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return "", nil, false
	}

	var envelope oracleEnvelope
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		r.log.Debug("oracle output is not valid JSON", zap.Error(err))
		return "", nil, false
	}
	if envelope.Response == "" {
		return "", nil, false
	}

	valid := make([]model.Action, 0, len(envelope.Actions))
	for _, action := range envelope.Actions {
		if _, err := r.registry.Resolve(action.Type); err != nil {
			r.log.Warn("dropping unregistered action from oracle",
				zap.String("action", action.Type))
			continue
		}
		if action.Parameters == nil {
			action.Parameters = map[string]any{}
		}
		valid = append(valid, action)
	}

	return envelope.Response, valid, true
}

// actionKeywords indicate an utterance likely wants something done, which
// is when the more expensive structured-output mode pays for itself. The
// exact membership is a tuning knob, not a contract.
var actionKeywords = []string{
	"open", "run", "launch", "search", "browse", "send", "email",
	"delete", "move", "copy", "organize", "clean", "remind",
	"handle", "perform", "execute", "do", "make", "create",
	"folder", "file", "task", "reminder", "schedule",
}

// wantsStructuredOutput decides whether to request a JSON object response.
func wantsStructuredOutput(utterance string) bool {
	lower := strings.ToLower(utterance)
	for _, keyword := range actionKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
