package model

// Action is a structured request to invoke one capability.
//
// Actions are produced by the intent resolver (from oracle output or the
// deterministic fallback tables) or handed in directly by API callers.
// Type must name a registered capability at dispatch time; an unknown type
// is a failed outcome, never a crash.
type Action struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters"`
}

// Outcome is the normalized result of attempting one action.
//
// Exactly one of Result/Error is meaningful: Success true carries Result,
// Success false carries Error. The dispatcher guarantees one Outcome per
// Action, in input order.
type Outcome struct {
	ActionType string `json:"action"`
	Result     string `json:"result,omitempty"`
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
}

// Param reads a string parameter, returning "" when absent or non-string.
func (a Action) Param(name string) string {
	v, ok := a.Parameters[name]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
