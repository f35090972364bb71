// Package dispatch executes resolved actions against registered capability
// handlers with one uniform failure contract.
//
// Handlers wrap wildly heterogeneous side effects (file moves, subprocess
// launches, SMTP, clipboard, sqlite writes) and none of them are trusted to
// fail gracefully. The dispatcher is the single boundary where everything a
// handler can do wrong - unknown type, missing parameters, returned error,
// panic - is converted into a failed Outcome, so the session orchestrator
// never special-cases handler types and a batch never aborts midway.
package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"deskmate/capability"
	"deskmate/model"
)

// Dispatcher routes actions to capability handlers.
type Dispatcher struct {
	registry *capability.Registry
	log      *zap.Logger
}

// New returns a dispatcher over the given registry.
func New(registry *capability.Registry, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{registry: registry, log: logger}
}

// Dispatch executes one action and always returns exactly one outcome.
// Failures are reported in the outcome; Dispatch itself never fails.
func (d *Dispatcher) Dispatch(ctx context.Context, action model.Action) model.Outcome {
	entry, err := d.registry.Resolve(action.Type)
	if err != nil {
		return model.Outcome{
			ActionType: action.Type,
			Success:    false,
			Error:      fmt.Sprintf("unknown action type: %s", action.Type),
		}
	}

	for _, name := range entry.Required {
		if _, ok := action.Parameters[name]; !ok {
			return model.Outcome{
				ActionType: action.Type,
				Success:    false,
				Error:      fmt.Sprintf("missing parameter %s", name),
			}
		}
	}

	params := mergeParams(entry.Optional, action.Parameters)

	result, err := d.invoke(ctx, entry, params)
	if err != nil {
		d.log.Warn("action failed",
			zap.String("action", action.Type),
			zap.Error(err))
		return model.Outcome{
			ActionType: action.Type,
			Success:    false,
			Error:      err.Error(),
		}
	}

	return model.Outcome{
		ActionType: action.Type,
		Result:     result,
		Success:    true,
	}
}

// DispatchAll executes a batch sequentially, one outcome per action in
// input order. A failed action never prevents the ones after it.
func (d *Dispatcher) DispatchAll(ctx context.Context, actions []model.Action) []model.Outcome {
	outcomes := make([]model.Outcome, 0, len(actions))
	for _, action := range actions {
		outcomes = append(outcomes, d.Dispatch(ctx, action))
	}
	return outcomes
}

// invoke runs the handler, converting panics into errors. Handlers shell
// out and poke at OS state; a panic there must not take down the request.
func (d *Dispatcher) invoke(ctx context.Context, entry capability.Entry, params map[string]any) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return entry.Handler(ctx, params)
}

// mergeParams lays explicit action parameters over declared optional
// defaults. The action's values always win.
func mergeParams(defaults, explicit map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(explicit))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range explicit {
		merged[k] = v
	}
	return merged
}
