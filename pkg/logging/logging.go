// Package logging provides slog-backed observers for state machines.
package logging

import (
	"log/slog"

	"github.com/stategraph/fsm"
)

// Observer returns a transition observer that logs each transition at info
// level. Register it with OnTransitioned or OnTransitionCompleted. A nil
// logger falls back to slog.Default.
func Observer[S, T comparable](logger *slog.Logger) func(fsm.Transition[S, T]) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(t fsm.Transition[S, T]) {
		logger.Info("fsm: transition",
			"source", t.Source,
			"destination", t.Destination,
			"trigger", t.Trigger,
			"reentry", t.IsReentry(),
		)
	}
}

// UnhandledTrigger returns an unhandled-trigger policy that logs the rejected
// firing at warn level and then delegates to next. A nil next consumes the
// trigger silently after logging.
func UnhandledTrigger[S, T comparable](logger *slog.Logger, next fsm.UnhandledTriggerFunc[S, T]) fsm.UnhandledTriggerFunc[S, T] {
	if logger == nil {
		logger = slog.Default()
	}
	return func(state S, trigger T, unmetGuards []string) error {
		logger.Warn("fsm: unhandled trigger",
			"state", state,
			"trigger", trigger,
			"unmet_guards", unmetGuards,
		)
		if next == nil {
			return nil
		}
		return next(state, trigger, unmetGuards)
	}
}
