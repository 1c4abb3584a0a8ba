// Package metrics exposes prometheus instrumentation for state machines.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/stategraph/fsm"
)

var (
	// transitionsTotal counts completed transitions per machine and edge.
	transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "fsm_transitions_total",
		Help: "The total number of completed state transitions",
	}, []string{"machine", "source", "destination", "trigger"})

	// unhandledTotal counts firings rejected by the unhandled-trigger policy.
	unhandledTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "fsm_unhandled_triggers_total",
		Help: "The total number of unhandled trigger firings",
	}, []string{"machine", "state", "trigger"})
)

// Observer returns a completion observer that counts transitions for the
// named machine. Register it with OnTransitionCompleted so dynamic and
// initial-transition destinations are recorded with their final state.
func Observer[S, T comparable](machine string) func(fsm.Transition[S, T]) {
	return func(t fsm.Transition[S, T]) {
		transitionsTotal.WithLabelValues(
			machine,
			fmt.Sprint(t.Source),
			fmt.Sprint(t.Destination),
			fmt.Sprint(t.Trigger),
		).Inc()
	}
}

// UnhandledTrigger returns an unhandled-trigger policy that counts the
// rejected firing and delegates to next. A nil next consumes the trigger
// silently after counting.
func UnhandledTrigger[S, T comparable](machine string, next fsm.UnhandledTriggerFunc[S, T]) fsm.UnhandledTriggerFunc[S, T] {
	return func(state S, trigger T, unmetGuards []string) error {
		unhandledTotal.WithLabelValues(machine, fmt.Sprint(state), fmt.Sprint(trigger)).Inc()
		if next == nil {
			return nil
		}
		return next(state, trigger, unmetGuards)
	}
}
