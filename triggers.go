package fsm

import (
	"fmt"
	"reflect"

	"github.com/stategraph/fsm/internal/kind"
)

// Guard pairs a predicate with the description reported when the predicate
// blocks a firing. A zero Description is derived from the function's name.
type Guard struct {
	Condition   func(args ...any) bool
	Description string
}

func (g Guard) description() string {
	if g.Description != "" {
		return g.Description
	}
	return getFunctionName(g.Condition)
}

// transitionGuard is an ordered conjunction of guard conditions. It passes only
// when every condition returns true for the firing's arguments.
type transitionGuard struct {
	conditions []Guard
}

func newTransitionGuard(guards ...Guard) transitionGuard {
	for _, g := range guards {
		if g.Condition == nil {
			panic(fmt.Errorf("fsm: guard condition: %w", ErrNullCallback))
		}
	}
	return transitionGuard{conditions: guards}
}

func (g transitionGuard) passes(args []any) bool {
	for _, condition := range g.conditions {
		if !condition.Condition(args...) {
			return false
		}
	}
	return true
}

// unmet returns the descriptions of failing conditions in declaration order.
func (g transitionGuard) unmet(args []any) []string {
	var unmet []string
	for _, condition := range g.conditions {
		if !condition.Condition(args...) {
			unmet = append(unmet, condition.description())
		}
	}
	return unmet
}

func (g transitionGuard) descriptions() []string {
	var descriptions []string
	for _, condition := range g.conditions {
		descriptions = append(descriptions, condition.description())
	}
	return descriptions
}

// triggerBehaviour is the tagged variant behind every configured reaction to a
// trigger. The kind field selects which of the remaining fields are meaningful:
// destination for transitioning and reentry, selector for dynamic, action for
// internal. Ignored behaviours carry only their guard.
type triggerBehaviour[S, T comparable] struct {
	kind        kind.Kind
	trigger     T
	guard       transitionGuard
	destination S
	selector    func(args ...any) S
	selectorDescription string
	action      func(Transition[S, T])
}

func isKind[S, T comparable](b *triggerBehaviour[S, T], k kind.Kind) bool {
	return kind.Is(b.kind, k)
}

func (b *triggerBehaviour[S, T]) guardPassed(args []any) bool {
	return b.guard.passes(args)
}

func (b *triggerBehaviour[S, T]) unmetGuards(args []any) []string {
	return b.guard.unmet(args)
}

// triggerBehaviourResult is the outcome of handler resolution for one trigger:
// either a single behaviour whose guard passed, the aggregated unmet-guard
// descriptions when none passed, or an ambiguity marker when several did.
type triggerBehaviourResult[S, T comparable] struct {
	behaviour            *triggerBehaviour[S, T]
	unmetGuardConditions []string
	multiple             bool
}

// triggerParameters records the argument types a trigger must be fired with.
type triggerParameters[T comparable] struct {
	trigger       T
	argumentTypes []reflect.Type
}

// validate checks an argument tuple against the registered types. Arity is
// checked first, then positional assignability. A nil argument satisfies any
// nilable parameter type.
func (p triggerParameters[T]) validate(args []any) error {
	if len(args) != len(p.argumentTypes) {
		return fmt.Errorf("fsm: trigger %v requires %d arguments, got %d: %w",
			p.trigger, len(p.argumentTypes), len(args), ErrArityMismatch)
	}
	for i, arg := range args {
		want := p.argumentTypes[i]
		if arg == nil {
			switch want.Kind() {
			case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
				reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
				continue
			default:
				return fmt.Errorf("fsm: trigger %v argument %d is nil, want %s: %w",
					p.trigger, i, want, ErrTypeMismatch)
			}
		}
		if got := reflect.TypeOf(arg); !got.AssignableTo(want) {
			return fmt.Errorf("fsm: trigger %v argument %d is %s, want %s: %w",
				p.trigger, i, got, want, ErrTypeMismatch)
		}
	}
	return nil
}
