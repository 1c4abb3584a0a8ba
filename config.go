package fsm

import "fmt"

// StateConfiguration is the fluent surface for attaching behaviours to one
// state. Every method is additive and returns the configuration for chaining.
// Re-declaring a permit for the same trigger and destination stacks a second
// behaviour; guard order follows declaration order.
type StateConfiguration[S, T comparable] struct {
	machine        *Machine[S, T]
	representation *stateRepresentation[S, T]
}

// State returns the state value under configuration.
func (sc *StateConfiguration[S, T]) State() S {
	return sc.representation.state
}

// Permit declares that the trigger transitions to the given destination state.
// The destination must differ from the configured state; use PermitReentry to
// exit and re-enter, or Ignore to consume the trigger in place.
func (sc *StateConfiguration[S, T]) Permit(trigger T, destination S) *StateConfiguration[S, T] {
	return sc.PermitIf(trigger, destination)
}

// PermitIf declares a guarded transition to the given destination state.
func (sc *StateConfiguration[S, T]) PermitIf(trigger T, destination S, guards ...Guard) *StateConfiguration[S, T] {
	sc.machine.assertConfigurable()
	if destination == sc.representation.state {
		panic(fmt.Errorf("fsm: Permit requires a destination different from %v; use PermitReentry or Ignore", destination))
	}
	sc.machine.representation(destination)
	sc.representation.addTriggerBehaviour(&triggerBehaviour[S, T]{
		kind:        transitioningKind,
		trigger:     trigger,
		guard:       newTransitionGuard(guards...),
		destination: destination,
	})
	return sc
}

// PermitReentry declares that the trigger exits and re-enters the configured
// state, firing its exit and entry actions exactly once each.
func (sc *StateConfiguration[S, T]) PermitReentry(trigger T) *StateConfiguration[S, T] {
	return sc.PermitReentryIf(trigger)
}

// PermitReentryIf declares a guarded reentry.
func (sc *StateConfiguration[S, T]) PermitReentryIf(trigger T, guards ...Guard) *StateConfiguration[S, T] {
	sc.machine.assertConfigurable()
	sc.representation.addTriggerBehaviour(&triggerBehaviour[S, T]{
		kind:        reentryKind,
		trigger:     trigger,
		guard:       newTransitionGuard(guards...),
		destination: sc.representation.state,
	})
	return sc
}

// Ignore declares that the trigger is consumed silently in this state.
func (sc *StateConfiguration[S, T]) Ignore(trigger T) *StateConfiguration[S, T] {
	return sc.IgnoreIf(trigger)
}

// IgnoreIf declares a guarded ignore. When the guard fails the trigger falls
// through to ancestor states and, failing those, to the unhandled policy.
func (sc *StateConfiguration[S, T]) IgnoreIf(trigger T, guards ...Guard) *StateConfiguration[S, T] {
	sc.machine.assertConfigurable()
	sc.representation.addTriggerBehaviour(&triggerBehaviour[S, T]{
		kind:    ignoredKind,
		trigger: trigger,
		guard:   newTransitionGuard(guards...),
	})
	return sc
}

// InternalTransition declares an action that runs on the trigger without exit
// or entry actions and without changing state. Transition observers are not
// invoked for internal transitions.
func (sc *StateConfiguration[S, T]) InternalTransition(trigger T, action func(Transition[S, T]), guards ...Guard) *StateConfiguration[S, T] {
	sc.machine.assertConfigurable()
	if action == nil {
		panic(fmt.Errorf("fsm: internal transition action: %w", ErrNullCallback))
	}
	sc.representation.addTriggerBehaviour(&triggerBehaviour[S, T]{
		kind:    internalKind,
		trigger: trigger,
		guard:   newTransitionGuard(guards...),
		action:  action,
	})
	return sc
}

// PermitDynamic declares a transition whose destination is computed from the
// firing's arguments.
func (sc *StateConfiguration[S, T]) PermitDynamic(trigger T, selector func(args ...any) S) *StateConfiguration[S, T] {
	return sc.PermitDynamicIf(trigger, selector)
}

// PermitDynamicIf declares a guarded dynamic transition. The selector must be
// deterministic for a given argument tuple.
func (sc *StateConfiguration[S, T]) PermitDynamicIf(trigger T, selector func(args ...any) S, guards ...Guard) *StateConfiguration[S, T] {
	sc.machine.assertConfigurable()
	if selector == nil {
		panic(fmt.Errorf("fsm: dynamic destination selector: %w", ErrNullCallback))
	}
	sc.representation.addTriggerBehaviour(&triggerBehaviour[S, T]{
		kind:                dynamicKind,
		trigger:             trigger,
		guard:               newTransitionGuard(guards...),
		selector:            selector,
		selectorDescription: getFunctionName(selector),
	})
	return sc
}

// SubstateOf places the configured state under a parent state. The state
// inherits the parent's trigger behaviours, and transitions crossing the
// boundary fire the parent's entry and exit actions. Panics with
// ErrCyclicHierarchy when the declaration would introduce a cycle.
func (sc *StateConfiguration[S, T]) SubstateOf(parent S) *StateConfiguration[S, T] {
	sc.machine.assertConfigurable()
	parentRep := sc.machine.representation(parent)
	for rep := parentRep; rep != nil; rep = rep.superstateRepresentation() {
		if rep.state == sc.representation.state {
			panic(fmt.Errorf("fsm: %v substate of %v: %w", sc.representation.state, parent, ErrCyclicHierarchy))
		}
	}
	sc.representation.hasSuperstate = true
	sc.representation.superstate = parent
	parentRep.substates = append(parentRep.substates, sc.representation)
	return sc
}

// InitialTransition designates the substate entered automatically whenever a
// transition lands on the configured state. The target is validated to be a
// direct substate at fire time.
func (sc *StateConfiguration[S, T]) InitialTransition(target S) *StateConfiguration[S, T] {
	sc.machine.assertConfigurable()
	if sc.representation.hasInitialTransition {
		panic(fmt.Errorf("fsm: state %v already has an initial transition to %v",
			sc.representation.state, sc.representation.initialTransitionTarget))
	}
	sc.machine.representation(target)
	sc.representation.hasInitialTransition = true
	sc.representation.initialTransitionTarget = target
	return sc
}

// OnEntry attaches an action run when the state is entered.
func (sc *StateConfiguration[S, T]) OnEntry(action func(Transition[S, T])) *StateConfiguration[S, T] {
	sc.machine.assertConfigurable()
	if action == nil {
		panic(fmt.Errorf("fsm: entry action: %w", ErrNullCallback))
	}
	sc.representation.entryActions = append(sc.representation.entryActions, entryActionBehaviour[S, T]{
		action:      action,
		description: getFunctionName(action),
	})
	return sc
}

// OnEntryFrom attaches an entry action that runs only when the state was
// entered by the given trigger.
func (sc *StateConfiguration[S, T]) OnEntryFrom(trigger T, action func(Transition[S, T])) *StateConfiguration[S, T] {
	sc.machine.assertConfigurable()
	if action == nil {
		panic(fmt.Errorf("fsm: entry action: %w", ErrNullCallback))
	}
	sc.representation.entryActions = append(sc.representation.entryActions, entryActionBehaviour[S, T]{
		action:      action,
		description: getFunctionName(action),
		hasTrigger:  true,
		trigger:     trigger,
	})
	return sc
}

// OnExit attaches an action run when the state is exited.
func (sc *StateConfiguration[S, T]) OnExit(action func(Transition[S, T])) *StateConfiguration[S, T] {
	sc.machine.assertConfigurable()
	if action == nil {
		panic(fmt.Errorf("fsm: exit action: %w", ErrNullCallback))
	}
	sc.representation.exitActions = append(sc.representation.exitActions, exitActionBehaviour[S, T]{
		action:      action,
		description: getFunctionName(action),
	})
	return sc
}

// OnActivate attaches an action run when a handle in this state activates.
func (sc *StateConfiguration[S, T]) OnActivate(action func()) *StateConfiguration[S, T] {
	sc.machine.assertConfigurable()
	if action == nil {
		panic(fmt.Errorf("fsm: activate action: %w", ErrNullCallback))
	}
	sc.representation.activateActions = append(sc.representation.activateActions, activateActionBehaviour{
		action:      action,
		description: getFunctionName(action),
	})
	return sc
}

// OnDeactivate attaches an action run when a handle in this state deactivates.
func (sc *StateConfiguration[S, T]) OnDeactivate(action func()) *StateConfiguration[S, T] {
	sc.machine.assertConfigurable()
	if action == nil {
		panic(fmt.Errorf("fsm: deactivate action: %w", ErrNullCallback))
	}
	sc.representation.deactivateActions = append(sc.representation.deactivateActions, deactivateActionBehaviour{
		action:      action,
		description: getFunctionName(action),
	})
	return sc
}
