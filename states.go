package fsm

import (
	"github.com/stategraph/fsm/internal/kind"
)

// stateRepresentation is the structural and behavioural record for one state:
// its place in the hierarchy, its trigger-behaviour table, and its action
// lists. The superstate is stored by state value and resolved through the
// owning machine's state map on each traversal, so representations never form
// reference cycles with their parents.
type stateRepresentation[S, T comparable] struct {
	state  S
	lookup func(S) *stateRepresentation[S, T]

	hasSuperstate bool
	superstate    S
	substates     []*stateRepresentation[S, T]

	// triggerBehaviours maps each trigger to its behaviours in declaration
	// order; triggerOrder preserves the order triggers were first configured.
	triggerBehaviours map[T][]*triggerBehaviour[S, T]
	triggerOrder      []T

	entryActions      []entryActionBehaviour[S, T]
	exitActions       []exitActionBehaviour[S, T]
	activateActions   []activateActionBehaviour
	deactivateActions []deactivateActionBehaviour

	hasInitialTransition    bool
	initialTransitionTarget S

	active bool
}

func newStateRepresentation[S, T comparable](state S, lookup func(S) *stateRepresentation[S, T]) *stateRepresentation[S, T] {
	return &stateRepresentation[S, T]{
		state:             state,
		lookup:            lookup,
		triggerBehaviours: map[T][]*triggerBehaviour[S, T]{},
	}
}

func (sr *stateRepresentation[S, T]) superstateRepresentation() *stateRepresentation[S, T] {
	if !sr.hasSuperstate {
		return nil
	}
	return sr.lookup(sr.superstate)
}

func (sr *stateRepresentation[S, T]) addTriggerBehaviour(behaviour *triggerBehaviour[S, T]) {
	trigger := behaviour.trigger
	if _, exists := sr.triggerBehaviours[trigger]; !exists {
		sr.triggerOrder = append(sr.triggerOrder, trigger)
	}
	sr.triggerBehaviours[trigger] = append(sr.triggerBehaviours[trigger], behaviour)
}

// includes reports whether state is this state or anywhere in its subtree.
func (sr *stateRepresentation[S, T]) includes(state S) bool {
	if sr.state == state {
		return true
	}
	for _, substate := range sr.substates {
		if substate.includes(state) {
			return true
		}
	}
	return false
}

// isIncludedIn reports whether this state equals state or descends from it.
func (sr *stateRepresentation[S, T]) isIncludedIn(state S) bool {
	if sr.state == state {
		return true
	}
	if superstate := sr.superstateRepresentation(); superstate != nil {
		return superstate.isIncludedIn(state)
	}
	return false
}

func (sr *stateRepresentation[S, T]) hasDirectSubstate(state S) bool {
	for _, substate := range sr.substates {
		if substate.state == state {
			return true
		}
	}
	return false
}

// tryFindHandler resolves a trigger against this state's behaviour table,
// delegating to the superstate when no local behaviour matches. Unmet-guard
// descriptions collected along the chain are merged so the caller can report
// every condition that blocked the firing.
func (sr *stateRepresentation[S, T]) tryFindHandler(trigger T, args []any) triggerBehaviourResult[S, T] {
	result := sr.tryFindLocalHandler(trigger, args)
	if result.behaviour != nil || result.multiple {
		return result
	}
	if superstate := sr.superstateRepresentation(); superstate != nil {
		super := superstate.tryFindHandler(trigger, args)
		if super.behaviour != nil || super.multiple {
			return super
		}
		result.unmetGuardConditions = append(result.unmetGuardConditions, super.unmetGuardConditions...)
	}
	return result
}

func (sr *stateRepresentation[S, T]) tryFindLocalHandler(trigger T, args []any) triggerBehaviourResult[S, T] {
	behaviours, exists := sr.triggerBehaviours[trigger]
	if !exists {
		return triggerBehaviourResult[S, T]{}
	}

	var permitted []*triggerBehaviour[S, T]
	for _, behaviour := range behaviours {
		if behaviour.guardPassed(args) {
			permitted = append(permitted, behaviour)
		}
	}
	switch len(permitted) {
	case 1:
		return triggerBehaviourResult[S, T]{behaviour: permitted[0]}
	case 0:
		var unmet []string
		for _, behaviour := range behaviours {
			unmet = append(unmet, behaviour.unmetGuards(args)...)
		}
		return triggerBehaviourResult[S, T]{unmetGuardConditions: unmet}
	default:
		return triggerBehaviourResult[S, T]{multiple: true}
	}
}

// enter runs entry actions for a transition arriving at this state. When the
// transition comes from outside this state's subtree, superstates are entered
// first, outside-in. Synthetic initial transitions skip the superstate because
// it has already been entered.
func (sr *stateRepresentation[S, T]) enter(t Transition[S, T]) {
	if t.IsReentry() {
		sr.executeEntryActions(t)
		return
	}
	if sr.includes(t.Source) {
		return
	}
	if superstate := sr.superstateRepresentation(); superstate != nil && !t.isInitial {
		superstate.enter(t)
	}
	sr.executeEntryActions(t)
}

// exit runs this state's exit actions and ascends while the destination lies
// outside the current subtree, innermost first. The returned transition's
// source is rewritten to the last state whose exit actions ran, which lets the
// caller detect a reentry that crossed a superstate boundary.
func (sr *stateRepresentation[S, T]) exit(t Transition[S, T]) Transition[S, T] {
	if t.IsReentry() && t.Destination == sr.state {
		sr.executeExitActions(t)
		return t
	}
	if sr.includes(t.Destination) {
		return t
	}
	sr.executeExitActions(t)
	t.Source = sr.state
	if superstate := sr.superstateRepresentation(); superstate != nil {
		return superstate.exit(t)
	}
	return t
}

// internalAction runs the internal behaviour for the trigger, searching this
// state first and then its ancestors, matching handler resolution order.
func (sr *stateRepresentation[S, T]) internalAction(t Transition[S, T], args []any) {
	for rep := sr; rep != nil; rep = rep.superstateRepresentation() {
		result := rep.tryFindLocalHandler(t.Trigger, args)
		if result.behaviour == nil {
			continue
		}
		if kind.Is(result.behaviour.kind, internalKind) && result.behaviour.action != nil {
			result.behaviour.action(t)
		}
		return
	}
}

func (sr *stateRepresentation[S, T]) executeEntryActions(t Transition[S, T]) {
	for _, action := range sr.entryActions {
		action.execute(t)
	}
}

func (sr *stateRepresentation[S, T]) executeExitActions(t Transition[S, T]) {
	for _, action := range sr.exitActions {
		action.execute(t)
	}
}

// activate runs activation actions superstate-first. Redundant calls are
// no-ops; the flag flips only on the first activation.
func (sr *stateRepresentation[S, T]) activate() {
	if superstate := sr.superstateRepresentation(); superstate != nil {
		superstate.activate()
	}
	if sr.active {
		return
	}
	for _, action := range sr.activateActions {
		action.action()
	}
	sr.active = true
}

// deactivate runs deactivation actions innermost-first.
func (sr *stateRepresentation[S, T]) deactivate() {
	if sr.active {
		for _, action := range sr.deactivateActions {
			action.action()
		}
		sr.active = false
	}
	if superstate := sr.superstateRepresentation(); superstate != nil {
		superstate.deactivate()
	}
}

// permittedTriggers enumerates triggers with at least one passing guard in this
// state or an ancestor, in trigger declaration order, innermost state first.
func (sr *stateRepresentation[S, T]) permittedTriggers(args []any) []T {
	var result []T
	seen := map[T]struct{}{}
	for rep := sr; rep != nil; rep = rep.superstateRepresentation() {
		for _, trigger := range rep.triggerOrder {
			if _, ok := seen[trigger]; ok {
				continue
			}
			for _, behaviour := range rep.triggerBehaviours[trigger] {
				if behaviour.guardPassed(args) {
					seen[trigger] = struct{}{}
					result = append(result, trigger)
					break
				}
			}
		}
	}
	return result
}
