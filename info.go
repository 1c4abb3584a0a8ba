package fsm

import (
	"reflect"

	"github.com/stategraph/fsm/internal/kind"
)

// TriggerDetails describes a permitted trigger and its registered parameter
// types, if any.
type TriggerDetails[T comparable] struct {
	Trigger    T
	Parameters []reflect.Type
}

// ActionInfo describes one entry, exit, activate, or deactivate action.
type ActionInfo[T comparable] struct {
	// Description is the action's registered description, derived from the
	// function name by default.
	Description string
	// HasFromTrigger is true for entry actions filtered to a single trigger.
	HasFromTrigger bool
	FromTrigger    T
}

// TransitionInfo describes one configured trigger behaviour. Kind is one of
// FixedTransitionKind, DynamicTransitionKind, or IgnoredTransitionKind;
// Destination is meaningful only for fixed transitions and
// SelectorDescription only for dynamic ones.
type TransitionInfo[S, T comparable] struct {
	Kind                kind.Kind
	Trigger             T
	GuardDescriptions   []string
	Destination         S
	SelectorDescription string
}

// StateInfo is the snapshot of one state: hierarchy links, action
// descriptions, and outgoing transitions, all in declaration order.
type StateInfo[S, T comparable] struct {
	State S

	HasSuperstate bool
	Superstate    S
	Substates     []S

	EntryActions      []ActionInfo[T]
	ExitActions       []ActionInfo[T]
	ActivateActions   []ActionInfo[T]
	DeactivateActions []ActionInfo[T]

	HasInitialTransition    bool
	InitialTransitionTarget S

	Transitions []TransitionInfo[S, T]
}

// StateMachineInfo is an on-demand snapshot of the machine's configuration,
// produced by walking the state map. There is no shadow structure kept in
// sync; every call reflects the configuration at that moment.
type StateMachineInfo[S, T comparable] struct {
	Name         string
	InitialState S
	States       []StateInfo[S, T]
}

// Info produces the reflection snapshot rooted at the given initial state.
// States appear in configuration order, which includes every state referenced
// as a transition destination.
func (m *Machine[S, T]) Info(initialState S) StateMachineInfo[S, T] {
	info := StateMachineInfo[S, T]{
		Name:         m.name,
		InitialState: initialState,
	}
	for _, state := range m.stateOrder {
		info.States = append(info.States, m.stateInfo(m.stateConfig[state]))
	}
	return info
}

func (m *Machine[S, T]) stateInfo(rep *stateRepresentation[S, T]) StateInfo[S, T] {
	si := StateInfo[S, T]{
		State:                   rep.state,
		HasSuperstate:           rep.hasSuperstate,
		Superstate:              rep.superstate,
		HasInitialTransition:    rep.hasInitialTransition,
		InitialTransitionTarget: rep.initialTransitionTarget,
	}
	for _, substate := range rep.substates {
		si.Substates = append(si.Substates, substate.state)
	}
	for _, action := range rep.entryActions {
		si.EntryActions = append(si.EntryActions, ActionInfo[T]{
			Description:    action.description,
			HasFromTrigger: action.hasTrigger,
			FromTrigger:    action.trigger,
		})
	}
	for _, action := range rep.exitActions {
		si.ExitActions = append(si.ExitActions, ActionInfo[T]{Description: action.description})
	}
	for _, action := range rep.activateActions {
		si.ActivateActions = append(si.ActivateActions, ActionInfo[T]{Description: action.description})
	}
	for _, action := range rep.deactivateActions {
		si.DeactivateActions = append(si.DeactivateActions, ActionInfo[T]{Description: action.description})
	}
	for _, trigger := range rep.triggerOrder {
		for _, behaviour := range rep.triggerBehaviours[trigger] {
			ti := TransitionInfo[S, T]{
				Trigger:           trigger,
				GuardDescriptions: behaviour.guard.descriptions(),
			}
			switch {
			case isKind(behaviour, dynamicKind):
				ti.Kind = DynamicTransitionKind
				ti.SelectorDescription = behaviour.selectorDescription
			case isKind(behaviour, transitioningKind):
				ti.Kind = FixedTransitionKind
				ti.Destination = behaviour.destination
			case isKind(behaviour, ignoredKind):
				ti.Kind = IgnoredTransitionKind
			default:
				// Internal transitions have no outgoing edge.
				continue
			}
			si.Transitions = append(si.Transitions, ti)
		}
	}
	return si
}
