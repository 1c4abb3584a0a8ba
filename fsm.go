// Package fsm provides a hierarchical finite-state-machine engine for Go.
//
// # Overview
//
// A Machine holds the declared state graph: states, triggers, substate
// relationships, guard conditions, entry/exit actions, and transition
// observers. The machine itself owns no current state; it drives the state
// field of client-owned context objects through lightweight handles, so one
// configured machine can serve any number of independent contexts.
//
// # Usage
//
// Configure the machine once, bind a handle to a context, then fire triggers
// through the handle:
//
//	machine := fsm.New[string, string]()
//	machine.Configure("open").
//	    Permit("close", "closed").
//	    OnEntry(func(t fsm.Transition[string, string]) {
//	        log.Println("opened")
//	    })
//	machine.Configure("closed").
//	    Permit("open", "open")
//
//	door := &Door{}
//	handle := machine.NewHandle(door, "closed")
//	if err := handle.Fire("open"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Firing modes
//
// Under the default Queued mode, triggers fired from inside actions are
// appended to a FIFO queue and processed after the current fire completes its
// entire exit/entry/observer sequence (run-to-completion). Under Immediate
// mode, nested fires execute synchronously inside the outer fire and the
// outer fire's completion observers report the final state reached.
//
// The machine is single-threaded cooperative: it makes no thread-safety
// guarantees, and clients firing from multiple goroutines must supply their
// own mutual exclusion.
package fsm

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// FiringMode selects how reentrant fires are scheduled.
type FiringMode int

const (
	// FiringQueued defers triggers fired during action execution to a FIFO
	// queue drained after the current fire completes. This is the default and
	// the only mode with a run-to-completion guarantee.
	FiringQueued FiringMode = iota + 1
	// FiringImmediate processes nested fires synchronously inside the outer
	// fire. Use only when the client accepts interleaved transition sequences.
	FiringImmediate
)

// Context is the machine's sole contract with client-owned state holders: a
// gettable and settable current-state field. The engine reads and writes the
// field; ownership of the context belongs to the client.
type Context[S comparable] interface {
	State() S
	SetState(S)
}

// Config provides configuration options for machine construction.
type Config struct {
	// FiringMode selects the scheduling of reentrant fires. Zero defaults to
	// FiringQueued.
	FiringMode FiringMode
	// RetainSynchronizationContext is carried verbatim on every Transition
	// record handed to actions and observers. The machine never interprets it.
	RetainSynchronizationContext bool
	// Name identifies the machine in handle IDs and diagnostics.
	Name string
}

// UnhandledTriggerFunc decides the outcome when a fired trigger resolves to no
// behaviour. unmetGuards lists the descriptions of guard conditions that
// blocked otherwise-matching behaviours, in declaration order.
type UnhandledTriggerFunc[S, T comparable] func(state S, trigger T, unmetGuards []string) error

// queuedFire is one deferred firing: the trigger, the context it was fired
// against, and its arguments.
type queuedFire[S, T comparable] struct {
	trigger T
	context Context[S]
	args    []any
}

// Machine is a configured hierarchical state machine. It owns the state
// representations, the trigger parameter registry, the firing mode, the
// pending event queue, and the global transition observers.
type Machine[S, T comparable] struct {
	name string

	stateConfig map[S]*stateRepresentation[S, T]
	stateOrder  []S

	triggerConfig map[T]triggerParameters[T]

	firingMode FiringMode
	queue      []queuedFire[S, T]
	firing     bool

	onTransitioned        []func(Transition[S, T])
	onTransitionCompleted []func(Transition[S, T])
	unhandledTrigger      UnhandledTriggerFunc[S, T]

	retainSync bool
}

// New creates a machine. With no Config the firing mode is Queued.
func New[S, T comparable](maybeConfig ...Config) *Machine[S, T] {
	m := &Machine[S, T]{
		name:          "fsm",
		stateConfig:   map[S]*stateRepresentation[S, T]{},
		triggerConfig: map[T]triggerParameters[T]{},
		firingMode:    FiringQueued,
	}
	if len(maybeConfig) > 0 {
		config := maybeConfig[0]
		if config.FiringMode != 0 {
			m.firingMode = config.FiringMode
		}
		if config.Name != "" {
			m.name = config.Name
		}
		m.retainSync = config.RetainSynchronizationContext
	}
	m.unhandledTrigger = func(state S, trigger T, unmetGuards []string) error {
		if len(unmetGuards) > 0 {
			return fmt.Errorf("fsm: trigger %v in state %v: %w: %s",
				trigger, state, ErrUnmetGuards, strings.Join(unmetGuards, ", "))
		}
		return fmt.Errorf("fsm: trigger %v in state %v: %w", trigger, state, ErrNoTransitionsPermitted)
	}
	return m
}

func (m *Machine[S, T]) String() string {
	return m.name
}

// Firing reports whether a fire is currently in progress.
func (m *Machine[S, T]) Firing() bool {
	return m.firing
}

// RetainSynchronizationContext reports the opaque flag carried onto Transition
// records for host-environment bridges.
func (m *Machine[S, T]) RetainSynchronizationContext() bool {
	return m.retainSync
}

// representation returns the record for a state, creating it on first
// reference. Representations persist for the machine's lifetime.
func (m *Machine[S, T]) representation(state S) *stateRepresentation[S, T] {
	if rep, ok := m.stateConfig[state]; ok {
		return rep
	}
	rep := newStateRepresentation(state, m.representation)
	m.stateConfig[state] = rep
	m.stateOrder = append(m.stateOrder, state)
	return rep
}

func (m *Machine[S, T]) assertConfigurable() {
	if m.firing {
		panic(fmt.Errorf("fsm: %w", ErrConfigurationDuringFire))
	}
}

// Configure begins or resumes configuration of a state. Configuration is
// additive and must not happen while a fire is in progress.
func (m *Machine[S, T]) Configure(state S) *StateConfiguration[S, T] {
	m.assertConfigurable()
	return &StateConfiguration[S, T]{machine: m, representation: m.representation(state)}
}

// SetTriggerParameters registers the argument types a trigger must be fired
// with. Registering the same trigger twice panics with ErrReconfiguration.
func (m *Machine[S, T]) SetTriggerParameters(trigger T, argumentTypes ...reflect.Type) {
	m.assertConfigurable()
	if _, exists := m.triggerConfig[trigger]; exists {
		panic(fmt.Errorf("fsm: trigger %v: %w", trigger, ErrReconfiguration))
	}
	m.triggerConfig[trigger] = triggerParameters[T]{trigger: trigger, argumentTypes: argumentTypes}
}

// OnUnhandledTrigger replaces the default unhandled-trigger policy.
func (m *Machine[S, T]) OnUnhandledTrigger(policy UnhandledTriggerFunc[S, T]) {
	if policy == nil {
		panic(fmt.Errorf("fsm: unhandled-trigger policy: %w", ErrNullCallback))
	}
	m.unhandledTrigger = policy
}

// OnTransitioned registers observers invoked after exit actions, immediately
// before the destination's entry actions run. For fixed and dynamic
// transitions the context's state already holds the destination; for
// reentries and initial-transition descents the state is written only after
// the entry chain completes.
func (m *Machine[S, T]) OnTransitioned(observers ...func(Transition[S, T])) {
	for _, observer := range observers {
		if observer == nil {
			panic(fmt.Errorf("fsm: transition observer: %w", ErrNullCallback))
		}
		m.onTransitioned = append(m.onTransitioned, observer)
	}
}

// OnTransitionCompleted registers observers invoked after all entry actions,
// initial-transition descents, and any nested state changes have settled.
func (m *Machine[S, T]) OnTransitionCompleted(observers ...func(Transition[S, T])) {
	for _, observer := range observers {
		if observer == nil {
			panic(fmt.Errorf("fsm: transition observer: %w", ErrNullCallback))
		}
		m.onTransitionCompleted = append(m.onTransitionCompleted, observer)
	}
}

// notify invokes observers in registration order. A panicking observer does
// not stop the remaining observers; recovered panics are joined into the
// returned error, which callers surface only after the state write committed.
func (m *Machine[S, T]) notify(observers []func(Transition[S, T]), t Transition[S, T]) error {
	var errs []error
	for _, observer := range observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					errs = append(errs, fmt.Errorf("fsm: observer panic: %v", r))
				}
			}()
			observer(t)
		}()
	}
	return errors.Join(errs...)
}

// internalFire is the single entry point for all trigger firings.
func (m *Machine[S, T]) internalFire(trigger T, c Context[S], args ...any) error {
	if args == nil {
		args = []any{}
	}
	switch m.firingMode {
	case FiringImmediate:
		wasFiring := m.firing
		m.firing = true
		defer func() { m.firing = wasFiring }()
		return m.fireOne(trigger, c, args)
	case FiringQueued:
		return m.fireQueued(trigger, c, args)
	default:
		return fmt.Errorf("fsm: %w", ErrMisconfiguredFiringMode)
	}
}

// fireQueued appends the firing to the FIFO queue. The outermost call drains
// the queue; reentrant calls return immediately and leave their event for the
// in-progress drain, which yields run-to-completion semantics.
func (m *Machine[S, T]) fireQueued(trigger T, c Context[S], args []any) error {
	m.queue = append(m.queue, queuedFire[S, T]{trigger: trigger, context: c, args: args})
	if m.firing {
		return nil
	}
	m.firing = true
	defer func() { m.firing = false }()
	for len(m.queue) > 0 {
		event := m.queue[0]
		m.queue = m.queue[1:]
		if err := m.fireOne(event.trigger, event.context, event.args); err != nil {
			return err
		}
	}
	return nil
}

// fireOne performs a single firing: parameter validation, handler resolution
// across the hierarchy, then dispatch on the behaviour variant.
func (m *Machine[S, T]) fireOne(trigger T, c Context[S], args []any) error {
	if params, ok := m.triggerConfig[trigger]; ok {
		if err := params.validate(args); err != nil {
			return err
		}
	}
	source := c.State()
	rep := m.representation(source)

	result := rep.tryFindHandler(trigger, args)
	if result.multiple {
		return fmt.Errorf("fsm: trigger %v in state %v: %w", trigger, source, ErrMultiplePermitted)
	}
	if result.behaviour == nil {
		return m.unhandledTrigger(source, trigger, result.unmetGuardConditions)
	}

	t := Transition[S, T]{
		Source:       source,
		Trigger:      trigger,
		Context:      c,
		Args:         args,
		Synchronized: m.retainSync,
	}
	behaviour := result.behaviour
	switch {
	case isKind(behaviour, ignoredKind):
		return nil
	case isKind(behaviour, reentryKind):
		t.Destination = behaviour.destination
		return m.handleReentry(t, rep)
	case isKind(behaviour, dynamicKind):
		t.Destination = behaviour.selector(args...)
		return m.handleTransitioning(t, rep)
	case isKind(behaviour, transitioningKind):
		t.Destination = behaviour.destination
		return m.handleTransitioning(t, rep)
	case isKind(behaviour, internalKind):
		t.Destination = source
		// Re-read the context's state: a user action during validation or
		// guard evaluation may have moved it.
		m.representation(c.State()).internalAction(t, args)
		return nil
	}
	return nil
}

// handleTransitioning drives a fixed or dynamic transition: exit innermost
// first, write the destination, notify, enter outermost first with any
// initial-transition descent, then reconcile the final state.
func (m *Machine[S, T]) handleTransitioning(t Transition[S, T], rep *stateRepresentation[S, T]) error {
	source := t.Source
	c := t.Context
	var errs []error

	t = rep.exit(t)
	c.SetState(t.Destination)
	if err := m.notify(m.onTransitioned, t); err != nil {
		errs = append(errs, err)
	}

	finalRep, err := m.enterState(m.representation(t.Destination), t, &errs)
	if err != nil {
		errs = append(errs, err)
		return errors.Join(errs...)
	}
	if finalRep.state != c.State() {
		c.SetState(finalRep.state)
	}

	completed := t
	completed.Source = source
	completed.Destination = finalRep.state
	if err := m.notify(m.onTransitionCompleted, completed); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// handleReentry exits and re-enters the destination. When the exit chain ends
// at a state other than the destination, the destination's own exit actions
// must still fire before re-entry.
func (m *Machine[S, T]) handleReentry(t Transition[S, T], rep *stateRepresentation[S, T]) error {
	source := t.Source
	c := t.Context
	var errs []error

	t = rep.exit(t)
	newRep := m.representation(t.Destination)
	if t.Source != t.Destination {
		t = Transition[S, T]{
			Source:       t.Destination,
			Destination:  t.Destination,
			Trigger:      t.Trigger,
			Context:      c,
			Args:         t.Args,
			Synchronized: t.Synchronized,
		}
		newRep.exit(t)
	}
	if err := m.notify(m.onTransitioned, t); err != nil {
		errs = append(errs, err)
	}

	finalRep, err := m.enterState(newRep, t, &errs)
	if err != nil {
		errs = append(errs, err)
		return errors.Join(errs...)
	}
	c.SetState(finalRep.state)

	completed := t
	completed.Source = source
	completed.Destination = finalRep.state
	if err := m.notify(m.onTransitionCompleted, completed); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// enterState enters a state's chain and follows initial transitions into
// substates, returning the representation of the final state reached. Under
// Immediate mode an entry action may itself have fired a trigger and moved the
// context; the walk rebinds to the context's new state and continues there.
func (m *Machine[S, T]) enterState(rep *stateRepresentation[S, T], t Transition[S, T], errs *[]error) (*stateRepresentation[S, T], error) {
	rep.enter(t)
	c := t.Context
	if m.firingMode == FiringImmediate && c.State() != t.Destination {
		rep = m.representation(c.State())
		t.Destination = c.State()
	}
	if !rep.hasInitialTransition {
		return rep, nil
	}

	target := rep.initialTransitionTarget
	if !rep.hasDirectSubstate(target) {
		return nil, fmt.Errorf("fsm: state %v: %w: %v", rep.state, ErrBadInitialTransition, target)
	}
	if err := m.notify(m.onTransitioned, Transition[S, T]{
		Source:       t.Destination,
		Destination:  target,
		Trigger:      t.Trigger,
		Context:      c,
		Args:         t.Args,
		Synchronized: t.Synchronized,
	}); err != nil {
		*errs = append(*errs, err)
	}
	synthetic := t
	synthetic.Destination = target
	synthetic.isInitial = true
	return m.enterState(m.representation(target), synthetic, errs)
}

// canFire resolves the trigger from the context's current state without
// executing anything, returning the unmet-guard descriptions when blocked.
func (m *Machine[S, T]) canFire(trigger T, c Context[S], args []any) (bool, []string, error) {
	if args == nil {
		args = []any{}
	}
	if params, ok := m.triggerConfig[trigger]; ok {
		if err := params.validate(args); err != nil {
			return false, nil, err
		}
	}
	result := m.representation(c.State()).tryFindHandler(trigger, args)
	if result.multiple {
		return false, nil, fmt.Errorf("fsm: trigger %v in state %v: %w", trigger, c.State(), ErrMultiplePermitted)
	}
	return result.behaviour != nil, result.unmetGuardConditions, nil
}
