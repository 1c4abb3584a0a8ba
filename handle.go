package fsm

import (
	"fmt"

	"github.com/stategraph/fsm/internal/muid"
)

// Handle binds a machine to one context instance. All firing, querying, and
// reflection operations for a given context go through its handle; one machine
// can serve any number of handles.
type Handle[S, T comparable] struct {
	machine *Machine[S, T]
	context Context[S]
	initial S
	id      string
}

// NewHandle binds a context to the machine and writes the initial state into
// the context's state field.
func (m *Machine[S, T]) NewHandle(c Context[S], initial S) *Handle[S, T] {
	if c == nil {
		panic(fmt.Errorf("fsm: %w: context", ErrNullCallback))
	}
	c.SetState(initial)
	return &Handle[S, T]{
		machine: m,
		context: c,
		initial: initial,
		id:      fmt.Sprintf("%s_%s", m.name, muid.Make().String()),
	}
}

// ID returns the handle's unique identifier, useful for telling apart many
// handles bound to one machine in logs and metrics.
func (h *Handle[S, T]) ID() string {
	return h.id
}

// State returns the bound context's current state.
func (h *Handle[S, T]) State() S {
	return h.context.State()
}

// Context returns the bound context.
func (h *Handle[S, T]) Context() Context[S] {
	return h.context
}

// Fire fires a trigger against the bound context. Arguments are validated
// against the trigger's registered parameter types, if any.
//
// Under Queued firing a reentrant Fire from inside an action returns nil
// immediately; the event is processed when the in-progress fire drains the
// queue, and any error it produces surfaces from the outermost Fire.
func (h *Handle[S, T]) Fire(trigger T, args ...any) error {
	return h.machine.internalFire(trigger, h.context, args...)
}

// CanFire reports whether the trigger can currently be fired.
func (h *Handle[S, T]) CanFire(trigger T, args ...any) (bool, error) {
	ok, _, err := h.machine.canFire(trigger, h.context, args)
	return ok, err
}

// CanFireWithUnmetGuards reports whether the trigger can currently be fired
// and, when it cannot because guards failed, the failing guard descriptions.
func (h *Handle[S, T]) CanFireWithUnmetGuards(trigger T, args ...any) (bool, []string, error) {
	return h.machine.canFire(trigger, h.context, args)
}

// IsInState reports whether the context is in the given state or one of its
// substates.
func (h *Handle[S, T]) IsInState(state S) bool {
	return h.machine.representation(h.context.State()).isIncludedIn(state)
}

// Activate runs activation actions for the current state and its superstates,
// outermost first. Repeated calls are no-ops until Deactivate.
func (h *Handle[S, T]) Activate() {
	h.machine.representation(h.context.State()).activate()
}

// Deactivate runs deactivation actions for the current state and its
// superstates, innermost first. Repeated calls are no-ops until Activate.
func (h *Handle[S, T]) Deactivate() {
	h.machine.representation(h.context.State()).deactivate()
}

// PermittedTriggers returns the triggers that can currently be fired: those
// with at least one passing guard in the current state or an ancestor.
func (h *Handle[S, T]) PermittedTriggers(args ...any) []T {
	if args == nil {
		args = []any{}
	}
	return h.machine.representation(h.context.State()).permittedTriggers(args)
}

// DetailedPermittedTriggers returns the permitted triggers together with their
// registered parameter types.
func (h *Handle[S, T]) DetailedPermittedTriggers(args ...any) []TriggerDetails[T] {
	var details []TriggerDetails[T]
	for _, trigger := range h.PermittedTriggers(args...) {
		detail := TriggerDetails[T]{Trigger: trigger}
		if params, ok := h.machine.triggerConfig[trigger]; ok {
			detail.Parameters = params.argumentTypes
		}
		details = append(details, detail)
	}
	return details
}

// Info returns the reflection snapshot of the machine rooted at this handle's
// initial state.
func (h *Handle[S, T]) Info() StateMachineInfo[S, T] {
	return h.machine.Info(h.initial)
}

func (h *Handle[S, T]) String() string {
	return fmt.Sprintf("%s[%v]", h.id, h.context.State())
}
