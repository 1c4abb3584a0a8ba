package fsm

import (
	"path"
	"reflect"
	"runtime"
)

// entryActionBehaviour runs when a state is entered. A behaviour registered
// with a from-trigger filter runs only when the transition's trigger matches.
type entryActionBehaviour[S, T comparable] struct {
	action      func(Transition[S, T])
	description string
	hasTrigger  bool
	trigger     T
}

func (a entryActionBehaviour[S, T]) execute(t Transition[S, T]) {
	if a.hasTrigger && a.trigger != t.Trigger {
		return
	}
	a.action(t)
}

type exitActionBehaviour[S, T comparable] struct {
	action      func(Transition[S, T])
	description string
}

func (a exitActionBehaviour[S, T]) execute(t Transition[S, T]) {
	a.action(t)
}

type activateActionBehaviour struct {
	action      func()
	description string
}

type deactivateActionBehaviour struct {
	action      func()
	description string
}

// getFunctionName derives the default description for actions and guards from
// the function's symbol name.
func getFunctionName(fn any) string {
	if fn == nil {
		return ""
	}
	return path.Base(runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name())
}
