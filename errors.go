package fsm

import "errors"

// Sentinel errors for configuration and firing failures.
// These can be checked using errors.Is for specific error handling.
var (
	// ErrReconfiguration is returned when trigger parameters are registered twice for the same trigger.
	ErrReconfiguration = errors.New("trigger parameters already registered")
	// ErrArityMismatch is returned when a trigger is fired with the wrong number of arguments.
	ErrArityMismatch = errors.New("argument count mismatch")
	// ErrTypeMismatch is returned when a trigger argument is not assignable to its registered type.
	ErrTypeMismatch = errors.New("argument type mismatch")
	// ErrNoTransitionsPermitted is the default unhandled-trigger outcome when no behaviour
	// is configured for the trigger anywhere in the state hierarchy.
	ErrNoTransitionsPermitted = errors.New("no transitions permitted")
	// ErrUnmetGuards is the default unhandled-trigger outcome when behaviours exist for the
	// trigger but every guard condition failed. The message lists the unmet descriptions.
	ErrUnmetGuards = errors.New("guard conditions unmet")
	// ErrMultiplePermitted is returned when more than one guard passes for the same trigger
	// in the same state, making the configuration ambiguous.
	ErrMultiplePermitted = errors.New("multiple transitions permitted")
	// ErrBadInitialTransition is returned when an initial-transition target does not resolve
	// to a direct substate at entry time.
	ErrBadInitialTransition = errors.New("initial transition target is not a direct substate")
	// ErrCyclicHierarchy is raised when a SubstateOf declaration would introduce a cycle.
	ErrCyclicHierarchy = errors.New("cyclic state hierarchy")
	// ErrMisconfiguredFiringMode is returned when a machine has no valid firing mode,
	// typically because it was constructed without New.
	ErrMisconfiguredFiringMode = errors.New("firing mode not configured")
	// ErrNullCallback is raised when a nil observer, action, guard, or policy is registered.
	ErrNullCallback = errors.New("callback is nil")
	// ErrConfigurationDuringFire is raised when configuration is modified while a fire is in progress.
	ErrConfigurationDuringFire = errors.New("configuration modified during fire")
)
