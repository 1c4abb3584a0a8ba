package fsm

import "github.com/stategraph/fsm/internal/kind"

// Kind tags use bit-packed inheritance: each tag encodes its own ID plus its
// base tags' IDs, so a family of kinds is matched with a single kind.Is check.
var (
	// nullKind reserves the zero ID; an uninitialized tag matches nothing.
	nullKind = kind.Make()

	// behaviourKind is the base tag for all trigger behaviours.
	behaviourKind = kind.Make()
	// transitioningKind marks behaviours that exit the source subtree and
	// enter a destination chain.
	transitioningKind = kind.Make(behaviourKind)
	// reentryKind marks behaviours that leave and re-enter their state. It
	// derives from transitioningKind because dispatch shares the exit/enter
	// machinery.
	reentryKind = kind.Make(transitioningKind)
	// dynamicKind marks behaviours whose destination is computed at fire time.
	dynamicKind = kind.Make(transitioningKind)
	// internalKind marks behaviours that run an action without exit or entry.
	internalKind = kind.Make(behaviourKind)
	// ignoredKind marks behaviours that consume their trigger silently.
	ignoredKind = kind.Make(behaviourKind)

	// TransitionInfoKind is the base tag for all snapshot transitions.
	TransitionInfoKind = kind.Make()
	// FixedTransitionKind marks a snapshot transition with a statically known
	// destination.
	FixedTransitionKind = kind.Make(TransitionInfoKind)
	// DynamicTransitionKind marks a snapshot transition whose destination is
	// computed at fire time; only the selector description is known.
	DynamicTransitionKind = kind.Make(TransitionInfoKind)
	// IgnoredTransitionKind marks a trigger consumed without effect.
	IgnoredTransitionKind = kind.Make(TransitionInfoKind)
)
