package fsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stategraph/fsm"
)

func TestConfigure_Fluent(t *testing.T) {
	t.Parallel()

	machine := fsm.New[string, string]()
	config := machine.Configure(stateA)
	assert.Same(t, config, config.Permit(triggerT, stateB))
	assert.Same(t, config, config.Ignore(triggerU))
	assert.Same(t, config, config.OnEntry(func(tr fsm.Transition[string, string]) {}))
	assert.Equal(t, stateA, config.State())
}

func TestConfigure_IsAdditive(t *testing.T) {
	t.Parallel()

	machine := fsm.New[string, string]()
	machine.Configure(stateA).Permit(triggerT, stateB)
	// Resuming configuration of the same state keeps earlier declarations.
	machine.Configure(stateA).Permit(triggerU, stateC)

	handle := machine.NewHandle(&testContext{}, stateA)
	ok, err := handle.CanFire(triggerT)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = handle.CanFire(triggerU)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPermit_ToSelfPanics(t *testing.T) {
	t.Parallel()

	machine := fsm.New[string, string]()
	assert.Panics(t, func() {
		machine.Configure(stateA).Permit(triggerT, stateA)
	})
}

func TestInitialTransition_DeclaredTwicePanics(t *testing.T) {
	t.Parallel()

	machine := fsm.New[string, string]()
	machine.Configure(stateP).InitialTransition(stateQ)
	assert.Panics(t, func() {
		machine.Configure(stateP).InitialTransition(stateB)
	})
}

func TestConfigure_NilActionsPanic(t *testing.T) {
	t.Parallel()

	machine := fsm.New[string, string]()
	config := machine.Configure(stateA)
	assert.Panics(t, func() { config.OnEntry(nil) })
	assert.Panics(t, func() { config.OnEntryFrom(triggerT, nil) })
	assert.Panics(t, func() { config.OnExit(nil) })
	assert.Panics(t, func() { config.OnActivate(nil) })
	assert.Panics(t, func() { config.OnDeactivate(nil) })
	assert.Panics(t, func() { config.InternalTransition(triggerT, nil) })
	assert.Panics(t, func() { config.PermitDynamic(triggerT, nil) })
}

func TestSubstateOf_DeepHierarchy(t *testing.T) {
	t.Parallel()

	machine := fsm.New[string, string]()
	machine.Configure(stateB).SubstateOf(stateA)
	machine.Configure(stateC).SubstateOf(stateB)
	machine.Configure(stateA).Permit(triggerT, stateX)

	handle := machine.NewHandle(&testContext{}, stateC)
	assert.True(t, handle.IsInState(stateA))
	ok, err := handle.CanFire(triggerT)
	require.NoError(t, err)
	assert.True(t, ok)
}
