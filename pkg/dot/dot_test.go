package dot_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stategraph/fsm"
	"github.com/stategraph/fsm/pkg/dot"
)

func onOpened(t fsm.Transition[string, string]) {}

func fixture() fsm.StateMachineInfo[string, string] {
	machine := fsm.New[string, string](fsm.Config{Name: "door"})
	machine.Configure("open").
		Permit("close", "closed").
		OnEntry(onOpened)
	machine.Configure("closed").
		PermitIf("open", "open", fsm.Guard{
			Condition:   func(args ...any) bool { return true },
			Description: "unlocked",
		}).
		Ignore("close").
		PermitDynamic("knock", func(args ...any) string { return "open" })
	machine.Configure("ajar").SubstateOf("open")
	machine.Configure("open").InitialTransition("ajar")
	return machine.Info("closed")
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	var builder strings.Builder
	require.NoError(t, dot.Generate(&builder, fixture()))
	output := builder.String()

	assert.Contains(t, output, "digraph door {")
	assert.Contains(t, output, "closed -> open [label=\"open [unlocked]\"];")
	assert.Contains(t, output, "open -> closed [label=\"close\"];")
	// Ignored triggers render as dashed self-loops.
	assert.Contains(t, output, "closed -> closed [label=\"close\", style=dashed];")
	// Dynamic destinations render as decision diamonds.
	assert.Contains(t, output, "closed_decision_0 [shape=diamond")
	assert.Contains(t, output, "closed -> closed_decision_0 [label=\"knock\"];")
	// Composite states become clusters with an initial-transition point.
	assert.Contains(t, output, "subgraph cluster_open {")
	assert.Contains(t, output, "init_open [shape=point];")
	assert.Contains(t, output, "init_open -> ajar;")
	// Entry action descriptions appear in the node label.
	assert.Contains(t, output, "entry / ")
	assert.Contains(t, output, "onOpened")
	assert.True(t, strings.HasSuffix(output, "}\n"))
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	info := fixture()
	var first, second strings.Builder
	require.NoError(t, dot.Generate(&first, info))
	require.NoError(t, dot.Generate(&second, info))
	assert.Equal(t, first.String(), second.String())
}

func TestGenerate_SanitizesIdentifiers(t *testing.T) {
	t.Parallel()

	machine := fsm.New[string, string](fsm.Config{Name: "order flow"})
	machine.Configure("on hold").Permit("resume", "in progress")

	var builder strings.Builder
	require.NoError(t, dot.Generate(&builder, machine.Info("on hold")))
	output := builder.String()
	assert.Contains(t, output, "digraph order_flow {")
	assert.Contains(t, output, "on_hold -> in_progress")
}
