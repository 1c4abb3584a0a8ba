package logging_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stategraph/fsm"
	"github.com/stategraph/fsm/pkg/logging"
)

type door struct {
	state string
}

func (d *door) State() string         { return d.state }
func (d *door) SetState(state string) { d.state = state }

func newDoorMachine() *fsm.Machine[string, string] {
	machine := fsm.New[string, string](fsm.Config{Name: "door"})
	machine.Configure("closed").Permit("open", "open")
	machine.Configure("open").Permit("close", "closed")
	return machine
}

func TestObserver_LogsTransitions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	machine := newDoorMachine()
	machine.OnTransitionCompleted(logging.Observer[string, string](logger))

	handle := machine.NewHandle(&door{}, "closed")
	require.NoError(t, handle.Fire("open"))

	output := buf.String()
	assert.Contains(t, output, "source=closed")
	assert.Contains(t, output, "destination=open")
	assert.Contains(t, output, "trigger=open")
	assert.Contains(t, output, "reentry=false")
}

func TestUnhandledTrigger_LogsAndSwallows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	machine := newDoorMachine()
	machine.OnUnhandledTrigger(logging.UnhandledTrigger[string, string](logger, nil))

	handle := machine.NewHandle(&door{}, "closed")
	require.NoError(t, handle.Fire("explode"))
	assert.Equal(t, "closed", handle.State())
	assert.Contains(t, buf.String(), "unhandled trigger")
	assert.Contains(t, buf.String(), "trigger=explode")
}

func TestUnhandledTrigger_Delegates(t *testing.T) {
	t.Parallel()

	machine := newDoorMachine()
	delegated := false
	machine.OnUnhandledTrigger(logging.UnhandledTrigger[string, string](slogt.New(t),
		func(state, trigger string, unmetGuards []string) error {
			delegated = true
			return nil
		}))

	handle := machine.NewHandle(&door{}, "closed")
	require.NoError(t, handle.Fire("explode"))
	assert.True(t, delegated)
}

func TestObserver_NilLoggerUsesDefault(t *testing.T) {
	t.Parallel()

	machine := newDoorMachine()
	machine.OnTransitioned(logging.Observer[string, string](nil))

	handle := machine.NewHandle(&door{}, "closed")
	require.NoError(t, handle.Fire("open"))
	assert.Equal(t, "open", handle.State())
}
