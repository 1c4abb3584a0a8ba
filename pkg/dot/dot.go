// Package dot renders machine reflection snapshots as Graphviz DOT graphs.
package dot

import (
	"fmt"
	"io"
	"strings"

	"github.com/stategraph/fsm/internal/kind"

	"github.com/stategraph/fsm"
)

func sanitize(value string) string {
	var builder strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			builder.WriteRune(r)
		default:
			builder.WriteRune('_')
		}
	}
	return builder.String()
}

func nodeID[S comparable](state S) string {
	return sanitize(fmt.Sprint(state))
}

func label[S, T comparable](si fsm.StateInfo[S, T]) string {
	lines := []string{fmt.Sprint(si.State)}
	for _, action := range si.EntryActions {
		lines = append(lines, fmt.Sprintf("entry / %s", action.Description))
	}
	for _, action := range si.ExitActions {
		lines = append(lines, fmt.Sprintf("exit / %s", action.Description))
	}
	return strings.Join(lines, "\\n")
}

func guardSuffix(descriptions []string) string {
	if len(descriptions) == 0 {
		return ""
	}
	return fmt.Sprintf(" [%s]", strings.Join(descriptions, ", "))
}

// generateState emits the node for one state, wrapping it in a cluster
// together with its substates when it is composite.
func generateState[S, T comparable](builder *strings.Builder, depth int, si fsm.StateInfo[S, T], byState map[S]fsm.StateInfo[S, T]) {
	indent := strings.Repeat("  ", depth)
	id := nodeID(si.State)
	if len(si.Substates) == 0 && !si.HasInitialTransition {
		fmt.Fprintf(builder, "%s%s [label=\"%s\"];\n", indent, id, label(si))
		return
	}
	fmt.Fprintf(builder, "%ssubgraph cluster_%s {\n", indent, id)
	fmt.Fprintf(builder, "%s  label=\"%v\";\n", indent, si.State)
	fmt.Fprintf(builder, "%s  %s [label=\"%s\"];\n", indent, id, label(si))
	if si.HasInitialTransition {
		fmt.Fprintf(builder, "%s  init_%s [shape=point];\n", indent, id)
	}
	for _, substate := range si.Substates {
		if child, ok := byState[substate]; ok {
			generateState(builder, depth+1, child, byState)
		}
	}
	fmt.Fprintf(builder, "%s}\n", indent)
}

func generateTransitions[S, T comparable](builder *strings.Builder, si fsm.StateInfo[S, T]) {
	id := nodeID(si.State)
	if si.HasInitialTransition {
		fmt.Fprintf(builder, "  init_%s -> %s;\n", id, nodeID(si.InitialTransitionTarget))
	}
	dynamics := 0
	for _, transition := range si.Transitions {
		suffix := guardSuffix(transition.GuardDescriptions)
		switch {
		case kind.Is(transition.Kind, fsm.FixedTransitionKind):
			fmt.Fprintf(builder, "  %s -> %s [label=\"%v%s\"];\n",
				id, nodeID(transition.Destination), transition.Trigger, suffix)
		case kind.Is(transition.Kind, fsm.DynamicTransitionKind):
			decision := fmt.Sprintf("%s_decision_%d", id, dynamics)
			dynamics++
			fmt.Fprintf(builder, "  %s [shape=diamond, label=\"%s\"];\n", decision, transition.SelectorDescription)
			fmt.Fprintf(builder, "  %s -> %s [label=\"%v%s\"];\n", id, decision, transition.Trigger, suffix)
		case kind.Is(transition.Kind, fsm.IgnoredTransitionKind):
			fmt.Fprintf(builder, "  %s -> %s [label=\"%v%s\", style=dashed];\n",
				id, id, transition.Trigger, suffix)
		}
	}
}

// Generate writes a DOT digraph for the snapshot. Composite states become
// clusters containing their substates; traversal follows the snapshot's
// declaration order, so output is deterministic for a given configuration.
func Generate[S, T comparable](writer io.Writer, info fsm.StateMachineInfo[S, T]) error {
	byState := map[S]fsm.StateInfo[S, T]{}
	for _, si := range info.States {
		byState[si.State] = si
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "digraph %s {\n", sanitize(info.Name))
	fmt.Fprintf(&builder, "  compound=true;\n")
	fmt.Fprintf(&builder, "  node [shape=box, style=rounded];\n")
	for _, si := range info.States {
		if si.HasSuperstate {
			continue // rendered inside its superstate's cluster
		}
		generateState(&builder, 1, si, byState)
	}
	for _, si := range info.States {
		generateTransitions(&builder, si)
	}
	fmt.Fprintln(&builder, "}")

	_, err := writer.Write([]byte(builder.String()))
	return err
}
