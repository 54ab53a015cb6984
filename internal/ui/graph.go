package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/tungetti/wizardnav/internal/navigator"
	"github.com/tungetti/wizardnav/internal/ui/theme"
	"github.com/tungetti/wizardnav/internal/wizard"
)

// StepState is what the step list highlights.
type StepState struct {
	Current wizard.Step
	Reached map[wizard.Step]bool
	// Cursor is the index of the selected step, or -1.
	Cursor int
}

// RenderSteps lists the steps of g in declaration order with their edges,
// hidden flag, sidebar parent and setup callback.
func RenderSteps(g *wizard.Graph, state StepState, styles theme.Styles) string {
	var b strings.Builder
	for i, step := range g.Steps() {
		cursor := " "
		if i == state.Cursor {
			cursor = styles.StepSelected.Render(theme.MarkerCursor)
		}

		marker, style := theme.MarkerPending, styles.StepPending
		switch {
		case step == state.Current:
			marker, style = theme.MarkerCurrent, styles.StepCurrent
		case g.IsHidden(step):
			marker, style = theme.MarkerHidden, styles.StepHidden
		case state.Reached[step]:
			marker, style = theme.MarkerReached, styles.StepReached
		}
		if i == state.Cursor && step != state.Current {
			style = styles.StepSelected
		}

		fmt.Fprintf(&b, "%s %s %s", cursor, style.Render(marker), style.Render(step.String()))
		if detail := stepDetail(g, step); detail != "" {
			b.WriteString("  " + styles.StepDetail.Render(detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func stepDetail(g *wizard.Graph, step wizard.Step) string {
	var parts []string
	if next, _ := g.Successors(step); len(next) > 0 {
		ids := make([]string, len(next))
		for i, s := range next {
			ids[i] = s.String()
		}
		parts = append(parts, "→ "+strings.Join(ids, ", "))
	}
	if g.IsHidden(step) {
		parts = append(parts, "hidden")
	}
	if parent, ok := g.SidebarParent(step); ok {
		parts = append(parts, "under "+parent.String())
	}
	if _, ok := g.Callback(step); ok {
		parts = append(parts, "setup")
	}
	return strings.Join(parts, " · ")
}

// RenderHop formats one journal entry.
func RenderHop(h navigator.Hop, styles theme.Styles) string {
	marker, style := theme.MarkerReached, styles.HopOK
	if h.Failed() {
		marker, style = theme.MarkerFailed, styles.HopFailed
	}
	line := fmt.Sprintf("%s %-7s %-12s %s → %s", marker, h.Op, h.Kind, h.From, h.To)
	if h.Failed() {
		line += ": " + h.Err.Error()
	} else if h.Duration > 0 {
		line += fmt.Sprintf(" (%s)", h.Duration.Round(time.Microsecond))
	}
	return style.Render(line)
}

// ReachedSteps returns the steps the journal shows the wizard arriving on.
func ReachedSteps(start wizard.Step, journal []navigator.Hop) map[wizard.Step]bool {
	reached := map[wizard.Step]bool{}
	if !start.IsZero() {
		reached[start] = true
	}
	for _, h := range journal {
		if h.Failed() || h.Kind == navigator.HopPassThrough {
			continue
		}
		reached[h.To] = true
	}
	return reached
}
