package wizard

import (
	"github.com/tungetti/wizardnav/internal/errors"
)

// Graph is the immutable topology of a wizard. Use a Builder to create one.
type Graph struct {
	order     []Step
	index     map[Step]int
	edges     map[Step][]Step
	hidden    map[Step]bool
	parents   map[Step]Step
	callbacks map[Step]Callback
	terminal  Step

	ignoredHidden []Step
}

// Steps returns the declared steps in declaration order.
func (g *Graph) Steps() []Step {
	return append([]Step{}, g.order...)
}

// Len returns the number of declared steps.
func (g *Graph) Len() int {
	return len(g.order)
}

// First returns the first declared step.
func (g *Graph) First() Step {
	if len(g.order) == 0 {
		return NoStep
	}
	return g.order[0]
}

// Terminal returns the unique step without outgoing edges.
func (g *Graph) Terminal() Step {
	return g.terminal
}

// Has reports whether step is declared.
func (g *Graph) Has(step Step) bool {
	_, ok := g.index[step]
	return ok
}

// Successors returns the candidate next steps of step in declared order.
func (g *Graph) Successors(step Step) ([]Step, error) {
	if !g.Has(step) {
		return nil, unknownStep("wizard.Successors", step)
	}
	return append([]Step{}, g.edges[step]...), nil
}

// Predecessors returns every step that lists step among its successors,
// in declaration order.
func (g *Graph) Predecessors(step Step) ([]Step, error) {
	if !g.Has(step) {
		return nil, unknownStep("wizard.Predecessors", step)
	}
	return g.predecessors(step), nil
}

func (g *Graph) predecessors(step Step) []Step {
	var preds []Step
	for _, s := range g.order {
		for _, next := range g.edges[s] {
			if next == step {
				preds = append(preds, s)
				break
			}
		}
	}
	return preds
}

// IsHidden reports whether step is hidden for this variant.
func (g *Graph) IsHidden(step Step) bool {
	return g.hidden[step]
}

// Hidden returns the hidden steps in declaration order.
func (g *Graph) Hidden() []Step {
	var out []Step
	for _, s := range g.order {
		if g.hidden[s] {
			out = append(out, s)
		}
	}
	return out
}

// IgnoredHidden returns the steps asked to be hidden that the graph does
// not declare, in the order they were given.
func (g *Graph) IgnoredHidden() []Step {
	return append([]Step{}, g.ignoredHidden...)
}

// SidebarParent returns the step to click in the sidebar before step, if any.
func (g *Graph) SidebarParent(step Step) (Step, bool) {
	p, ok := g.parents[step]
	return p, ok
}

// Callback returns the on-enter callback registered for step, if any.
func (g *Graph) Callback(step Step) (Callback, bool) {
	cb, ok := g.callbacks[step]
	return cb, ok
}

// DefaultNext returns the step a forward action lands on from step: the
// first successor that is not hidden. Hidden successors are transparent,
// their own successors are searched in turn.
func (g *Graph) DefaultNext(step Step) (Step, error) {
	const op = "wizard.DefaultNext"
	if !g.Has(step) {
		return NoStep, unknownStep(op, step)
	}
	if next, ok := g.firstVisible(step, g.successorsOf, map[Step]bool{step: true}); ok {
		return next, nil
	}
	return NoStep, errors.Newf(errors.DeadEnd, "step %s has no visible successor", step).WithOp(op)
}

// DefaultPrevious returns the step a backward action lands on from step:
// the first predecessor that is not hidden, looking through hidden
// predecessors the same way DefaultNext looks through hidden successors.
func (g *Graph) DefaultPrevious(step Step) (Step, error) {
	const op = "wizard.DefaultPrevious"
	if !g.Has(step) {
		return NoStep, unknownStep(op, step)
	}
	if prev, ok := g.firstVisible(step, g.predecessors, map[Step]bool{step: true}); ok {
		return prev, nil
	}
	return NoStep, errors.Newf(errors.NoPredecessor, "step %s has no visible predecessor", step).WithOp(op)
}

func (g *Graph) successorsOf(step Step) []Step {
	return g.edges[step]
}

// firstVisible walks neighbours depth first in order and returns the first
// step that is not hidden.
func (g *Graph) firstVisible(step Step, neighbours func(Step) []Step, seen map[Step]bool) (Step, bool) {
	for _, n := range neighbours(step) {
		if seen[n] {
			continue
		}
		seen[n] = true
		if !g.hidden[n] {
			return n, true
		}
		if found, ok := g.firstVisible(n, neighbours, seen); ok {
			return found, true
		}
	}
	return NoStep, false
}

func unknownStep(op string, step Step) error {
	return errors.Newf(errors.UnknownStep, "step %q is not declared", step).WithOp(op)
}
