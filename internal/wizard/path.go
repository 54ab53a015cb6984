package wizard

import (
	"github.com/tungetti/wizardnav/internal/errors"
)

// MaxPlanHops returns the bound on backward-chain iterations PathBetween
// accepts before giving up.
func (g *Graph) MaxPlanHops() int {
	return len(g.order) + 1
}

// PathBetween returns the hops a sequence of forward actions takes from
// from to to, excluding from and including to. It is empty when from == to.
//
// The path is found by walking backwards from to: at each node the walk
// stops if from is among the node's predecessors, otherwise it moves to the
// first predecessor in declaration order. Other predecessors are never
// explored, so on graphs where two branches converge the walk can pick a
// branch that does not lead back to from. Such walks end with an
// UnreachableStep error once MaxPlanHops is exceeded.
func (g *Graph) PathBetween(from, to Step) ([]Step, error) {
	const op = "wizard.PathBetween"
	if !g.Has(from) {
		return nil, unknownStep(op, from)
	}
	if !g.Has(to) {
		return nil, unknownStep(op, to)
	}
	if from == to {
		return nil, nil
	}

	var stack []Step
	node := to
	for hops := 0; ; hops++ {
		if hops >= g.MaxPlanHops() {
			return nil, errors.Newf(errors.UnreachableStep,
				"no path from %s to %s within %d hops", from, to, g.MaxPlanHops()).WithOp(op)
		}
		stack = append(stack, node)

		preds := g.predecessors(node)
		if contains(preds, from) {
			break
		}
		if len(preds) == 0 {
			return nil, errors.Newf(errors.UnreachableStep,
				"no path from %s to %s: %s has no predecessor", from, to, node).WithOp(op)
		}
		node = preds[0]
	}

	path := make([]Step, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		path = append(path, stack[i])
	}
	return path, nil
}

func contains(steps []Step, step Step) bool {
	for _, s := range steps {
		if s == step {
			return true
		}
	}
	return false
}
