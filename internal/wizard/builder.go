package wizard

import (
	"fmt"
	"strings"

	"github.com/tungetti/wizardnav/internal/errors"
)

// Builder assembles a Graph. Steps are declared in call order; the first
// declared step is the graph's first step. Builder methods record problems
// instead of failing immediately, and Build reports all of them at once.
type Builder struct {
	order     []Step
	edges     map[Step][]Step
	hidden    []Step
	parents   map[Step]Step
	parentSeq []Step
	callbacks map[Step]Callback
	cbSeq     []Step
	errs      []string
}

// NewBuilder creates an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{
		edges:     make(map[Step][]Step),
		parents:   make(map[Step]Step),
		callbacks: make(map[Step]Callback),
	}
}

// Step declares step with its forward candidates. Declaring an already
// declared step replaces its candidates but keeps its original position.
func (b *Builder) Step(step Step, next ...Step) *Builder {
	if step.IsZero() {
		b.errs = append(b.errs, "empty step id")
		return b
	}
	if _, ok := b.edges[step]; !ok {
		b.order = append(b.order, step)
	}
	b.edges[step] = append([]Step{}, next...)
	return b
}

// Hide marks steps as hidden. Steps the graph does not declare are
// ignored, so one hidden list can serve several product variants.
func (b *Builder) Hide(steps ...Step) *Builder {
	b.hidden = append(b.hidden, steps...)
	return b
}

// Parent records parent as the sidebar parent of child.
func (b *Builder) Parent(child, parent Step) *Builder {
	if _, ok := b.parents[child]; !ok {
		b.parentSeq = append(b.parentSeq, child)
	}
	b.parents[child] = parent
	return b
}

// OnEnter registers cb to run when step is entered during multi-hop
// navigation. A nil callback removes a previous registration.
func (b *Builder) OnEnter(step Step, cb Callback) *Builder {
	if cb == nil {
		delete(b.callbacks, step)
		return b
	}
	if !contains(b.cbSeq, step) {
		b.cbSeq = append(b.cbSeq, step)
	}
	b.callbacks[step] = cb
	return b
}

// Build validates the declared topology and returns the graph.
func (b *Builder) Build() (*Graph, error) {
	const op = "wizard.Build"

	g := &Graph{
		order:     append([]Step{}, b.order...),
		index:     make(map[Step]int, len(b.order)),
		edges:     make(map[Step][]Step, len(b.order)),
		hidden:    make(map[Step]bool, len(b.hidden)),
		parents:   make(map[Step]Step, len(b.parents)),
		callbacks: make(map[Step]Callback, len(b.callbacks)),
	}
	for i, s := range g.order {
		g.index[s] = i
		g.edges[s] = append([]Step{}, b.edges[s]...)
	}

	problems := append([]string{}, b.errs...)
	var unknown []string
	requireDeclared := func(s Step, role string) {
		if _, ok := g.index[s]; !ok {
			unknown = append(unknown, fmt.Sprintf("%s %q is not declared", role, s))
		}
	}

	if len(g.order) == 0 {
		problems = append(problems, "graph declares no steps")
	}

	var terminals []Step
	for _, s := range g.order {
		if len(g.edges[s]) == 0 {
			terminals = append(terminals, s)
		}
		for _, next := range g.edges[s] {
			if next == s {
				problems = append(problems, fmt.Sprintf("step %s loops to itself", s))
				continue
			}
			requireDeclared(next, "successor of "+s.String())
		}
	}

	for _, s := range b.hidden {
		if _, ok := g.index[s]; !ok {
			if !contains(g.ignoredHidden, s) {
				g.ignoredHidden = append(g.ignoredHidden, s)
			}
			continue
		}
		g.hidden[s] = true
	}
	for _, child := range b.parentSeq {
		parent := b.parents[child]
		requireDeclared(child, "sidebar child")
		requireDeclared(parent, "sidebar parent of "+child.String())
		g.parents[child] = parent
	}
	for _, s := range b.cbSeq {
		cb, ok := b.callbacks[s]
		if !ok {
			continue
		}
		requireDeclared(s, "callback step")
		g.callbacks[s] = cb
	}

	switch len(terminals) {
	case 0:
		if len(g.order) > 0 {
			problems = append(problems, "graph has no terminal step")
		}
	case 1:
		g.terminal = terminals[0]
		if g.hidden[g.terminal] {
			problems = append(problems, fmt.Sprintf("terminal step %s is hidden", g.terminal))
		}
	default:
		problems = append(problems, fmt.Sprintf("graph has %d terminal steps: %s", len(terminals), joinSteps(terminals)))
	}

	if len(unknown) > 0 {
		return nil, errors.New(errors.UnknownStep, strings.Join(append(unknown, problems...), "; ")).WithOp(op)
	}
	if len(problems) > 0 {
		return nil, errors.New(errors.Validation, strings.Join(problems, "; ")).WithOp(op)
	}
	return g, nil
}

// MustBuild is like Build but panics on error. Intended for fixtures.
func (b *Builder) MustBuild() *Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}

func joinSteps(steps []Step) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}
