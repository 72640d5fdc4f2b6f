package workflow

import (
	"context"
	"fmt"

	"bookforge/internal/book"
)

// End is the terminal pseudo-step. Routing to it stops the driver.
const End = "__end__"

// defaultStepLimit bounds a single run. The widest legitimate run (a long
// outline plus full revision loops on every chapter) stays well under it.
const defaultStepLimit = 100

// NodeFunc executes one step against the shared state. A returned error
// sets the state's error slot and diverts the driver to the error branch.
type NodeFunc func(ctx context.Context, state *book.WorkflowState) error

// RouterFunc picks the branch result after a step; the graph maps the
// result to the next step name.
type RouterFunc func(state *book.WorkflowState) string

// Observer is called after every executed step with the step name and the
// state as it stands. It is injected at construction, never looked up
// through ambient context.
type Observer func(step string, state *book.WorkflowState)

type branch struct {
	router  RouterFunc
	targets map[string]string
}

// Graph is a directed set of named steps with unconditional edges and
// routed branches, executed one step at a time by Run.
type Graph struct {
	nodes     map[string]NodeFunc
	edges     map[string]string
	branches  map[string]branch
	entry     string
	errorStep string
	stepLimit int
	observer  Observer
}

func NewGraph() *Graph {
	return &Graph{
		nodes:     make(map[string]NodeFunc),
		edges:     make(map[string]string),
		branches:  make(map[string]branch),
		stepLimit: defaultStepLimit,
	}
}

func (g *Graph) AddNode(name string, fn NodeFunc) error {
	if name == "" || name == End {
		return fmt.Errorf("invalid node name %q", name)
	}
	if fn == nil {
		return fmt.Errorf("node %s has no function", name)
	}
	if _, exists := g.nodes[name]; exists {
		return fmt.Errorf("node %s already registered", name)
	}
	g.nodes[name] = fn
	return nil
}

// AddEdge wires an unconditional transition from one step to the next.
func (g *Graph) AddEdge(from, to string) error {
	if _, exists := g.edges[from]; exists {
		return fmt.Errorf("edge from %s already registered", from)
	}
	if _, exists := g.branches[from]; exists {
		return fmt.Errorf("node %s already has a branch", from)
	}
	g.edges[from] = to
	return nil
}

// AddBranch wires a routed transition: after the step runs, router picks a
// result and targets maps it to the next step name.
func (g *Graph) AddBranch(from string, router RouterFunc, targets map[string]string) error {
	if router == nil {
		return fmt.Errorf("branch from %s has no router", from)
	}
	if len(targets) == 0 {
		return fmt.Errorf("branch from %s has no targets", from)
	}
	if _, exists := g.edges[from]; exists {
		return fmt.Errorf("node %s already has an edge", from)
	}
	if _, exists := g.branches[from]; exists {
		return fmt.Errorf("branch from %s already registered", from)
	}
	g.branches[from] = branch{router: router, targets: targets}
	return nil
}

func (g *Graph) SetEntryPoint(name string) { g.entry = name }

// SetErrorStep names the step the driver diverts to when a node fails.
func (g *Graph) SetErrorStep(name string) { g.errorStep = name }

// SetStepLimit overrides the default step budget. Non-positive values keep
// the default.
func (g *Graph) SetStepLimit(limit int) {
	if limit > 0 {
		g.stepLimit = limit
	}
}

func (g *Graph) SetObserver(obs Observer) { g.observer = obs }

// Validate checks the wiring: an entry point, every edge and branch target
// resolving to a registered node or End, and every non-terminal node having
// somewhere to go.
func (g *Graph) Validate() error {
	if g.entry == "" {
		return fmt.Errorf("no entry point set")
	}
	if _, ok := g.nodes[g.entry]; !ok {
		return fmt.Errorf("entry point %s is not a registered node", g.entry)
	}
	if g.errorStep != "" {
		if _, ok := g.nodes[g.errorStep]; !ok {
			return fmt.Errorf("error step %s is not a registered node", g.errorStep)
		}
	}
	resolve := func(from, to string) error {
		if to == End {
			return nil
		}
		if _, ok := g.nodes[to]; !ok {
			return fmt.Errorf("transition from %s targets unknown node %s", from, to)
		}
		return nil
	}
	for from, to := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return fmt.Errorf("edge from unknown node %s", from)
		}
		if err := resolve(from, to); err != nil {
			return err
		}
	}
	for from, br := range g.branches {
		if _, ok := g.nodes[from]; !ok {
			return fmt.Errorf("branch from unknown node %s", from)
		}
		for _, to := range br.targets {
			if err := resolve(from, to); err != nil {
				return err
			}
		}
	}
	for name := range g.nodes {
		if _, ok := g.edges[name]; ok {
			continue
		}
		if _, ok := g.branches[name]; ok {
			continue
		}
		return fmt.Errorf("node %s has no outgoing transition", name)
	}
	return nil
}

// Run drives the state through the graph from the entry point until End.
// A failing node sets the state's error slot and diverts execution to the
// error step; Run then returns the original node error once the error step
// has run. Cancellation is checked between steps.
func (g *Graph) Run(ctx context.Context, state *book.WorkflowState) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("invalid workflow graph: %w", err)
	}

	current := g.entry
	for steps := 0; ; steps++ {
		if steps >= g.stepLimit {
			return fmt.Errorf("%w: %d steps executed", ErrStepLimit, steps)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fn := g.nodes[current]
		nodeErr := fn(ctx, state)
		if nodeErr != nil && state.Err == nil {
			state.Err = nodeErr
		}
		if g.observer != nil {
			g.observer(current, state)
		}
		if nodeErr != nil {
			if g.errorStep != "" && current != g.errorStep {
				current = g.errorStep
				continue
			}
			return nodeErr
		}

		next, err := g.next(current, state)
		if err != nil {
			return err
		}
		if next == End {
			return state.Err
		}
		current = next
	}
}

func (g *Graph) next(current string, state *book.WorkflowState) (string, error) {
	if to, ok := g.edges[current]; ok {
		return to, nil
	}
	br, ok := g.branches[current]
	if !ok {
		return "", fmt.Errorf("node %s has no outgoing transition", current)
	}
	result := br.router(state)
	to, ok := br.targets[result]
	if !ok {
		return "", fmt.Errorf("router for %s returned unmapped result %q", current, result)
	}
	return to, nil
}
