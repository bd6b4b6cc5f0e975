// Package domain contains the core models of the native dependency build.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph represents a dependency graph of build tasks.
type Graph struct {
	tasks          map[string]*BuildTask
	executionOrder []string
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks: make(map[string]*BuildTask),
	}
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t *BuildTask) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(zerr.Wrap(ErrTaskAlreadyExists, "cannot add task"), "task_name", t.Name)
	}
	g.tasks[t.Name] = t
	g.executionOrder = nil
	return nil
}

// GetTask returns the task with the given name.
func (g *Graph) GetTask(name string) (*BuildTask, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Names returns every task name in sorted order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks dependencies, cycles and declared inputs using a topological sort.
// It populates the execution order if successful. Ties are broken by task name.
func (g *Graph) Validate() error {
	order := make([]string, 0, len(g.tasks))
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(u string) error
	visit = func(u string) error {
		visited[u] = 1
		path = append(path, u)

		task, exists := g.tasks[u]
		if !exists {
			return zerr.With(zerr.Wrap(ErrMissingDependency, "unknown task"), "dependency", u)
		}

		deps := slices.Clone(task.Dependencies)
		slices.Sort(deps)
		for _, dep := range deps {
			if visited[dep] == 1 {
				return buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if _, ok := g.tasks[dep]; !ok {
					err := zerr.With(zerr.Wrap(ErrMissingDependency, "unknown dependency"), "dependency", dep)
					return zerr.With(err, "task", u)
				}
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		order = append(order, u)
		return nil
	}

	for _, name := range g.Names() {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	for _, name := range order {
		if err := g.checkInputs(g.tasks[name]); err != nil {
			return err
		}
	}

	g.executionOrder = order
	return nil
}

// checkInputs ensures every input of t is emitted by one of its dependencies.
func (g *Graph) checkInputs(t *BuildTask) error {
	declared := make(map[string]struct{})
	for _, dep := range t.Dependencies {
		for _, out := range g.tasks[dep].Outputs() {
			declared[out] = struct{}{}
		}
	}
	for _, in := range t.Inputs {
		if _, ok := declared[in]; !ok {
			err := zerr.With(zerr.Wrap(ErrUndeclaredInput, "input has no producer"), "input", in)
			return zerr.With(err, "task", t.Name)
		}
	}
	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []string, dep string) error {
	start := slices.Index(path, dep)
	cycle := append(slices.Clone(path[start:]), dep)
	return zerr.With(zerr.Wrap(ErrCycleDetected, "invalid graph"), "cycle", strings.Join(cycle, " -> "))
}

// Walk returns an iterator that yields tasks in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[*BuildTask] {
	return func(yield func(*BuildTask) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}
