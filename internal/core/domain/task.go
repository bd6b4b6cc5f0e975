package domain

import (
	"context"
	"io"
)

// Action performs a task's side effects. It is only invoked by the scheduler,
// which supplies the writers process output is copied to.
type Action func(ctx context.Context, stdout, stderr io.Writer) error

// BuildTask is a node of the dependency graph.
type BuildTask struct {
	Name   string
	Target BuildTarget

	// Args is the resolved argument list of the task's configure step.
	Args  ArgumentList
	Steps []Step

	Emit Emitter
	Run  Action

	// Inputs are paths produced by dependencies that must exist before Run.
	Inputs       []string
	Dependencies []string
}

// Outputs returns the artifacts the task declares.
func (t *BuildTask) Outputs() []string {
	return t.Target.Artifacts(t.Emit)
}
