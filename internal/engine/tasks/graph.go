package tasks

import (
	"context"
	"io"
	"slices"

	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/rtcdeps/internal/core/ports"
)

// NewGraph builds the validated task graph of plan. Each task's action hands
// its steps to executor.
func NewGraph(plan *Plan, executor ports.Executor) (*domain.Graph, error) {
	g := domain.NewGraph()
	for _, tp := range plan.Tasks() {
		if err := g.AddTask(newTask(tp, executor)); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func newTask(tp TaskPlan, executor ports.Executor) *domain.BuildTask {
	steps := slices.Clone(tp.Steps)
	return &domain.BuildTask{
		Name:   tp.Name(),
		Target: tp.Target,
		Args:   tp.Args,
		Steps:  steps,
		Emit:   tp.Emit,
		Run: func(ctx context.Context, stdout, stderr io.Writer) error {
			return executor.Execute(ctx, steps, stdout, stderr)
		},
		Inputs:       slices.Clone(tp.Inputs),
		Dependencies: slices.Clone(tp.Dependencies),
	}
}
