// Package scheduler runs the task graph one task at a time in dependency order.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/rtcdeps/internal/core/ports"
	"go.trai.ch/zerr"
)

// AllTargets selects every task in the graph.
const AllTargets = "all"

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
	// StatusSkipped indicates the task was not run because a dependency failed.
	StatusSkipped TaskStatus = "Skipped"
)

// Scheduler manages the execution of tasks in the dependency graph.
type Scheduler struct {
	verifier ports.Verifier
	store    ports.RecordStore
	tracer   ports.Tracer
	logger   ports.Logger
	now      func() time.Time

	mu         sync.RWMutex
	taskStatus map[string]TaskStatus
}

// NewScheduler creates a new Scheduler with the given dependencies.
func NewScheduler(
	verifier ports.Verifier,
	store ports.RecordStore,
	tracer ports.Tracer,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		verifier:   verifier,
		store:      store,
		tracer:     tracer,
		logger:     logger,
		now:        time.Now,
		taskStatus: make(map[string]TaskStatus),
	}
}

// WithTracer returns a scheduler that reports spans to tracer.
func (s *Scheduler) WithTracer(tracer ports.Tracer) *Scheduler {
	return NewScheduler(s.verifier, s.store, tracer, s.logger)
}

// Status returns the status of the named task in the last run.
func (s *Scheduler) Status(name string) TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskStatus[name]
}

func (s *Scheduler) initTaskStatuses(tasks []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.taskStatus)
	for _, task := range tasks {
		s.taskStatus[task] = StatusPending
	}
}

func (s *Scheduler) updateStatus(name string, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Run executes the selected tasks and their dependencies sequentially.
// If targetNames is empty or contains "all", every task in the graph is executed.
// root is the project root build records are stored under.
//
// A failed task marks every dependent as failed without running it.
// All failures are joined into the returned error.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, targetNames []string, root string) error {
	if err := graph.Validate(); err != nil {
		return err
	}

	selected, err := resolveTasksToRun(graph, targetNames)
	if err != nil {
		return err
	}

	var planned []*domain.BuildTask
	for task := range graph.Walk() {
		if selected[task.Name] {
			planned = append(planned, task)
		}
	}

	names := make([]string, len(planned))
	deps := make(map[string][]string, len(planned))
	for i, task := range planned {
		names[i] = task.Name
		deps[task.Name] = slices.Clone(task.Dependencies)
	}
	s.tracer.EmitPlan(ctx, names, deps, targetNames)
	s.initTaskStatuses(names)

	var errs error
	failed := make(map[string]bool)

	for _, task := range planned {
		if ctx.Err() != nil {
			return errors.Join(errs, ctx.Err())
		}

		if dep := failedDependency(task, failed); dep != "" {
			failed[task.Name] = true
			s.updateStatus(task.Name, StatusSkipped)
			skipped := zerr.With(zerr.Wrap(domain.ErrDependencyFailed, "task not run"), "task", task.Name)
			errs = errors.Join(errs, zerr.With(skipped, "dependency", dep))
			continue
		}

		s.updateStatus(task.Name, StatusRunning)
		if err := s.execute(ctx, task); err != nil {
			failed[task.Name] = true
			s.updateStatus(task.Name, StatusFailed)
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrTaskExecutionFailed.Error()), "task", task.Name))
			continue
		}

		s.updateStatus(task.Name, StatusCompleted)
		s.record(root, task)
	}

	return errs
}

func (s *Scheduler) execute(ctx context.Context, task *domain.BuildTask) (err error) {
	ctx, span := s.tracer.Start(ctx, task.Name, ports.WithAttribute("task.steps", len(task.Steps)))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	if len(task.Inputs) > 0 {
		missing, err := s.verifier.VerifyArtifacts(task.Inputs)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return zerr.With(zerr.Wrap(domain.ErrMissingInputs, "cannot run task"), "missing", missing)
		}
	}

	if task.Run == nil {
		return nil
	}
	return task.Run(ctx, span, span)
}

// record stores the build record of a successful task. Failures are only logged.
func (s *Scheduler) record(root string, task *domain.BuildTask) {
	err := s.store.Put(root, domain.BuildRecord{
		Task:        task.Name,
		Fingerprint: domain.Fingerprint(task.Steps),
		Artifacts:   task.Outputs(),
		Timestamp:   s.now().UTC(),
	})
	if err != nil {
		s.logger.Warn(fmt.Sprintf("could not store build record for %s: %v", task.Name, err))
	}
}

func failedDependency(task *domain.BuildTask, failed map[string]bool) string {
	for _, dep := range task.Dependencies {
		if failed[dep] {
			return dep
		}
	}
	return ""
}

// resolveTasksToRun returns the targets and their transitive dependencies.
func resolveTasksToRun(graph *domain.Graph, targetNames []string) (map[string]bool, error) {
	if len(targetNames) == 0 || slices.Contains(targetNames, AllTargets) {
		targetNames = graph.Names()
	}

	selected := make(map[string]bool)
	var visit func(name string) error
	visit = func(name string) error {
		if selected[name] {
			return nil
		}
		task, ok := graph.GetTask(name)
		if !ok {
			return zerr.With(zerr.Wrap(domain.ErrTaskNotFound, "unknown target"), "task", name)
		}
		selected[name] = true
		for _, dep := range task.Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range targetNames {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return selected, nil
}
