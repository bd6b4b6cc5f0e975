// Package app implements the application layer of rtcdeps.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.trai.ch/rtcdeps/internal/adapters/detector"
	"go.trai.ch/rtcdeps/internal/adapters/linear"
	"go.trai.ch/rtcdeps/internal/adapters/shell"
	"go.trai.ch/rtcdeps/internal/adapters/telemetry"
	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/rtcdeps/internal/core/ports"
	"go.trai.ch/rtcdeps/internal/engine/scheduler"
	"go.trai.ch/rtcdeps/internal/engine/tasks"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	logger       ports.Logger
	verifier     ports.Verifier
	store        ports.RecordStore
	scheduler    *scheduler.Scheduler

	out      io.Writer
	renderer ports.Renderer
	env      *detector.Environment
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	log ports.Logger,
	verifier ports.Verifier,
	store ports.RecordStore,
	sched *scheduler.Scheduler,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		logger:       log,
		verifier:     verifier,
		store:        store,
		scheduler:    sched,
		out:          os.Stdout,
	}
}

// WithOutput sets where reports of plan, artifacts and status are written.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithRenderer replaces the renderer Build would choose for the terminal.
func (a *App) WithRenderer(r ports.Renderer) *App {
	a.renderer = r
	return a
}

// WithEnvironment replaces the detected terminal environment.
func (a *App) WithEnvironment(env detector.Environment) *App {
	a.env = &env
	return a
}

// Options selects the configuration every command works on.
type Options struct {
	// Cwd is where configuration discovery starts. Empty means the process directory.
	Cwd string
	// ConfigFile is an explicit rtcdeps.yaml path.
	ConfigFile string
	Overrides  domain.Overrides
}

// BuildOptions configures Build.
type BuildOptions struct {
	Options
	// PTY is one of detector.PTYAuto, detector.PTYOn or detector.PTYOff.
	PTY string
}

func (a *App) environment() detector.Environment {
	if a.env != nil {
		return *a.env
	}
	return detector.DetectEnvironment()
}

func (a *App) loadConfig(opts Options) (domain.BuildConfiguration, error) {
	cwd := opts.Cwd
	if cwd == "" {
		var err error
		if cwd, err = os.Getwd(); err != nil {
			return domain.BuildConfiguration{}, zerr.Wrap(err, "failed to determine working directory")
		}
	}

	cfg, err := a.configLoader.Load(cwd, opts.ConfigFile, opts.Overrides)
	if err != nil {
		return domain.BuildConfiguration{}, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// loadPlan resolves the configuration and the full plan. It has no side effects.
func (a *App) loadPlan(opts Options) (*tasks.Plan, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return tasks.NewPlan(cfg)
}

// Build runs the selected tasks and their dependencies. No targets means all.
//
// The plan is resolved before anything is started, so an unsupported configuration
// fails without creating directories or spawning processes.
func (a *App) Build(ctx context.Context, targetNames []string, opts BuildOptions) error {
	plan, err := a.loadPlan(opts.Options)
	if err != nil {
		return err
	}

	if len(targetNames) == 0 {
		targetNames = []string{scheduler.AllTargets}
	}

	env := a.environment()

	executor := a.executor
	if detector.ResolvePTY(env, opts.PTY) {
		executor = shell.NewExecutor(a.logger, shell.WithPTY())
	}

	graph, err := tasks.NewGraph(plan, executor)
	if err != nil {
		return err
	}

	renderer := a.renderer
	if renderer == nil {
		renderer = linear.NewDefault(env)
	}

	tp := telemetry.NewProvider(renderer)
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()
	tracer := telemetry.NewOTelTracerFromProvider(tp, telemetry.InstrumentationName).WithRenderer(renderer)
	sched := a.scheduler.WithTracer(tracer)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()

		if err := sched.Run(ctx, graph, targetNames, plan.Config.ProjectRoot); err != nil {
			return errors.Join(domain.ErrBuildExecutionFailed, err)
		}
		return nil
	})

	return g.Wait()
}

// CleanOptions configures Clean.
type CleanOptions struct {
	Options
	// Records also removes the build record store.
	Records bool
}

// Clean removes the build root of the configuration and optionally the record store.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	plan, err := a.loadPlan(opts.Options)
	if err != nil {
		return err
	}

	var errs error

	buildRoot := plan.Layout.BuildRoot
	a.logger.Info(fmt.Sprintf("removing %s", buildRoot))
	if err := os.RemoveAll(buildRoot); err != nil {
		errs = errors.Join(errs, zerr.With(zerr.Wrap(err, "failed to remove build root"), "path", buildRoot))
	}

	if opts.Records {
		a.logger.Info("removing build records")
		if err := a.store.Remove(plan.Config.ProjectRoot); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return errs
}
