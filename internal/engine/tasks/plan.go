package tasks

import (
	"strconv"

	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/rtcdeps/internal/engine/resolver"
)

// TaskPlan is one fully resolved task.
type TaskPlan struct {
	Target       domain.BuildTarget
	Args         domain.ArgumentList
	Env          domain.ToolEnv
	Steps        []domain.Step
	Emit         domain.Emitter
	Inputs       []string
	Dependencies []string

	// IncludeDir is where consumers find the task's public headers.
	IncludeDir string
}

// Name returns the task name.
func (p TaskPlan) Name() string {
	return p.Target.Name()
}

// Artifacts returns the paths the task declares.
func (p TaskPlan) Artifacts() []string {
	return p.Target.Artifacts(p.Emit)
}

// Plan holds everything a build needs, resolved ahead of any side effect.
type Plan struct {
	Config    domain.BuildConfiguration
	Layout    domain.Layout
	TLS       TaskPlan
	Transport TaskPlan
}

// Tasks returns the task plans in dependency order.
func (p *Plan) Tasks() []TaskPlan {
	return []TaskPlan{p.TLS, p.Transport}
}

// Task returns the plan of the named task.
func (p *Plan) Task(name string) (TaskPlan, bool) {
	for _, t := range p.Tasks() {
		if t.Name() == name {
			return t, true
		}
	}
	return TaskPlan{}, false
}

// NewPlan resolves the layout, both argument lists and both step sequences.
// It has no side effects, so an unsupported configuration is reported
// before any directory is created or process started.
func NewPlan(cfg domain.BuildConfiguration) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	layout := domain.ResolveLayout(cfg)
	jobs := "-j" + strconv.Itoa(cfg.Jobs)

	tls, err := planTLS(cfg, layout, jobs)
	if err != nil {
		return nil, err
	}

	transport, err := planTransport(cfg, layout, jobs, tls)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Config:    cfg,
		Layout:    layout,
		TLS:       tls,
		Transport: transport,
	}, nil
}

func planTLS(cfg domain.BuildConfiguration, layout domain.Layout, jobs string) (TaskPlan, error) {
	target := domain.NewBuildTarget(domain.TLSName, layout.TLSSourceDir, layout.TLSBuildDir, layout.TLSInstallDir)

	args, err := resolver.ResolveTLS(cfg, target.InstallDir())
	if err != nil {
		return TaskPlan{}, err
	}
	env := resolver.TLSEnvironment(cfg)
	build := target.BuildDir()

	configure := domain.NewArgumentList(target.SourceDir() + "/Configure").Append(args.Args()...)
	steps := []domain.Step{
		domain.MkdirStep(build),
		domain.ExecStep(domain.StepNameConfigure, "perl", configure).WithDir(build).WithEnv(env),
		domain.ExecStep(domain.StepNameCompile, "make",
			domain.NewArgumentList("-C", build, jobs)).WithEnv(env),
		domain.ExecStep(domain.StepNameInstall, "make",
			domain.NewArgumentList("-C", build, "install_sw", "install_ssldirs", jobs)).WithEnv(env),
	}

	return TaskPlan{
		Target:     target,
		Args:       args,
		Env:        env,
		Steps:      steps,
		Emit:       EmitTLS,
		IncludeDir: layout.TLSIncludeDir,
	}, nil
}

func planTransport(cfg domain.BuildConfiguration, layout domain.Layout, jobs string, tls TaskPlan) (TaskPlan, error) {
	target := domain.NewBuildTarget(domain.TransportName, layout.TransportSourceDir, layout.TransportBuildDir, "")
	tlsArtifacts := tls.Artifacts()

	args, err := resolver.ResolveTransport(cfg, resolver.TransportInputs{
		SourceDir:     target.SourceDir(),
		BuildDir:      target.BuildDir(),
		TLSIncludeDir: layout.TLSIncludeDir,
		TLSRootDir:    tls.Target.BuildDir(),
		TLSLibraries:  tlsArtifacts,
	})
	if err != nil {
		return TaskPlan{}, err
	}
	env := resolver.TransportEnvironment(cfg)
	build := target.BuildDir()

	steps := []domain.Step{
		domain.MkdirStep(build),
		domain.ExecStep(domain.StepNameConfigure, "cmake", args).WithEnv(env),
		domain.ExecStep(domain.StepNameCompile, "cmake",
			domain.NewArgumentList("--build", build, "-t", "datachannel-static", jobs)).WithEnv(env),
	}

	return TaskPlan{
		Target:       target,
		Args:         args,
		Env:          env,
		Steps:        steps,
		Emit:         EmitTransport,
		Inputs:       tlsArtifacts,
		Dependencies: []string{tls.Name()},
		IncludeDir:   layout.TransportIncludeDir,
	}, nil
}
