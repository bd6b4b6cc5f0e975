package app

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/rtcdeps/internal/engine/tasks"
	"go.trai.ch/rtcdeps/internal/ui/style"
	"go.trai.ch/zerr"
)

// PlanOptions configures Plan.
type PlanOptions struct {
	Options
	// Matrix reports every platform tuple instead of the configured one.
	Matrix bool
}

// Plan prints the resolved layout and the steps of each task without running anything.
func (a *App) Plan(opts PlanOptions) error {
	if opts.Matrix {
		return a.planMatrix(opts.Options)
	}

	plan, err := a.loadPlan(opts.Options)
	if err != nil {
		return err
	}

	cfg := plan.Config
	w := a.out
	_, _ = fmt.Fprintf(w, "configuration: %s/%s %s jobs=%d\n",
		cfg.Platform, cfg.Arch, cfg.ConfigurationLabel(), cfg.Jobs)
	_, _ = fmt.Fprintf(w, "build root:    %s\n", plan.Layout.BuildRoot)

	for _, task := range plan.Tasks() {
		_, _ = fmt.Fprintf(w, "\n%s\n", task.Name())
		if len(task.Dependencies) > 0 {
			_, _ = fmt.Fprintf(w, "  depends on: %s\n", strings.Join(task.Dependencies, ", "))
		}
		if task.Target.HasInstallDir() {
			_, _ = fmt.Fprintf(w, "  install: %s\n", task.Target.InstallDir())
		}
		_, _ = fmt.Fprintf(w, "  headers: %s\n", task.IncludeDir)
		for _, env := range sortedEnv(task) {
			_, _ = fmt.Fprintf(w, "  env: %s\n", env)
		}
		for _, step := range task.Steps {
			prefix := ""
			if step.Dir != "" {
				prefix = "(cd " + step.Dir + ") "
			}
			_, _ = fmt.Fprintf(w, "  %s %s%s\n", style.Arrow, prefix, step.CommandLine())
		}
		_, _ = fmt.Fprintln(w, "  artifacts:")
		for _, artifact := range task.Artifacts() {
			_, _ = fmt.Fprintf(w, "    %s\n", artifact)
		}
	}
	return nil
}

func sortedEnv(task tasks.TaskPlan) []string {
	if task.Env.IsEmpty() {
		return nil
	}
	var lines []string
	for _, k := range slices.Sorted(maps.Keys(task.Env.Vars)) {
		lines = append(lines, k+"="+task.Env.Vars[k])
	}
	if len(task.Env.PathPrepend) > 0 {
		lines = append(lines, "PATH+="+strings.Join(task.Env.PathPrepend, ":"))
	}
	return lines
}

func (a *App) planMatrix(opts Options) error {
	base, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PLATFORM\tARCH\tMINGW\tSIMULATOR\tSTATUS")
	for _, e := range tasks.Matrix(base) {
		status := style.Check + " supported"
		if !e.Supported() {
			status = style.Cross + " unsupported"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Platform, e.Arch, yesNo(e.UseMingw), yesNo(e.IOSSimulator), status)
	}
	return tw.Flush()
}

// Artifacts prints the declared artifacts of one task, or of every task if name is empty.
func (a *App) Artifacts(opts Options, name string) error {
	plan, err := a.loadPlan(opts)
	if err != nil {
		return err
	}

	selected := plan.Tasks()
	if name != "" {
		task, ok := plan.Task(name)
		if !ok {
			return zerr.With(zerr.Wrap(domain.ErrTaskNotFound, "unknown task"), "task", name)
		}
		selected = []tasks.TaskPlan{task}
	}

	for _, task := range selected {
		for _, artifact := range task.Artifacts() {
			_, _ = fmt.Fprintln(a.out, artifact)
		}
	}
	return nil
}

// Status prints, per task, whether its artifacts exist and whether the last record matches the plan.
func (a *App) Status(opts Options) error {
	plan, err := a.loadPlan(opts)
	if err != nil {
		return err
	}

	root := plan.Config.ProjectRoot
	for _, task := range plan.Tasks() {
		record, err := a.store.Get(root, task.Name())
		if err != nil {
			return err
		}

		statuses, err := a.verifier.Inspect(task.Artifacts())
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(a.out, "%s: %s\n", task.Name(), describeRecord(record, domain.Fingerprint(task.Steps)))
		for _, s := range statuses {
			if s.Exists {
				_, _ = fmt.Fprintf(a.out, "  %s %s (%d bytes, %s)\n",
					style.Check, s.Path, s.Size, s.ModTime.UTC().Format(time.RFC3339))
				continue
			}
			_, _ = fmt.Fprintf(a.out, "  %s %s (missing)\n", style.Cross, s.Path)
		}
	}
	return nil
}

func describeRecord(record *domain.BuildRecord, fingerprint string) string {
	if record == nil {
		return "never built"
	}

	state := "up to date"
	if record.Fingerprint != fingerprint {
		state = "stale, steps changed since last build"
	}
	return fmt.Sprintf("built %s, %s", record.Timestamp.UTC().Format(time.RFC3339), state)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
