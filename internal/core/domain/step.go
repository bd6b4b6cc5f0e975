package domain

import (
	"maps"
	"slices"
	"strings"
)

// StepKind distinguishes directory preparation from process execution.
type StepKind int

const (
	// StepMkdir creates a directory and its parents.
	StepMkdir StepKind = iota
	// StepExec runs an external program.
	StepExec
)

// Step labels used in logs and error metadata.
const (
	StepNameMkdir     = "mkdir"
	StepNameConfigure = "configure"
	StepNameCompile   = "compile"
	StepNameInstall   = "install"
)

// Step is one element of an Action's ordered sequence.
type Step struct {
	Kind StepKind
	Name string

	// Path is the directory created by a StepMkdir.
	Path string

	Program string
	Args    ArgumentList
	Dir     string

	// Env holds extra variables set on top of the inherited process environment.
	Env map[string]string

	// PathPrepend is placed in front of the inherited PATH.
	PathPrepend []string
}

// MkdirStep creates a StepMkdir for dir.
func MkdirStep(dir string) Step {
	return Step{Kind: StepMkdir, Name: StepNameMkdir, Path: dir}
}

// ExecStep creates a StepExec running program with args.
func ExecStep(name, program string, args ArgumentList) Step {
	return Step{Kind: StepExec, Name: name, Program: program, Args: args}
}

// WithDir returns a copy of s that runs in dir.
func (s Step) WithDir(dir string) Step {
	s.Dir = dir
	return s
}

// WithEnv returns a copy of s carrying env.
func (s Step) WithEnv(env ToolEnv) Step {
	s.Env = maps.Clone(env.Vars)
	s.PathPrepend = slices.Clone(env.PathPrepend)
	return s
}

// CommandLine renders the step as a single display line.
func (s Step) CommandLine() string {
	if s.Kind == StepMkdir {
		return "mkdir -p " + s.Path
	}
	var b strings.Builder
	b.WriteString(s.Program)
	if s.Args.Len() > 0 {
		b.WriteByte(' ')
		b.WriteString(s.Args.String())
	}
	return b.String()
}

// ToolEnv is the environment a native tool needs beyond the inherited one.
type ToolEnv struct {
	Vars        map[string]string
	PathPrepend []string
}

// IsEmpty reports whether the environment adds nothing.
func (e ToolEnv) IsEmpty() bool {
	return len(e.Vars) == 0 && len(e.PathPrepend) == 0
}
