package domain

import "slices"

// BuildTarget describes where one native dependency is read from and built to.
type BuildTarget struct {
	name       string
	sourceDir  string
	buildDir   string
	installDir string
}

// NewBuildTarget creates a target. installDir may be empty when the tool does not install.
func NewBuildTarget(name, sourceDir, buildDir, installDir string) BuildTarget {
	return BuildTarget{
		name:       name,
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
	}
}

// Name returns the target name.
func (t BuildTarget) Name() string { return t.name }

// SourceDir returns the directory holding the dependency's sources.
func (t BuildTarget) SourceDir() string { return t.sourceDir }

// BuildDir returns the out-of-tree build directory.
func (t BuildTarget) BuildDir() string { return t.buildDir }

// InstallDir returns the install prefix, or "" if the target has none.
func (t BuildTarget) InstallDir() string { return t.installDir }

// HasInstallDir reports whether the target installs into a prefix.
func (t BuildTarget) HasInstallDir() bool { return t.installDir != "" }

// Emitter lists the artifact paths a target produces. It must be pure:
// the same target always yields the same list and the filesystem is never consulted.
type Emitter func(BuildTarget) []string

// Artifacts runs emit on the target and returns a private copy of the result.
func (t BuildTarget) Artifacts(emit Emitter) []string {
	if emit == nil {
		return nil
	}
	return slices.Clone(emit(t))
}
