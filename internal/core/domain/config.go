package domain

import "go.trai.ch/zerr"

const (
	// MinAndroidAPILevel is the lowest Android API level the native dependencies are built against.
	MinAndroidAPILevel = 28

	// DefaultDeploymentTarget leaves the macOS deployment target to the toolchain.
	DefaultDeploymentTarget = "default"

	// ConfigRelease is the configuration label of optimized builds.
	ConfigRelease = "Release"

	// ConfigRelWithDebInfo is the configuration label of optimized builds with debug symbols.
	ConfigRelWithDebInfo = "RelWithDebInfo"
)

// BuildConfiguration describes one build invocation.
// It is created once, passed by value and never mutated.
type BuildConfiguration struct {
	Platform              Platform
	Arch                  Arch
	DebugSymbols          bool
	UseMingw              bool
	IOSSimulator          bool
	MacOSDeploymentTarget string
	AndroidAPILevel       int
	Jobs                  int
	Suffix                string

	// ProjectRoot is the host project directory the thirdparty and bin trees hang off.
	ProjectRoot string

	// AndroidNDKRoot is the value of ANDROID_NDK_ROOT captured at load time.
	AndroidNDKRoot string

	// CC is the C compiler of the host build. Its directory is the Android toolchain search path.
	CC string
}

// ResolvedAndroidAPILevel returns the configured API level floored at MinAndroidAPILevel.
func (c BuildConfiguration) ResolvedAndroidAPILevel() int {
	return max(c.AndroidAPILevel, MinAndroidAPILevel)
}

// ConfigurationLabel returns the build configuration name shared by both native tools.
func (c BuildConfiguration) ConfigurationLabel() string {
	if c.DebugSymbols {
		return ConfigRelWithDebInfo
	}
	return ConfigRelease
}

// HasDeploymentTarget reports whether a macOS deployment target override is set.
func (c BuildConfiguration) HasDeploymentTarget() bool {
	return c.MacOSDeploymentTarget != "" && c.MacOSDeploymentTarget != DefaultDeploymentTarget
}

// Validate checks the values that do not depend on the platform tables.
func (c BuildConfiguration) Validate() error {
	if _, err := ParsePlatform(string(c.Platform)); err != nil {
		return err
	}
	if _, err := ParseArch(string(c.Arch)); err != nil {
		return err
	}
	if c.Jobs < 1 {
		return zerr.With(zerr.Wrap(ErrInvalidConfiguration, "job count must be positive"), "jobs", c.Jobs)
	}
	if c.ProjectRoot == "" {
		return zerr.Wrap(ErrInvalidConfiguration, "project root is empty")
	}
	return nil
}
