// Package config loads the build configuration from rtcdeps.yaml, the environment and flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/rtcdeps/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables read by the loader.
const (
	EnvAndroidNDKRoot = "ANDROID_NDK_ROOT"
	EnvCC             = "CC"
	EnvJobs           = "RTCDEPS_JOBS"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	// Getenv looks up environment variables. It defaults to os.Getenv.
	Getenv func(string) string
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, Getenv: os.Getenv}
}

// Load resolves the configuration in order: defaults, file, environment, overrides.
// Without an explicit file the nearest rtcdeps.yaml at or above cwd is used.
// When none exists the defaults apply and cwd is the project root.
// An empty suffix is derived from the final platform and architecture.
func (l *Loader) Load(cwd, file string, overrides domain.Overrides) (domain.BuildConfiguration, error) {
	cfg := defaults(cwd)

	configPath := file
	if configPath != "" && !filepath.IsAbs(configPath) {
		configPath = filepath.Join(cwd, configPath)
	}
	if configPath == "" {
		configPath = findConfiguration(cwd)
	}

	if configPath != "" {
		var f File
		if err := readAndUnmarshalYAML(configPath, &f); err != nil {
			return domain.BuildConfiguration{}, zerr.With(err, "path", configPath)
		}
		var err error
		if cfg, err = applyFile(cfg, f, configPath); err != nil {
			return domain.BuildConfiguration{}, err
		}
	} else if l.Logger != nil {
		l.Logger.Info("no " + domain.ConfigFileName + " found, using defaults for the host")
	}

	cfg, err := l.applyEnvironment(cfg)
	if err != nil {
		return domain.BuildConfiguration{}, err
	}

	cfg = overrides.Apply(cfg)
	if cfg.Suffix == "" {
		cfg.Suffix = "." + cfg.Platform.String() + "." + cfg.Arch.String()
	}
	if err := cfg.Validate(); err != nil {
		return domain.BuildConfiguration{}, err
	}
	return cfg, nil
}

func defaults(cwd string) domain.BuildConfiguration {
	platform, arch := hostTarget()
	return domain.BuildConfiguration{
		Platform:              platform,
		Arch:                  arch,
		MacOSDeploymentTarget: domain.DefaultDeploymentTarget,
		AndroidAPILevel:       domain.MinAndroidAPILevel,
		Jobs:                  runtime.NumCPU(),
		ProjectRoot:           filepath.Clean(cwd),
	}
}

// hostTarget maps the running platform onto a build target, falling back to linux/x86_64.
func hostTarget() (domain.Platform, domain.Arch) {
	platform := domain.PlatformLinux
	switch runtime.GOOS {
	case "darwin":
		platform = domain.PlatformMacOS
	case "windows":
		platform = domain.PlatformWindows
	case "android":
		platform = domain.PlatformAndroid
	case "ios":
		platform = domain.PlatformIOS
	}

	arch := domain.ArchX86_64
	switch runtime.GOARCH {
	case "386":
		arch = domain.ArchX86_32
	case "arm":
		arch = domain.ArchArm32
	case "arm64":
		arch = domain.ArchArm64
	}
	return platform, arch
}

func findConfiguration(cwd string) string {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

func applyFile(cfg domain.BuildConfiguration, f File, configPath string) (domain.BuildConfiguration, error) {
	cfg.ProjectRoot = resolveRoot(configPath, f.Root)

	if f.Platform != "" {
		p, err := domain.ParsePlatform(f.Platform)
		if err != nil {
			return cfg, zerr.With(err, "path", configPath)
		}
		cfg.Platform = p
	}
	if f.Arch != "" {
		a, err := domain.ParseArch(f.Arch)
		if err != nil {
			return cfg, zerr.With(err, "path", configPath)
		}
		cfg.Arch = a
	}
	if f.DebugSymbols != nil {
		cfg.DebugSymbols = *f.DebugSymbols
	}
	if f.UseMingw != nil {
		cfg.UseMingw = *f.UseMingw
	}
	if f.IOSSimulator != nil {
		cfg.IOSSimulator = *f.IOSSimulator
	}
	if f.MacOSDeploymentTarget != "" {
		cfg.MacOSDeploymentTarget = f.MacOSDeploymentTarget
	}
	if f.AndroidAPILevel != nil {
		cfg.AndroidAPILevel = *f.AndroidAPILevel
	}
	if f.Suffix != nil {
		cfg.Suffix = *f.Suffix
	}
	if f.Jobs != nil {
		cfg.Jobs = *f.Jobs
	}
	if f.CC != "" {
		cfg.CC = f.CC
	}
	if f.AndroidNDKRoot != "" {
		cfg.AndroidNDKRoot = f.AndroidNDKRoot
	}
	return cfg, nil
}

func (l *Loader) applyEnvironment(cfg domain.BuildConfiguration) (domain.BuildConfiguration, error) {
	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv(EnvAndroidNDKRoot); v != "" {
		cfg.AndroidNDKRoot = v
	}
	if v := getenv(EnvCC); v != "" {
		cfg.CC = v
	}
	if v := getenv(EnvJobs); v != "" {
		jobs, err := strconv.Atoi(v)
		if err != nil {
			return cfg, zerr.With(zerr.Wrap(domain.ErrInvalidConfiguration, "jobs is not a number"), EnvJobs, v)
		}
		cfg.Jobs = jobs
	}
	return cfg, nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered or passed by the user
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
