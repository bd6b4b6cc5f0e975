package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/rtcdeps/internal/adapters/config"
	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/rtcdeps/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func newLoader(t *testing.T, vars map[string]string) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	l := config.NewLoader(logger)
	l.Getenv = env(vars)
	return l
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load_File(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
platform: android
arch: arm64
debug_symbols: true
android_api_level: 21
jobs: 6
suffix: .android.template_debug.arm64
cc: /opt/ndk/bin/clang
`)

	cfg, err := newLoader(t, nil).Load(root, "", domain.Overrides{})
	require.NoError(t, err)

	assert.Equal(t, domain.PlatformAndroid, cfg.Platform)
	assert.Equal(t, domain.ArchArm64, cfg.Arch)
	assert.True(t, cfg.DebugSymbols)
	assert.Equal(t, 21, cfg.AndroidAPILevel)
	assert.Equal(t, 28, cfg.ResolvedAndroidAPILevel())
	assert.Equal(t, 6, cfg.Jobs)
	assert.Equal(t, ".android.template_debug.arm64", cfg.Suffix)
	assert.Equal(t, "/opt/ndk/bin/clang", cfg.CC)
	assert.Equal(t, domain.DefaultDeploymentTarget, cfg.MacOSDeploymentTarget)
	assert.Equal(t, filepath.Clean(root), cfg.ProjectRoot)
}

func TestLoader_Load_DiscoversParent(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "platform: linux\narch: x86_64\nroot: engine\n")

	nested := filepath.Join(root, "modules", "webrtc")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	cfg, err := newLoader(t, nil).Load(nested, "", domain.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "engine"), cfg.ProjectRoot)
	assert.Equal(t, ".linux.x86_64", cfg.Suffix)
}

func TestLoader_Load_Defaults(t *testing.T) {
	cwd := t.TempDir()

	cfg, err := newLoader(t, nil).Load(cwd, "", domain.Overrides{})
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean(cwd), cfg.ProjectRoot)
	assert.Equal(t, runtime.NumCPU(), cfg.Jobs)
	assert.Equal(t, domain.MinAndroidAPILevel, cfg.AndroidAPILevel)
	assert.Equal(t, domain.DefaultDeploymentTarget, cfg.MacOSDeploymentTarget)
	assert.Equal(t, "."+cfg.Platform.String()+"."+cfg.Arch.String(), cfg.Suffix)
}

func TestLoader_Load_Precedence(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "platform: android\narch: arm32\njobs: 2\ncc: file-cc\n")

	l := newLoader(t, map[string]string{
		config.EnvAndroidNDKRoot: "/opt/ndk",
		config.EnvCC:             "env-cc",
		config.EnvJobs:           "12",
	})

	jobs := 3
	arch := domain.ArchX86_64
	cfg, err := l.Load(root, "", domain.Overrides{Jobs: &jobs, Arch: &arch})
	require.NoError(t, err)

	assert.Equal(t, "/opt/ndk", cfg.AndroidNDKRoot)
	assert.Equal(t, "env-cc", cfg.CC)
	assert.Equal(t, 3, cfg.Jobs, "flag beats environment")
	assert.Equal(t, domain.PlatformAndroid, cfg.Platform)
	assert.Equal(t, domain.ArchX86_64, cfg.Arch)
	assert.Equal(t, ".android.x86_64", cfg.Suffix)
}

func TestLoader_Load_ExplicitFile(t *testing.T) {
	cwd := t.TempDir()
	other := t.TempDir()
	writeConfig(t, cwd, "platform: linux\n")
	path := writeConfig(t, other, "platform: macos\narch: arm64\nmacos_deployment_target: \"11.0\"\n")

	cfg, err := newLoader(t, nil).Load(cwd, path, domain.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformMacOS, cfg.Platform)
	assert.Equal(t, "11.0", cfg.MacOSDeploymentTarget)
	assert.Equal(t, filepath.Clean(other), cfg.ProjectRoot)
}

func TestLoader_Load_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := newLoader(t, nil).Load(t.TempDir(), "nope.yaml", domain.Overrides{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.ErrConfigReadFailed.Error())
	})

	t.Run("malformed yaml", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "platform: [linux\n")
		_, err := newLoader(t, nil).Load(root, "", domain.Overrides{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), domain.ErrConfigParseFailed.Error())
	})

	t.Run("unknown platform", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "platform: haiku\n")
		_, err := newLoader(t, nil).Load(root, "", domain.Overrides{})
		require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("jobs env not a number", func(t *testing.T) {
		_, err := newLoader(t, map[string]string{config.EnvJobs: "many"}).
			Load(t.TempDir(), "", domain.Overrides{})
		require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("zero jobs", func(t *testing.T) {
		root := t.TempDir()
		writeConfig(t, root, "jobs: 0\n")
		_, err := newLoader(t, nil).Load(root, "", domain.Overrides{})
		require.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})
}
