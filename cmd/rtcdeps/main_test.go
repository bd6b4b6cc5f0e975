package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rtcdeps/internal/app"
)

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		config       string
		args         []string
		expectedExit int
	}{
		{
			name:         "Plan with defaults",
			args:         []string{"rtcdeps", "plan", "--platform", "linux", "--arch", "x86_64"},
			expectedExit: 0,
		},
		{
			name: "Plan with config file",
			config: `platform: windows
arch: x86_32
use_mingw: true
jobs: 2
`,
			args:         []string{"rtcdeps", "plan"},
			expectedExit: 0,
		},
		{
			name:         "Matrix",
			args:         []string{"rtcdeps", "plan", "--matrix"},
			expectedExit: 0,
		},
		{
			name:         "Unsupported configuration",
			args:         []string{"rtcdeps", "build", "--platform", "ios", "--arch", "universal", "--pty", "off"},
			expectedExit: 1,
		},
		{
			name:         "Unknown platform",
			args:         []string{"rtcdeps", "plan", "--platform", "beos"},
			expectedExit: 1,
		},
		{
			name:         "Broken config file",
			config:       "jobs: [\n",
			args:         []string{"rtcdeps", "artifacts"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			if tt.config != "" {
				if err := os.WriteFile(tmpDir+"/rtcdeps.yaml", []byte(tt.config), 0o600); err != nil {
					t.Fatalf("failed to write config: %v", err)
				}
			}

			originalWd, _ := os.Getwd()
			if err := os.Chdir(tmpDir); err != nil {
				t.Fatalf("failed to chdir: %v", err)
			}
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			os.Args = tt.args

			exitCode := run(func(a *app.App) {
				a.WithOutput(io.Discard)
			})
			assert.Equal(t, tt.expectedExit, exitCode)

			entries, err := os.ReadDir(tmpDir)
			if err != nil {
				t.Fatalf("failed to read temp dir: %v", err)
			}
			for _, e := range entries {
				assert.Equal(t, "rtcdeps.yaml", e.Name(), "unexpected side effect")
			}
		})
	}
}
