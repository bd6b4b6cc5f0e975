package detector_test

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/rtcdeps/internal/adapters/detector"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		tty  bool
		ci   string
		want detector.Environment
	}{
		{"terminal", true, "", detector.Environment{TTY: true}},
		{"CI=true", true, "true", detector.Environment{TTY: true, CI: true}},
		{"CI=1 piped", false, "1", detector.Environment{CI: true}},
		{"CI=false", true, "false", detector.Environment{TTY: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detector.Detect(
				func() bool { return tt.tty },
				func(k string) string {
					if k == "CI" {
						return tt.ci
					}
					return ""
				},
			)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePTY(t *testing.T) {
	interactive := detector.Environment{TTY: true}
	ci := detector.Environment{TTY: true, CI: true}

	assert.True(t, detector.ResolvePTY(interactive, detector.PTYAuto))
	assert.True(t, detector.ResolvePTY(interactive, ""))
	assert.False(t, detector.ResolvePTY(ci, detector.PTYAuto))
	assert.True(t, detector.ResolvePTY(ci, detector.PTYOn))
	assert.False(t, detector.ResolvePTY(interactive, detector.PTYOff))
	assert.False(t, detector.ResolvePTY(detector.Environment{}, "sometimes"))
}

func TestEnvironment_ColorProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.ANSI, detector.Environment{CI: true}.ColorProfile())

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, detector.Environment{TTY: true}.ColorProfile())
}
