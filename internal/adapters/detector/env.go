// Package detector inspects the terminal and CI environment to choose output defaults.
package detector

import (
	"os"

	"github.com/muesli/termenv"
	"go.trai.ch/rtcdeps/internal/ui/output"
	"golang.org/x/term"
)

// Environment describes where the process is running.
type Environment struct {
	TTY bool
	CI  bool
}

// Interactive reports whether output goes to a terminal outside CI.
func (e Environment) Interactive() bool {
	return e.TTY && !e.CI
}

// ColorProfile returns the termenv profile for build output in this environment.
func (e Environment) ColorProfile() termenv.Profile {
	if e.Interactive() {
		return output.ColorProfile()
	}
	return output.ColorProfileANSI()
}

// DetectEnvironment checks whether stdout is a TTY and whether CI is set.
func DetectEnvironment() Environment {
	return detect(func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }, os.Getenv)
}

func detect(isTerminal func() bool, getenv func(string) string) Environment {
	ci := getenv("CI")
	return Environment{
		TTY: isTerminal(),
		CI:  ci == "true" || ci == "1",
	}
}

// PTY modes accepted by ResolvePTY.
const (
	PTYAuto = "auto"
	PTYOn   = "on"
	PTYOff  = "off"
)

// ResolvePTY applies the user's choice to the detected environment.
// Unknown values behave like auto.
func ResolvePTY(env Environment, userFlag string) bool {
	switch userFlag {
	case PTYOn:
		return true
	case PTYOff:
		return false
	default:
		return env.Interactive()
	}
}
