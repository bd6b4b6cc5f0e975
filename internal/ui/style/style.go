// Package style holds the colours and icons shared by the logger and the renderer.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Accent  = lipgloss.Color("#0EA5E9")
	Muted   = lipgloss.Color("#6B7280")
	Success = lipgloss.Color("#16A34A")
	Failure = lipgloss.Color("#DC2626")
	Caution = lipgloss.Color("#D97706")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Skip    = "-"
	Arrow   = "→"
)
