package ports

import (
	"context"
	"time"
)

// Renderer presents build progress. The scheduler only produces spans; the
// telemetry bridge turns them into the calls below.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start begins the renderer's lifecycle.
	Start(ctx context.Context) error

	// Stop flushes buffered output. No events arrive after Stop.
	Stop() error

	// Wait blocks until the renderer has finished. Synchronous renderers return at once.
	Wait() error

	// OnPlanEmit receives the tasks about to run in execution order, their
	// dependencies and the targets the user asked for.
	OnPlanEmit(tasks []string, deps map[string][]string, targets []string)

	// OnTaskStart marks the start of a task's span. parentID is empty for top-level tasks.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog receives raw tool output of a task. Chunks need not end on a line boundary.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete marks the end of a task's span. err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
