// Package linear renders build progress as prefixed, chronological lines.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/rtcdeps/internal/core/ports"
	"go.trai.ch/rtcdeps/internal/ui/output"
	"go.trai.ch/rtcdeps/internal/ui/style"
)

// Renderer implements ports.Renderer. Task output goes to stdout with a [task] prefix.
// Plan and status lines go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu    sync.Mutex
	tasks map[string]*taskState // by span ID
}

type taskState struct {
	name      string
	startTime time.Time
	partial   []byte
}

var _ ports.Renderer = (*Renderer)(nil)

// NewRenderer creates a Renderer. Nil writers default to the process streams.
func NewRenderer(stdout, stderr io.Writer, profile termenv.Profile) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		output: output.NewWithProfile(stderr, func() termenv.Profile { return profile }),
		tasks:  make(map[string]*taskState),
	}
}

// Start is a no-op; the renderer writes synchronously.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes partial lines of tasks that never completed.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, task := range r.tasks {
		r.flushLocked(task)
	}
	return nil
}

// Wait is a no-op; the renderer writes synchronously.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit prints the planned tasks in execution order.
func (r *Renderer) OnPlanEmit(tasks []string, _ map[string][]string, targets []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order := strings.Join(tasks, " "+style.Arrow+" ")
	_, _ = fmt.Fprintf(r.stderr, "Planning %d task(s) for %s: %s\n",
		len(tasks), strings.Join(targets, ", "), r.output.String(order).Bold())
}

// OnTaskStart prints a start line for the task.
func (r *Renderer) OnTaskStart(spanID, _ string, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[spanID] = &taskState{name: name, startTime: startTime}

	prefix := r.output.String("[" + name + "]").Faint()
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", prefix)
}

// OnTaskLog prints every complete line of data with the task prefix.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}

	task.partial = append(task.partial, data...)
	for {
		i := bytes.IndexByte(task.partial, '\n')
		if i < 0 {
			break
		}
		r.printLineLocked(task.name, task.partial[:i])
		task.partial = task.partial[i+1:]
	}
}

// OnTaskComplete flushes the task's output and prints its result.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[spanID]
	if !ok {
		return
	}
	delete(r.tasks, spanID)
	r.flushLocked(task)

	duration := endTime.Sub(task.startTime).Round(time.Millisecond)
	prefix := "[" + task.name + "]"

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(r.output.Color(string(style.Failure)))
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n", prefix, symbol, duration, err)
		return
	}
	symbol := r.output.String(style.Check).Foreground(r.output.Color(string(style.Success)))
	_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n", prefix, symbol, duration)
}

func (r *Renderer) flushLocked(task *taskState) {
	if len(task.partial) > 0 {
		r.printLineLocked(task.name, task.partial)
		task.partial = nil
	}
}

func (r *Renderer) printLineLocked(taskName string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", taskName, line)
}
