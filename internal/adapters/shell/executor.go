// Package shell provides a process executor for build steps.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/creack/pty"
	"go.trai.ch/rtcdeps/internal/core/domain"
	"go.trai.ch/rtcdeps/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultTailLines is the number of output lines attached to a process failure.
const DefaultTailLines = 20

// Executor implements ports.Executor using os/exec and, optionally, a pty.
type Executor struct {
	logger    ports.Logger
	usePTY    bool
	tailLines int
}

// Option configures an Executor.
type Option func(*Executor)

// WithPTY runs programs attached to a pseudo-terminal.
// Where PTYs are unsupported the executor falls back to pipes.
func WithPTY() Option {
	return func(e *Executor) {
		e.usePTY = true
	}
}

// WithTailLines sets how many trailing output lines a failure reports.
func WithTailLines(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.tailLines = n
		}
	}
}

// NewExecutor creates a new Executor. logger receives process output when
// Execute is given nil writers. It may be nil.
func NewExecutor(logger ports.Logger, opts ...Option) *Executor {
	e := &Executor{
		logger:    logger,
		tailLines: DefaultTailLines,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the steps in order and stops at the first failure.
func (e *Executor) Execute(ctx context.Context, steps []domain.Step, stdout, stderr io.Writer) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch step.Kind {
		case domain.StepMkdir:
			if err := os.MkdirAll(filepath.FromSlash(step.Path), domain.DirPerm); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", step.Path)
			}
		case domain.StepExec:
			if err := e.run(ctx, step, stdout, stderr); err != nil {
				return err
			}
		default:
			return zerr.With(zerr.New("unknown step kind"), "step", step.Name)
		}
	}
	return nil
}

func (e *Executor) run(ctx context.Context, step domain.Step, stdout, stderr io.Writer) error {
	env := resolveEnvironment(os.Environ(), step.Env, step.PathPrepend)

	executable := step.Program
	if !filepath.IsAbs(executable) {
		if lp, err := lookPath(executable, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, step.Args.Args()...) //nolint:gosec // resolved build tool
	cmd.Args[0] = step.Program
	cmd.Env = env
	if step.Dir != "" {
		cmd.Dir = filepath.FromSlash(step.Dir)
	}

	tail := newTailBuffer(e.tailLines)
	stdoutLog := &logWriter{logger: e.logger, level: "info"}
	stderrLog := &logWriter{logger: e.logger, level: "error"}
	defer func() {
		_ = stdoutLog.Close()
		_ = stderrLog.Close()
	}()

	// Both streams share the tail and possibly the caller's writer.
	var mu sync.Mutex
	outW := &lockedWriter{mu: &mu, w: io.MultiWriter(tail, orLog(stdout, stdoutLog))}
	errW := &lockedWriter{mu: &mu, w: io.MultiWriter(tail, orLog(stderr, stderrLog))}

	var err error
	if e.usePTY {
		err = runPTY(cmd, outW)
		// pty.Start fails before starting the process when PTYs are unavailable.
		if errors.Is(err, pty.ErrUnsupported) {
			err = runPipes(cmd, outW, errW)
		}
	} else {
		err = runPipes(cmd, outW, errW)
	}

	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		failure := zerr.Wrap(domain.ErrProcessFailure, "command failed")
		failure = zerr.With(failure, "step", step.Name)
		failure = zerr.With(failure, "program", step.Program)
		failure = zerr.With(failure, "exit_code", exitCode)
		failure = zerr.With(failure, "cause", err.Error())
		return zerr.With(failure, "output_tail", tail.String())
	}
	return nil
}

func runPipes(cmd *exec.Cmd, stdout, stderr io.Writer) error {
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// runPTY runs cmd on a pseudo-terminal. The terminal merges both streams into stdout.
func runPTY(cmd *exec.Cmd, stdout io.Writer) error {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return err
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		_, _ = io.Copy(stdout, ptmx)
	}()

	err = cmd.Wait()
	_ = ptmx.Close()
	<-ioDone
	return err
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	if w.logger == nil {
		return len(p), nil
	}
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs may introduce \r.
	msg := strings.TrimSuffix(string(line), "\r")

	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Error(zerr.New(msg))
	}
}

// tailBuffer keeps the last max complete lines written to it, plus any trailing partial line.
type tailBuffer struct {
	max     int
	lines   []string
	partial []byte
}

func newTailBuffer(maxLines int) *tailBuffer {
	return &tailBuffer{max: maxLines}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.partial = append(t.partial, p...)
	for {
		i := bytes.IndexByte(t.partial, '\n')
		if i < 0 {
			break
		}
		t.push(strings.TrimSuffix(string(t.partial[:i]), "\r"))
		t.partial = t.partial[i+1:]
	}
	return len(p), nil
}

func (t *tailBuffer) push(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = slices.Delete(t.lines, 0, len(t.lines)-t.max)
	}
}

func (t *tailBuffer) String() string {
	lines := t.lines
	if len(t.partial) > 0 {
		lines = append(slices.Clone(lines), string(t.partial))
		if len(lines) > t.max {
			lines = lines[len(lines)-t.max:]
		}
	}
	return strings.Join(lines, "\n")
}

// resolveEnvironment inherits sysEnv, applies vars and prepends dirs to PATH.
// The result is sorted by key.
func resolveEnvironment(sysEnv []string, vars map[string]string, prepend []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(vars))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	for k, v := range vars {
		envMap[k] = v
	}

	if len(prepend) > 0 {
		parts := slices.Clone(prepend)
		if sysPath := envMap["PATH"]; sysPath != "" {
			parts = append(parts, sysPath)
		}
		envMap["PATH"] = strings.Join(parts, string(os.PathListSeparator))
	}

	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the PATH of env rather than of this process.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}

func orLog(w io.Writer, log *logWriter) io.Writer {
	if w != nil {
		return w
	}
	return log
}
