// Package runner executes external build tools and captures their output.
//
// A Runner streams the combined stdout/stderr of a child process line by
// line, in arrival order, to an optional display sink and an in-memory
// buffer, then hands back the buffered lines together with the process exit
// code. Interrupt signals received while the child runs are forwarded to its
// process group, with a SIGKILL escalation when it ignores them.
package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// signalTimeout bounds how long a forwarded interrupt may go unanswered
	// before the process group is force-killed.
	signalTimeout = 2 * time.Second

	// defaultMaxLineLength is the scanner token limit for tool output.
	// UnrealBuildTool can emit very long single-line linker invocations.
	defaultMaxLineLength = 1024 * 1024
)

// ErrToolNotFound reports that the requested executable does not exist.
// Use errors.Is to test for it; callers conventionally map it to exit 127.
var ErrToolNotFound = errors.New("tool not found")

// ExitError reports a tool that started and ran to completion but exited
// with a non-zero code. Use errors.As to extract the code.
type ExitError struct {
	Code  int
	cause error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.cause
}

// Spec describes one tool invocation.
type Spec struct {
	// Label names the invocation in logs; defaults to the command basename.
	Label string
	// Command is the executable path or name (resolved via PATH).
	Command string
	Args    []string
	// Dir is the working directory for the child; empty inherits the
	// caller's. Build.bat in particular must run from the engine root.
	Dir string
}

// Result holds everything captured from one invocation. It is always
// returned, including on failure, so callers can analyze partial output.
type Result struct {
	// Lines is the combined stdout/stderr output in arrival order.
	Lines []string
	// ExitCode is the process exit code: 0 on success, 127 when the tool
	// was not found, -1 when the process was killed by a signal.
	ExitCode int
	Duration time.Duration
}

// Output joins the captured lines back into a single newline-separated
// string.
func (r *Result) Output() string {
	return strings.Join(r.Lines, "\n")
}

// Config configures a Runner. The zero value is usable: no display echo,
// no line callback, default line length, standard logger.
type Config struct {
	// Display receives every captured line as it arrives, echoing the
	// child's output in real time. Nil disables the echo.
	Display io.Writer
	// OnLine is invoked for every captured line, after it is buffered and
	// echoed. It runs on the capture goroutine and must not block.
	OnLine func(line string)
	// MaxLineLength caps the length of a single output line.
	MaxLineLength int
	Log           logrus.FieldLogger
}

// Runner runs external tools. Safe for sequential reuse; a single Runner
// must not execute two specs concurrently because interrupt forwarding is
// per-invocation.
type Runner struct {
	display       io.Writer
	onLine        func(string)
	maxLineLength int
	log           logrus.FieldLogger
}

func New(cfg Config) *Runner {
	if cfg.MaxLineLength <= 0 {
		cfg.MaxLineLength = defaultMaxLineLength
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	return &Runner{
		display:       cfg.Display,
		onLine:        cfg.OnLine,
		maxLineLength: cfg.MaxLineLength,
		log:           cfg.Log,
	}
}

// Run executes the spec and blocks until the child exits.
//
// Error semantics:
//   - (result, nil) when the tool exits zero
//   - (result, *ExitError) when the tool runs but exits non-zero
//   - (result, ErrToolNotFound-wrapping error) when the executable is missing
//   - (result, error) for other infrastructure failures
//
// The result is non-nil in every case and carries whatever output was
// captured before the failure.
func (r *Runner) Run(ctx context.Context, spec Spec) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, interruptSignals()...)

	return r.run(ctx, cancel, sigChan, spec)
}

func (r *Runner) run(
	ctx context.Context, cancel context.CancelFunc, sigChan chan os.Signal, spec Spec,
) (*Result, error) {
	label := spec.Label
	if label == "" {
		label = filepath.Base(spec.Command)
	}
	log := r.log.WithField("task", label)

	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = spec.Dir
	cmd.Env = os.Environ()
	setProcessGroup(cmd)

	cmdDone := make(chan struct{})

	// Forward interrupts to the child's process group so Ctrl-C reaches the
	// whole build tree, not just the wrapper.
	handlerDone := make(chan struct{})
	go func() {
		defer func() {
			signal.Stop(sigChan)
			close(handlerDone)
		}()
		select {
		case sig := <-sigChan:
			if cmd.Process == nil {
				cancel()
				return
			}
			log.WithField("signal", sig).Debug("forwarding signal to process group")
			if err := killProcessGroup(cmd, sig); err != nil {
				log.WithError(err).Debug("signal forward failed")
			}
			select {
			case <-cmdDone:
			case <-time.After(signalTimeout):
				log.Debug("process ignored signal, force killing")
				if cmd.Process != nil && cmd.ProcessState == nil {
					_ = forceKillProcessGroup(cmd)
				}
				cancel()
			}
		case <-ctx.Done():
			if cmd.Process != nil && cmd.ProcessState == nil {
				_ = forceKillProcessGroup(cmd)
			}
		case <-cmdDone:
		}
	}()

	log.WithFields(logrus.Fields{
		"command": spec.Command,
		"args":    strings.Join(spec.Args, " "),
		"dir":     spec.Dir,
	}).Debug("starting tool")

	start := time.Now()
	lines, runErr := r.capture(cmd, cmdDone)
	<-handlerDone

	result := &Result{
		Lines:    lines,
		ExitCode: exitCodeOf(runErr),
		Duration: time.Since(start),
	}

	log.WithFields(logrus.Fields{
		"exit_code": result.ExitCode,
		"lines":     len(result.Lines),
		"duration":  result.Duration.Round(time.Millisecond).String(),
	}).Debug("tool finished")

	switch {
	case runErr == nil:
		return result, nil
	case isNotFoundError(runErr):
		return result, fmt.Errorf("%w: %s", ErrToolNotFound, spec.Command)
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return result, &ExitError{Code: result.ExitCode, cause: runErr}
		}
		return result, fmt.Errorf("run %s: %w", spec.Command, runErr)
	}
}

// capture wires up the output pipes, starts the command, and drains both
// streams into a single ordered line buffer. It closes cmdDone once the
// child has been reaped (or failed to start), releasing the signal handler.
func (r *Runner) capture(cmd *exec.Cmd, cmdDone chan struct{}) ([]string, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		close(cmdDone)
		return nil, fmt.Errorf("create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		_ = stdout.Close()
		close(cmdDone)
		return nil, fmt.Errorf("create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdout.Close()
		_ = stderr.Close()
		close(cmdDone)
		return nil, err
	}

	lineCh := make(chan string, 64)

	var scanners errgroup.Group
	scanners.Go(func() error { return r.scanPipe(stdout, lineCh) })
	scanners.Go(func() error { return r.scanPipe(stderr, lineCh) })

	var lines []string
	collectDone := make(chan struct{})
	go func() {
		defer close(collectDone)
		for line := range lineCh {
			lines = append(lines, line)
			if r.display != nil {
				fmt.Fprintln(r.display, line)
			}
			if r.onLine != nil {
				r.onLine(line)
			}
		}
	}()

	// Drain both pipes to EOF before reaping the child, so no trailing
	// output is lost. The summary block the analyzer cares about is the
	// very last thing the tool prints.
	scanErr := scanners.Wait()
	close(lineCh)
	<-collectDone

	runErr := cmd.Wait()
	close(cmdDone)

	if runErr == nil {
		runErr = scanErr
	}
	return lines, runErr
}

func (r *Runner) scanPipe(pipe io.Reader, out chan<- string) error {
	scanner := bufio.NewScanner(pipe)
	buf := make([]byte, 0, bufio.MaxScanTokenSize)
	scanner.Buffer(buf, r.maxLineLength)

	for scanner.Scan() {
		out <- scanner.Text()
	}
	if err := scanner.Err(); err != nil && !isIgnorableReadError(err) {
		return fmt.Errorf("read tool output: %w", err)
	}
	return nil
}

// isIgnorableReadError filters the read failures that fall out of normal
// process teardown, e.g. the far end of a pipe closing first.
func isIgnorableReadError(err error) bool {
	return errors.Is(err, io.EOF) ||
		strings.Contains(err.Error(), "file already closed") ||
		strings.Contains(err.Error(), "broken pipe")
}

// exitCodeOf maps a Run error to the exit code reported in the Result:
// the child's own code when it ran, 127 for a missing executable, -1 for a
// signal death, 1 for anything else.
func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code, ok := exitStatus(exitErr); ok {
			return code
		}
		return 1
	}

	if isNotFoundError(err) {
		return 127
	}
	return 1
}

// isNotFoundError reports whether the error means the executable is
// missing. String fallbacks cover wrapped platform errors that lose the
// exec.ErrNotFound sentinel.
func isNotFoundError(err error) bool {
	if errors.Is(err, exec.ErrNotFound) {
		return true
	}
	errStr := err.Error()
	if strings.Contains(errStr, "executable file not found") {
		return true
	}
	if runtime.GOOS != "windows" && strings.Contains(errStr, "no such file or directory") {
		return true
	}
	return false
}
