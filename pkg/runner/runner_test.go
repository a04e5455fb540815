package runner

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requirePOSIXShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestRunner_Run_When_ToolSucceeds(t *testing.T) {
	requirePOSIXShell(t)

	r := New(Config{})
	result, err := r.Run(context.Background(), Spec{
		Label:   "greet",
		Command: "echo",
		Args:    []string{"hello"},
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, []string{"hello"}, result.Lines)
	assert.Greater(t, result.Duration, time.Duration(0))
}

func TestRunner_Run_When_ToolExitsNonZero(t *testing.T) {
	requirePOSIXShell(t)

	r := New(Config{})
	result, err := r.Run(context.Background(), Spec{
		Command: "sh",
		Args:    []string{"-c", "exit 3"},
	})

	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.ExitCode)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
}

func TestRunner_Run_When_ToolMissing(t *testing.T) {
	r := New(Config{})
	result, err := r.Run(context.Background(), Spec{
		Command: "ueup-no-such-tool-1f2e3d",
	})

	require.Error(t, err)
	require.NotNil(t, result)
	assert.ErrorIs(t, err, ErrToolNotFound)
	assert.Equal(t, 127, result.ExitCode)
}

func TestRunner_Run_When_BothStreamsCaptured(t *testing.T) {
	requirePOSIXShell(t)

	r := New(Config{})
	result, err := r.Run(context.Background(), Spec{
		Command: "sh",
		Args:    []string{"-c", "echo one; echo two 1>&2; echo three"},
	})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one", "two", "three"}, result.Lines)

	// Ordering within one stream is preserved even though the streams
	// interleave nondeterministically.
	var oneIdx, threeIdx int
	for i, line := range result.Lines {
		switch line {
		case "one":
			oneIdx = i
		case "three":
			threeIdx = i
		}
	}
	assert.Less(t, oneIdx, threeIdx)
}

func TestRunner_Run_When_DisplayEchoes(t *testing.T) {
	requirePOSIXShell(t)

	var display bytes.Buffer
	r := New(Config{Display: &display})

	_, err := r.Run(context.Background(), Spec{
		Command: "echo",
		Args:    []string{"live output"},
	})

	require.NoError(t, err)
	assert.Equal(t, "live output\n", display.String())
}

func TestRunner_Run_When_OnLineCallback(t *testing.T) {
	requirePOSIXShell(t)

	var got []string
	r := New(Config{OnLine: func(line string) { got = append(got, line) }})

	_, err := r.Run(context.Background(), Spec{
		Command: "sh",
		Args:    []string{"-c", "echo a; echo b"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestRunner_Run_When_ContextCanceled(t *testing.T) {
	requirePOSIXShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := New(Config{})
	result, err := r.Run(ctx, Spec{
		Command: "sh",
		Args:    []string{"-c", "sleep 5"},
	})

	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, -1, result.ExitCode)
}

func TestRunner_Run_When_WorkingDirectorySet(t *testing.T) {
	requirePOSIXShell(t)

	dir := t.TempDir()
	r := New(Config{})
	result, err := r.Run(context.Background(), Spec{
		Command: "pwd",
		Dir:     dir,
	})

	require.NoError(t, err)
	require.Len(t, result.Lines, 1)
	// Resolve symlinks on both sides; macOS tempdirs live under /private.
	assert.Contains(t, result.Lines[0], strings.TrimPrefix(dir, "/private"))
}

func TestResult_Output(t *testing.T) {
	r := &Result{Lines: []string{"a", "b", "c"}}
	assert.Equal(t, "a\nb\nc", r.Output())

	empty := &Result{}
	assert.Equal(t, "", empty.Output())
}

func TestExitCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: 0},
		{name: "not found", err: errors.New("exec: \"x\": executable file not found in $PATH"), want: 127},
		{name: "other error", err: errors.New("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeOf(tt.err); got != tt.want {
				t.Errorf("exitCodeOf(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestSpinner_StartAndStop(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(SpinnerConfig{
		Frames:   ASCIIFrames,
		Interval: 10 * time.Millisecond,
		Message:  "building",
		Writer:   &buf,
	})

	s.Start()
	time.Sleep(35 * time.Millisecond)
	s.UpdateMessage("still building")
	time.Sleep(25 * time.Millisecond)
	s.Stop()

	out := buf.String()
	assert.Contains(t, out, "building")
	assert.True(t, strings.HasSuffix(out, "\r\033[K"), "expected trailing line clear")

	// Stop on a stopped spinner is a no-op.
	s.Stop()
}

func TestNewSpinner_Defaults(t *testing.T) {
	s := NewSpinner(SpinnerConfig{})
	assert.Equal(t, DotFrames, s.frames)
	assert.Equal(t, 80*time.Millisecond, s.interval)
}
