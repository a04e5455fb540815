// Package cli wires the ueup commands together.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/uetools/ueup/internal/config"
	"github.com/uetools/ueup/internal/logging"
	"github.com/uetools/ueup/internal/report"
	"github.com/uetools/ueup/pkg/runner"
)

// app carries the global flag values and the handles every command needs.
// One instance lives for the duration of a single Execute call.
type app struct {
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool
	useTUI     bool

	log    *logrus.Logger
	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

// NewRootCmd builds the command tree. Streams are injectable for tests;
// pass nil for the os defaults.
func NewRootCmd(stdout, stderr io.Writer, stdin io.Reader) *cobra.Command {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if stdin == nil {
		stdin = os.Stdin
	}
	a := &app{stdout: stdout, stderr: stderr, stdin: stdin}

	root := &cobra.Command{
		Use:   "ueup",
		Short: "Build an Unreal Engine project and open it in Rider",
		Long: `ueup wraps the Unreal Engine batch scripts: it regenerates project
files, runs an editor build through UnrealBuildTool, extracts the errors
and warnings from the build log, and opens the project in JetBrains Rider.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.log = logging.New(logging.Options{
				Verbose: a.verbose,
				Quiet:   a.quiet,
				NoColor: a.noColor,
				Output:  stderr,
			})
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ./ueup.yaml, then the user config dir)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress streamed tool output")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVar(&a.useTUI, "tui", false, "full-screen pipeline view (requires a terminal)")

	root.AddCommand(
		newOpenCmd(a),
		newBuildCmd(a),
		newGenerateCmd(a),
		newAnalyzeCmd(a),
		newInitCmd(a),
		newVersionCmd(a),
	)
	return root
}

// Execute runs the CLI and maps the outcome to a process exit code:
// a tool's own non-zero code is passed through, a missing executable is
// 127, everything else is 1.
func Execute() int {
	root := NewRootCmd(os.Stdout, os.Stderr, os.Stdin)
	err := root.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintf(os.Stderr, "ueup: %v\n", err)

	var exitErr *runner.ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.Is(err, runner.ErrToolNotFound):
		return 127
	default:
		return 1
	}
}

// colorEnabled reports whether styled output should be produced: color is
// off for --no-color and for non-terminal stdout.
func (a *app) colorEnabled() bool {
	if a.noColor {
		return false
	}
	f, ok := a.stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// reportStyles picks the reporter palette for the current terminal.
func (a *app) reportStyles() *report.Styles {
	if a.colorEnabled() {
		return report.DefaultStyles()
	}
	return report.MonochromeStyles()
}

// loadConfig reads either the pinned --config file or the first file on
// the search path.
func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		return config.LoadFrom(a.configPath)
	}
	return config.Load()
}

// tuiUsable reports whether --tui can actually drive a full-screen view.
func (a *app) tuiUsable() bool {
	if !a.useTUI {
		return false
	}
	f, ok := a.stdout.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		a.log.Warn("--tui ignored: stdout is not a terminal")
		return false
	}
	return true
}
