package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uetools/ueup/internal/report"
	"github.com/uetools/ueup/internal/tui"
	"github.com/uetools/ueup/pkg/runner"
)

// newBuildCmd compiles the editor target and reports the diagnostics,
// without touching the IDE. The process exits with UnrealBuildTool's own
// exit code so CI can consume it directly.
func newBuildCmd(a *app) *cobra.Command {
	var skipGenerate bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the editor target and report errors and warnings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			w, err := newWorkflow(a, cfg)
			if err != nil {
				return err
			}

			var steps []tui.Step
			if !skipGenerate {
				steps = append(steps, w.generateStep())
			}
			steps = append(steps, w.buildStep())

			res, err := a.runSteps(cmd.Context(), "ueup build", steps)
			if err != nil {
				return err
			}
			if err := fatalError(steps, res); err != nil {
				return err
			}
			if w.buildSkipped {
				return nil
			}
			if w.summary == nil {
				// The build step never ran the tool, e.g. a bad project
				// path surfaced before the invocation.
				if err := res.FirstError(); err != nil {
					return err
				}
				return fmt.Errorf("build produced no output to analyze")
			}

			fmt.Fprintln(a.stdout)
			report.New(a.stdout, a.reportStyles()).Render(w.summary)

			if !w.summary.Succeeded() {
				code := w.summary.ExitCode
				if code < 0 {
					code = 1
				}
				return &runner.ExitError{Code: code}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipGenerate, "skip-generate", false, "do not regenerate project files first")
	return cmd
}
