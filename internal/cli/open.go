package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uetools/ueup/internal/config"
	"github.com/uetools/ueup/internal/report"
	"github.com/uetools/ueup/internal/tui"
)

// newOpenCmd is the full workflow: generate, build, report, open Rider.
// A failed build is reported but does not stop Rider from opening; a
// failed generate does, since stale project files are exactly what the
// IDE would then load.
func newOpenCmd(a *app) *cobra.Command {
	var skipGenerate bool
	var skipBuild bool

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Generate, build, and open the project in Rider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if errors.Is(err, config.ErrNotFound) {
				cfg, err = a.createConfigInteractively()
			}
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
			if !skipBuild {
				steps = append(steps, w.buildStep())
			}
			steps = append(steps, w.riderStep())

			res, err := a.runSteps(cmd.Context(), "ueup open", steps)
			if err != nil {
				return err
			}

			if w.summary != nil {
				fmt.Fprintln(a.stdout)
				report.New(a.stdout, a.reportStyles()).Render(w.summary)
				if !w.summary.Succeeded() {
					a.log.Warn("build failed, Rider was opened on the previous binaries")
				}
			}

			// The build step tolerates its own failure; any error left
			// here came from generate or the Rider launch and is fatal.
			return fatalError(steps, res)
		},
	}

	cmd.Flags().BoolVar(&skipGenerate, "skip-generate", false, "do not regenerate project files")
	cmd.Flags().BoolVar(&skipBuild, "skip-build", false, "do not compile, just open Rider")
	return cmd
}
