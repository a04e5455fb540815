package cli

import (
	"github.com/spf13/cobra"

	"github.com/uetools/ueup/internal/engine"
	"github.com/uetools/ueup/pkg/runner"
)

// newGenerateCmd runs the project file generator by itself. Unlike the
// open pipeline, a missing generator script is an error here: the user
// asked for exactly this step.
func newGenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Regenerate the project files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			inst, err := engine.Locate(cfg.EnginePath)
			if err != nil {
				return err
			}
			plan, err := inst.GenerateProjectFiles()
			if err != nil {
				return err
			}

			var display = a.stdout
			var spin *runner.Spinner
			if a.quiet {
				display = nil
				spin = runner.NewSpinner(runner.SpinnerConfig{
					Message: "Generating project files",
					Writer:  a.stderr,
				})
				spin.Start()
			}

			run := runner.New(runner.Config{Display: display, Log: a.log})
			_, err = run.Run(cmd.Context(), runner.Spec{
				Label:   "generate",
				Command: plan.Script,
				Args:    plan.Args,
				Dir:     plan.Dir,
			})
			if spin != nil {
				spin.Stop()
			}
			return err
		},
	}
}
