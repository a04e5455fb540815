package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/uetools/ueup/internal/report"
	"github.com/uetools/ueup/pkg/ubtlog"
)

// newAnalyzeCmd runs the output analyzer over a saved build log, or over
// stdin when no file is given. It is the standalone face of the
// extraction logic the build command applies automatically.
func newAnalyzeCmd(a *app) *cobra.Command {
	var exitCode int

	cmd := &cobra.Command{
		Use:   "analyze [logfile]",
		Short: "Extract errors and warnings from a saved build log",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read log: %w", err)
				}
			} else {
				raw, err = io.ReadAll(a.stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			}

			summary := ubtlog.AnalyzeOutput(string(raw), exitCode)
			report.New(a.stdout, a.reportStyles()).Render(summary)
			return nil
		},
	}

	cmd.Flags().IntVar(&exitCode, "exit-code", 0, "exit code of the build that produced the log")
	return cmd
}
