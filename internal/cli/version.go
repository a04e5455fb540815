package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uetools/ueup/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ueup version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "ueup %s (commit %s, built %s)\n",
				version.Version, version.CommitHash, version.BuildDate)
		},
	}
}
