package commands

import (
	"github.com/spf13/cobra"

	"github.com/erraggy/smithygen"
	"github.com/erraggy/smithygen/internal/cliutil"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the smithygen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cliutil.Writef(cmd.OutOrStdout(), "smithygen v%s\n", smithygen.Version())
		},
	}
}
