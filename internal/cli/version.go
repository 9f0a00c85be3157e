package cli

import (
	"fmt"

	"github.com/HendryAvila/clarify/internal/service"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the clarify version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clarify v%s (commit %s, built %s)\n", service.Version, Commit, Date)
		},
	}
}
