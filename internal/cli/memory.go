package cli

import (
	"github.com/HendryAvila/clarify/internal/projectmem"
	"github.com/spf13/cobra"
)

func newMemoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Read and write project memory on the service",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the project's memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := projectmem.NewView(a.client(), a.cfg.ProjectID)
			entries, err := view.List(cmd.Context())
			if err != nil {
				return err
			}
			renderEntries(cmd.OutOrStdout(), view.ProjectID(), entries)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Save one fact to the project's memory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := projectmem.NewView(a.client(), a.cfg.ProjectID)
			entries, err := view.Upsert(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			renderEntries(cmd.OutOrStdout(), view.ProjectID(), entries)
			return nil
		},
	}

	cmd.AddCommand(list, set)
	return cmd
}
