package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/HendryAvila/clarify/internal/dialogue"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		thread      string
		constraints []string
	)

	cmd := &cobra.Command{
		Use:   "generate <goal>",
		Short: "Generate code for a clarified thread",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cons, err := parsePairs(constraints)
			if err != nil {
				return err
			}
			gen, err := a.client().GenerateCode(cmd.Context(), dialogue.GenerateRequest{
				ThreadID:    thread,
				Goal:        strings.Join(args, " "),
				Constraints: cons,
			})
			if err != nil {
				return err
			}
			renderGenerated(cmd.OutOrStdout(), gen)
			return nil
		},
	}

	cmd.Flags().StringVar(&thread, "thread", "", "thread to generate for")
	cmd.Flags().StringArrayVarP(&constraints, "constraint", "c", nil, "constraint as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("thread")
	return cmd
}

func renderGenerated(w io.Writer, gen *dialogue.Generated) {
	fmt.Fprintln(w, headerStyle.Render("Code"))
	fmt.Fprintln(w, strings.TrimRight(gen.Code, "\n"))
	fmt.Fprintln(w, headerStyle.Render("Rationale"))
	fmt.Fprintln(w, gen.Rationale)
	if gen.Tests != "" {
		fmt.Fprintln(w, headerStyle.Render("Tests"))
		fmt.Fprintln(w, strings.TrimRight(gen.Tests, "\n"))
	}
}
