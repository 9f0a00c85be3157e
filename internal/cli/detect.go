package cli

import (
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newDetectCmd(a *app) *cobra.Command {
	var (
		text   string
		local  bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "detect [file|-]",
		Short: "List the ambiguities in a file, stdin or --text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args, text)
			if err != nil {
				return err
			}
			analyzer, err := a.analyzer(local)
			if err != nil {
				return err
			}

			result := analyzer.Analyze(cmd.Context(), input)
			a.logger.Debug("detect",
				zap.String("source", string(result.Source)),
				zap.Int("total", result.Total),
			)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"ambiguities": result.Findings,
					"total":       result.Total,
					"source":      result.Source,
					"clarity":     result.Clarity,
				})
			}
			renderResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "text to analyze instead of a file")
	cmd.Flags().BoolVar(&local, "local", false, "use the local heuristics only")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newSummarizeCmd(a *app) *cobra.Command {
	var (
		text  string
		local bool
	)

	cmd := &cobra.Command{
		Use:   "summarize [file|-]",
		Short: "Count the ambiguities in a document by category and message",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args, text)
			if err != nil {
				return err
			}

			if local {
				renderSummary(cmd.OutOrStdout(), ambiguity.Summarize(ambiguity.Detect(input)))
				return nil
			}

			items, err := a.client().Summarize(cmd.Context(), input)
			if err != nil {
				a.logger.Warn("remote summarize failed; using local heuristics", zap.Error(err))
				items = ambiguity.Summarize(ambiguity.Detect(input))
				fmt.Fprintln(cmd.ErrOrStderr(), dimStyle.Render("service unavailable, local heuristics used"))
			}
			renderSummary(cmd.OutOrStdout(), items)
			return nil
		},
	}

	cmd.Flags().StringVarP(&text, "text", "t", "", "text to summarize instead of a file")
	cmd.Flags().BoolVar(&local, "local", false, "use the local heuristics only")
	return cmd
}
