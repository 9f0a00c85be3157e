package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/HendryAvila/clarify/internal/watch"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		local   bool
		include []string
	)

	cmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Re-analyze files whenever they are saved",
		Long: `Watch files or directories and print the ambiguities of each file when
it is saved. With analysis.auto_analyze set, the named files are analyzed
once at startup. With analysis.analyze_on_save unset, clarify stops after
that first pass.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			analyzer, err := a.analyzer(local)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if a.cfg.Analysis.AutoAnalyze {
				for _, p := range args {
					if info, err := os.Stat(p); err == nil && !info.IsDir() {
						data, err := os.ReadFile(p)
						if err != nil {
							return err
						}
						printReport(out, watch.Report{Path: p, Result: analyzer.Analyze(cmd.Context(), string(data))})
					}
				}
			}
			if !a.cfg.Analysis.AnalyzeOnSave {
				return nil
			}

			w, err := watch.New(analyzer, func(r watch.Report) { printReport(out, r) },
				watch.WithDebounce(a.cfg.Analysis.Debounce),
				watch.WithFilter(watch.NewPatternFilter(include, watch.DefaultExclude)),
				watch.WithLogger(a.logger.Named("watch")),
			)
			if err != nil {
				return err
			}
			if err := w.Add(args...); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("watching", zap.Strings("paths", args))
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("watching %d path(s), Ctrl+C to stop", len(args))))

			if err := w.Run(ctx); err != nil && !errors.Is(err, ctx.Err()) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "use the local heuristics only")
	cmd.Flags().StringSliceVar(&include, "include", nil, "only analyze files matching these globs (e.g. *.md)")
	return cmd
}

func printReport(w io.Writer, r watch.Report) {
	name := filepath.Base(r.Path)
	fmt.Fprintln(w, dimStyle.Render(time.Now().Format("15:04:05")), userStyle.Render(name))
	if r.Err != nil {
		fmt.Fprintln(w, categoryStyle.Render("error:"), r.Err)
		return
	}
	renderResult(w, r.Result)
}
