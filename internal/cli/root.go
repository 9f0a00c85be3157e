// Package cli implements the clarify command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/HendryAvila/clarify/internal/analysis"
	"github.com/HendryAvila/clarify/internal/config"
	"github.com/HendryAvila/clarify/internal/logging"
	"github.com/HendryAvila/clarify/internal/remote"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Build metadata, set via ldflags.
var (
	Commit = "none"
	Date   = "unknown"
)

// app holds what every command shares. PersistentPreRunE fills it.
type app struct {
	cfgPath    string
	verbose    bool
	serviceURL string
	projectID  string

	cfg    config.Config
	logger *zap.Logger
}

// NewRootCmd builds the clarify command tree.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "clarify",
		Short: "Find the ambiguities in a requirement before it becomes code",
		Long: `clarify scans requirements, user stories and prompts for ambiguities
(vague terms, constraints without values, requirements without units,
compatibility claims without versions, missing error handling) and runs a
clarification dialogue with a clarify service until the request is clear
enough to generate code from.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "config file (default ~/.clarify/config.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.serviceURL, "service-url", "", "clarify service URL (overrides config)")
	flags.StringVarP(&a.projectID, "project", "p", "", "project id (overrides config)")

	root.AddCommand(
		newServeCmd(a),
		newMCPCmd(a),
		newDetectCmd(a),
		newSummarizeCmd(a),
		newChatCmd(a),
		newGenerateCmd(a),
		newMemoryCmd(a),
		newWatchCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command with the process arguments.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.serviceURL != "" {
		cfg.Service.URL = a.serviceURL
	}
	if a.projectID != "" {
		cfg.ProjectID = a.projectID
	}
	a.cfg = cfg

	logger, err := logging.New(logging.Verbose(cfg.Log, a.verbose))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// client returns a client for the configured service.
func (a *app) client() *remote.Client {
	return remote.New(a.cfg.Service.URL,
		remote.WithTimeout(a.cfg.Service.Timeout),
		remote.WithLogger(a.logger.Named("remote")),
	)
}

// analyzer returns the configured analysis policy. local forces the
// heuristic detector only.
func (a *app) analyzer(local bool) (*analysis.Analyzer, error) {
	policy, err := analysis.ParsePolicy(a.cfg.Analysis.Policy)
	if err != nil {
		return nil, err
	}
	var r analysis.Remote
	if !local && policy != analysis.PolicyLocal {
		r = a.client()
	}
	return analysis.New(r,
		analysis.WithPolicy(policy),
		analysis.WithMaxQuestions(a.cfg.Analysis.MaxQuestions),
		analysis.WithLogger(a.logger.Named("analysis")),
	), nil
}

// readInput returns the text named by args: a file path, "-" for stdin,
// or stdin when no argument is given. Inline text wins when set.
func readInput(cmd *cobra.Command, args []string, inline string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

// parsePairs turns k=v arguments into a map.
func parsePairs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("expected key=value, got %q", p)
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out, nil
}
