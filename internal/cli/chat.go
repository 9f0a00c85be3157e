package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/HendryAvila/clarify/internal/dialogue"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const chatHelp = `Type a message to send it. Commands:
  /memory            list project memory
  /remember key=val  save a fact to project memory
  /generate goal     generate code for this thread
  /thread            show the thread id
  /history           show the transcript
  /quit              leave`

func newChatCmd(a *app) *cobra.Command {
	var thread string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Clarify a request in an interactive dialogue",
		Long: `Start (or continue with --thread) a clarification dialogue with the
clarify service. Each line you type is one turn.

` + chatHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := dialogue.NoThread()
			if thread != "" {
				start = dialogue.Thread(thread)
			}

			sess, err := dialogue.StartOrContinue(a.client(), start,
				dialogue.WithProjectID(a.cfg.ProjectID),
				dialogue.WithLogger(a.logger.Named("dialogue")),
			)
			if err != nil {
				return err
			}
			return runChat(cmd, sess, a.logger)
		},
	}

	cmd.Flags().StringVar(&thread, "thread", "", "continue an existing thread")
	return cmd
}

// runChat reads turns from the command's input until EOF or /quit.
func runChat(cmd *cobra.Command, sess *dialogue.Session, logger *zap.Logger) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("thread %s, project %s. /help for commands.", sess.ThreadID(), sess.ProjectID())))

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, userStyle.Render("> "))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := chatCommand(ctx, out, sess, line)
			if err != nil {
				fmt.Fprintln(out, categoryStyle.Render("error:"), err)
			}
			if quit {
				return nil
			}
			continue
		}

		before := len(sess.Transcript())
		turns, err := sess.SubmitTurn(ctx, line)
		if err != nil {
			logger.Debug("turn failed", zap.Error(err))
			fmt.Fprintln(out, categoryStyle.Render("error:"), err)
			continue
		}
		// Skip the user turn just typed.
		renderTurns(out, turns[before+1:])
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func chatCommand(ctx context.Context, out io.Writer, sess *dialogue.Session, line string) (bool, error) {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		fmt.Fprintln(out, chatHelp)

	case "/thread":
		fmt.Fprintln(out, sess.ThreadID())

	case "/history":
		renderTurns(out, sess.Transcript())

	case "/memory":
		entries, err := sess.Recall(ctx)
		if err != nil {
			return false, err
		}
		renderEntries(out, sess.ProjectID(), entries)

	case "/remember":
		pairs, err := parsePairs([]string{rest})
		if err != nil {
			return false, err
		}
		for k, v := range pairs {
			entries, err := sess.Remember(ctx, k, v.(string))
			if err != nil {
				return false, err
			}
			renderEntries(out, sess.ProjectID(), entries)
		}

	case "/generate":
		if rest == "" {
			return false, errors.New("usage: /generate <goal>")
		}
		gen, err := sess.Generate(ctx, rest, nil)
		if err != nil {
			return false, err
		}
		renderGenerated(out, gen)

	default:
		return false, fmt.Errorf("unknown command %s", name)
	}
	return false, nil
}
