package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/theirongolddev/stayask/internal/cli"
	"github.com/theirongolddev/stayask/internal/prompt"
	"github.com/theirongolddev/stayask/internal/session"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question loop (default command)",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	sess := rt.newSession(cli.NewSpinner(os.Stderr))

	fmt.Println()
	fmt.Println(cli.RenderTitle("STAYASK  Rental catalog assistant"))
	fmt.Printf("  %d properties loaded · model %s · timeout %s\n",
		len(rt.props), rt.cfg.OpenAI.Model, rt.cfg.OpenAI.Timeout())
	fmt.Println(cli.Muted("  Type a question, `help` for examples, `stats` for costs, `exit` to quit."))
	fmt.Println()

	return chatLoop(cmd.Context(), sess, os.Stdin, os.Stdout)
}

// chatLoop reads one question per line until exit, end of input or ctx
// cancellation, then prints the session summary. Blank lines are ignored.
// Lines have no length limit.
func chatLoop(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	var readErr error
loop:
	for {
		fmt.Fprint(out, cli.Accent("> "))

		var next lineResult
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			break loop
		case next, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(out)
			break loop
		}
		if next.err != nil {
			readErr = next.err
			fmt.Fprintln(out)
			break loop
		}

		line := strings.TrimSpace(next.line)
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit", "q":
			break loop
		case "help":
			printHelp(out)
			continue
		case "stats":
			printStats(out, sess)
			continue
		}

		res, err := sess.Answer(ctx, line)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, cli.RenderResult(res))
		fmt.Fprintln(out)
		if ctx.Err() != nil {
			break loop
		}
	}

	printSummary(out, sess)
	if readErr != nil {
		return fmt.Errorf("reading input: %w", readErr)
	}
	return nil
}

type lineResult struct {
	line string
	err  error
}

// readLines delivers input lines on the returned channel, which is closed at
// end of input. Reading happens on its own goroutine so an interrupt is not
// stuck behind a blocked read. It stops once done is closed.
func readLines(in io.Reader, done <-chan struct{}) <-chan lineResult {
	ch := make(chan lineResult)
	go func() {
		defer close(ch)
		r := bufio.NewReader(in)
		for {
			line, err := r.ReadString('\n')
			if line != "" {
				select {
				case ch <- lineResult{line: line}:
				case <-done:
					return
				}
			}
			if err == nil {
				continue
			}
			if !errors.Is(err, io.EOF) {
				select {
				case ch <- lineResult{err: err}:
				case <-done:
				}
			}
			return
		}
	}()
	return ch
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.Accent("  Try asking:"))
	for _, q := range prompt.ExampleQuestions {
		fmt.Fprintf(out, "    %s\n", q)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.Muted("  Commands: help, stats, exit (or quit, q)"))
	fmt.Fprintln(out)
}

func printStats(out io.Writer, sess *session.Session) {
	fmt.Fprintln(out)
	if !sess.CostTracking() {
		fmt.Fprintf(out, "  %d questions asked · cost tracking is off\n\n", sess.Questions())
		return
	}
	fmt.Fprintf(out, "  %s\n\n", cli.RenderTotals(sess.Questions(), sess.Totals()))
}

// printSummary prints the close-of-session summary when one is available.
func printSummary(out io.Writer, sess *session.Session) {
	sum, ok := sess.Close()
	if !ok {
		fmt.Fprintln(out, cli.Muted("  Goodbye."))
		return
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderSummary(sum))
	fmt.Fprintln(out)
}
