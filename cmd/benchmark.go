package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/theirongolddev/stayask/internal/cli"
	"github.com/theirongolddev/stayask/internal/config"
	"github.com/theirongolddev/stayask/internal/model"
	"github.com/theirongolddev/stayask/internal/prompt"
	"github.com/theirongolddev/stayask/internal/session"
	"github.com/theirongolddev/stayask/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagRuns    int
	flagNoStore bool
	flagLimit   int
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Run the example questions and report latency and cost",
	RunE:  runBenchmark,
}

var benchmarkHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored benchmark runs",
	RunE:  runBenchmarkHistory,
}

func init() {
	benchmarkCmd.Flags().IntVar(&flagRuns, "runs", 1, "Number of runs, each in a fresh session")
	benchmarkCmd.Flags().BoolVar(&flagNoStore, "no-store", false, "Do not save results to the benchmark history")
	benchmarkHistoryCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show (0 for all)")
	benchmarkCmd.AddCommand(benchmarkHistoryCmd)
	rootCmd.AddCommand(benchmarkCmd)
}

// benchmarkDBPath returns the benchmark history database path.
func benchmarkDBPath() string {
	return filepath.Join(config.CacheDir(), "benchmarks.db")
}

func runBenchmark(cmd *cobra.Command, _ []string) error {
	if flagRuns < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", flagRuns)
	}

	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	var st *store.Store
	if !flagNoStore {
		st, err = store.Open(benchmarkDBPath())
		if err != nil {
			// History is optional; the benchmark itself still runs.
			rt.logger.Warn("benchmark history unavailable", zap.Error(err))
			fmt.Fprintf(os.Stderr, "  History unavailable, results will not be saved\n")
		} else {
			defer st.Close()
		}
	}

	for i := 1; i <= flagRuns; i++ {
		sess := rt.newSession(nil)
		run := benchmarkRun(cmd.Context(), sess, rt.cfg.OpenAI.Model, i, os.Stderr)

		renderBenchmarkRun(run, i, flagRuns)

		if st != nil {
			if _, err := st.SaveRun(run); err != nil {
				return fmt.Errorf("saving benchmark run: %w", err)
			}
		}
	}

	if st != nil {
		fmt.Println(cli.Muted("  Saved to " + benchmarkDBPath() + ". See `stayask benchmark history`."))
		fmt.Println()
	}
	return nil
}

// benchmarkRun asks every example question in one session.
func benchmarkRun(ctx context.Context, sess *session.Session, modelName string, n int, progress io.Writer) model.BenchmarkRun {
	run := model.BenchmarkRun{
		ID:        sess.ID(),
		StartedAt: time.Now(),
		Model:     modelName,
	}

	total := len(prompt.ExampleQuestions)
	for i, q := range prompt.ExampleQuestions {
		fmt.Fprintf(progress, "\r  Run %d [%d/%d]", n, i+1, total)

		res, err := sess.Answer(ctx, q)
		br := model.BenchmarkResult{
			QuestionNumber: i + 1,
			Question:       q,
			ResponseTimeMs: res.ResponseTimeMs,
			Error:          res.Error(),
		}
		if err != nil {
			br.Error = err.Error()
		}
		if res.Cost != nil {
			br.InputTokens = res.Cost.InputTokens
			br.OutputTokens = res.Cost.OutputTokens
			br.TotalCost = res.Cost.TotalCost
		}
		run.Results = append(run.Results, br)
	}
	fmt.Fprint(progress, "\r\033[K")

	if sum, ok := sess.Close(); ok {
		run.Summary = sum
	}
	return run
}

func renderBenchmarkRun(run model.BenchmarkRun, n, of int) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BENCHMARK  Run %d of %d  %s", n, of, run.Model)))
	fmt.Println()

	rows := make([][]string, 0, len(run.Results))
	latencies := make([]float64, 0, len(run.Results))
	for _, r := range run.Results {
		status := "ok"
		if r.Error != "" {
			status = "failed"
		}
		rows = append(rows, []string{
			strconv.Itoa(r.QuestionNumber),
			r.Question,
			status,
			cli.FormatMillis(r.ResponseTimeMs),
			cli.FormatNumber(r.InputTokens),
			cli.FormatNumber(r.OutputTokens),
			cli.FormatCost(r.TotalCost),
		})
		latencies = append(latencies, float64(r.ResponseTimeMs))
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"#", "Question", "Status", "Time", "In", "Out", "Cost"},
		Rows:     rows,
		LeftCols: 3,
	}))
	fmt.Println()

	ok := run.Successes()
	fmt.Printf("  Answered:    %d/%d (%s)\n", ok, len(run.Results),
		cli.FormatPercent(float64(ok)/float64(max(len(run.Results), 1))))
	fmt.Printf("  Avg latency: %s  %s\n",
		cli.FormatMillis(int64(run.AverageResponseMs())), cli.RenderSparkline(latencies))
	fmt.Printf("  Total cost:  %s (avg %s per answered question)\n",
		cli.FormatCost(run.Summary.TotalCost), cli.FormatCost(run.Summary.AverageCostPerQuery))
	fmt.Println()
}

func runBenchmarkHistory(_ *cobra.Command, _ []string) error {
	st, err := store.Open(benchmarkDBPath())
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.Runs(flagLimit)
	if err != nil {
		return fmt.Errorf("loading benchmark history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("\n  No benchmark runs stored yet. Run `stayask benchmark` first.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("BENCHMARK HISTORY"))
	fmt.Println()

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Model,
			fmt.Sprintf("%d/%d", r.Successes(), len(r.Results)),
			cli.FormatMillis(int64(r.AverageResponseMs())),
			cli.FormatNumber(r.Summary.TotalTokens.Total),
			cli.FormatCost(r.Summary.TotalCost),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"Run", "Started", "Model", "Answered", "Avg time", "Tokens", "Cost"},
		Rows:     rows,
		LeftCols: 3,
	}))
	fmt.Println()
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
