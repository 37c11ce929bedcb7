package cli

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/stayask/internal/model"
)

// Muted renders secondary text such as hints and prompts.
func Muted(s string) string { return mutedStyle.Render(s) }

// Warn renders a warning line.
func Warn(s string) string { return warnStyle.Render(s) }

// Error renders an error line.
func Error(s string) string { return errorStyle.Render(s) }

// Accent renders headings inside free-form output.
func Accent(s string) string { return headerStyle.Render(s) }

// RenderResult renders one answered (or failed) question: the answer, then a
// metadata line with latency and, when priced, tokens and cost.
func RenderResult(r model.Result) string {
	var b strings.Builder

	b.WriteString(answerStyle.Render(r.Answer))
	b.WriteString("\n")

	meta := []string{
		fmt.Sprintf("#%d", r.QuestionNumber),
		FormatMillis(r.ResponseTimeMs),
	}
	if r.Cost != nil {
		tokens := fmt.Sprintf("%s tokens (%s in / %s out)",
			FormatNumber(r.Cost.TotalTokens),
			FormatNumber(r.Cost.InputTokens),
			FormatNumber(r.Cost.OutputTokens))
		meta = append(meta, tokenStyle.Render(tokens), costStyle.Render(FormatCost(r.Cost.TotalCost)))
		if r.Cost.Estimated {
			meta = append(meta, warnStyle.Render("estimated"))
		}
	}
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("\n")

	if r.Failed() {
		b.WriteString("  ")
		b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %s", r.Failure.Kind, r.Failure.Message)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderTotals renders the running totals as a one-line status.
func RenderTotals(questions int, t model.SessionTotals) string {
	return fmt.Sprintf("%s questions · %s tokens (%s in / %s out) · %s",
		FormatNumber(int64(questions)),
		FormatNumber(t.TotalTokens),
		FormatNumber(t.InputTokens),
		FormatNumber(t.OutputTokens),
		costStyle.Render(FormatCost(t.TotalCost)),
	)
}

// RenderSummary renders the end-of-session summary table.
func RenderSummary(s model.SessionSummary) string {
	return RenderTable(Table{
		Title:   "Session Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Queries", FormatNumber(int64(s.TotalQueries))},
			{"Input tokens", FormatNumber(s.TotalTokens.Input)},
			{"Output tokens", FormatNumber(s.TotalTokens.Output)},
			{"Total tokens", FormatNumber(s.TotalTokens.Total)},
			{"Total cost", FormatCost(s.TotalCost)},
			{"Avg cost / query", FormatCost(s.AverageCostPerQuery)},
			{"Avg tokens / query", fmt.Sprintf("%.1f", s.AverageTokensPerQuery)},
		},
	})
}
