// Package accounting prices token usage and keeps the per-session cost log.
package accounting

import (
	"time"
	"unicode/utf8"

	"github.com/theirongolddev/stayask/internal/config"
	"github.com/theirongolddev/stayask/internal/model"

	"go.uber.org/zap"
)

const (
	// charsPerToken is the heuristic used when usage is not reported.
	charsPerToken = 4
	// promptOverheadChars approximates the system prompt in estimates.
	promptOverheadChars = 1000
	// previewRunes is the question preview length kept in each entry.
	previewRunes = 50
)

// Fragment is the monetary part of a cost entry.
type Fragment struct {
	InputCost  float64
	OutputCost float64
	TotalCost  float64
}

// Accountant converts token counts into cost and keeps the append-only log.
// It is owned by one session and is not safe for concurrent use.
type Accountant struct {
	pricing config.ModelPricing
	logger  *zap.Logger

	entries []model.CostEntry
	totals  model.SessionTotals
}

// New returns an Accountant using the given rate schedule.
func New(pricing config.ModelPricing, logger *zap.Logger) *Accountant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accountant{pricing: pricing, logger: logger}
}

// Pricing returns the rate schedule in use.
func (a *Accountant) Pricing() config.ModelPricing {
	return a.pricing
}

// Price computes cost for the given token counts. Negative counts are
// clamped to zero. No rounding is applied.
func (a *Accountant) Price(inputTokens, outputTokens int64) Fragment {
	inputTokens = max(inputTokens, 0)
	outputTokens = max(outputTokens, 0)

	in := float64(inputTokens) * a.pricing.InputRate()
	out := float64(outputTokens) * a.pricing.OutputRate()
	return Fragment{InputCost: in, OutputCost: out, TotalCost: in + out}
}

// EstimateTokens approximates usage at four characters per token, adding a
// fixed allowance for the system prompt on the input side.
func EstimateTokens(question, answer string) model.Usage {
	q := int64(utf8.RuneCountInString(question))
	a := int64(utf8.RuneCountInString(answer))
	return model.Usage{
		InputTokens:  ceilDiv(q+promptOverheadChars, charsPerToken),
		OutputTokens: ceilDiv(a, charsPerToken),
	}
}

// Entry builds a cost entry without recording it. When usage reports zero
// input and output tokens the counts are estimated and Estimated is set.
func (a *Accountant) Entry(question, answer string, usage model.Usage, elapsedMs int64, at time.Time) model.CostEntry {
	estimated := false
	if usage.InputTokens <= 0 && usage.OutputTokens <= 0 {
		usage = EstimateTokens(question, answer)
		estimated = true
		a.logger.Debug("token usage missing, cost is estimated",
			zap.Int64("input_tokens", usage.InputTokens),
			zap.Int64("output_tokens", usage.OutputTokens),
		)
	}
	usage.InputTokens = max(usage.InputTokens, 0)
	usage.OutputTokens = max(usage.OutputTokens, 0)

	f := a.Price(usage.InputTokens, usage.OutputTokens)
	return model.CostEntry{
		QuestionPreview: Preview(question),
		ResponseTimeMs:  elapsedMs,
		InputTokens:     usage.InputTokens,
		OutputTokens:    usage.OutputTokens,
		TotalTokens:     usage.InputTokens + usage.OutputTokens,
		InputCost:       f.InputCost,
		OutputCost:      f.OutputCost,
		TotalCost:       f.TotalCost,
		Timestamp:       at.UTC(),
		Estimated:       estimated,
	}
}

// Record prices one successful query, appends it to the log and updates the
// running totals.
func (a *Accountant) Record(question, answer string, usage model.Usage, elapsedMs int64, at time.Time) model.CostEntry {
	e := a.Entry(question, answer, usage, elapsedMs, at)
	a.entries = append(a.entries, e)

	a.totals.TotalCost += e.TotalCost
	a.totals.InputTokens += e.InputTokens
	a.totals.OutputTokens += e.OutputTokens
	a.totals.TotalTokens += e.TotalTokens
	return e
}

// Len returns the number of recorded entries.
func (a *Accountant) Len() int {
	return len(a.entries)
}

// Entries returns a copy of the cost log.
func (a *Accountant) Entries() []model.CostEntry {
	out := make([]model.CostEntry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Totals returns the running session totals.
func (a *Accountant) Totals() model.SessionTotals {
	return a.totals
}

// Summary derives the close-of-session view from the totals and log length.
// Averages are zero when nothing was recorded.
func (a *Accountant) Summary() model.SessionSummary {
	s := model.SessionSummary{
		TotalQueries: len(a.entries),
		TotalCost:    a.totals.TotalCost,
		TotalTokens: model.TokenTotals{
			Input:  a.totals.InputTokens,
			Output: a.totals.OutputTokens,
			Total:  a.totals.TotalTokens,
		},
	}
	if n := float64(len(a.entries)); n > 0 {
		s.AverageCostPerQuery = a.totals.TotalCost / n
		s.AverageTokensPerQuery = float64(a.totals.TotalTokens) / n
	}
	return s
}

// Preview returns the first 50 characters of a question, with "..." appended
// when it was cut.
func Preview(question string) string {
	if utf8.RuneCountInString(question) <= previewRunes {
		return question
	}
	return string([]rune(question)[:previewRunes]) + "..."
}

func ceilDiv(n, d int64) int64 {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
