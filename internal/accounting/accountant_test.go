package accounting

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/stayask/internal/config"
	"github.com/theirongolddev/stayask/internal/model"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	inRate  = 0.0000015
	outRate = 0.000002
)

func newTestAccountant() *Accountant {
	return New(config.DefaultPricing["gpt-3.5-turbo"], nil)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-12
}

func TestPrice_Linear(t *testing.T) {
	a := newTestAccountant()
	cases := [][2]int64{{0, 0}, {1, 0}, {0, 1}, {650, 18}, {12_345, 6_789}, {1_000_000, 250_000}}
	for _, c := range cases {
		f := a.Price(c[0], c[1])
		want := float64(c[0])*inRate + float64(c[1])*outRate
		if !almostEqual(f.TotalCost, want) {
			t.Errorf("Price(%d, %d).TotalCost = %g, want %g", c[0], c[1], f.TotalCost, want)
		}
		if !almostEqual(f.InputCost+f.OutputCost, f.TotalCost) {
			t.Errorf("Price(%d, %d): input+output != total", c[0], c[1])
		}
	}
}

func TestPrice_ZeroIsZero(t *testing.T) {
	if f := newTestAccountant().Price(0, 0); f.TotalCost != 0 {
		t.Fatalf("Price(0, 0).TotalCost = %g, want 0", f.TotalCost)
	}
}

func TestPrice_NegativeClampedToZero(t *testing.T) {
	f := newTestAccountant().Price(-10, -3)
	if f.TotalCost != 0 {
		t.Fatalf("Price(-10, -3).TotalCost = %g, want 0", f.TotalCost)
	}
}

func TestEstimateTokens(t *testing.T) {
	u := EstimateTokens(strings.Repeat("q", 40), strings.Repeat("a", 80))
	if u.InputTokens != 260 {
		t.Errorf("InputTokens = %d, want 260", u.InputTokens)
	}
	if u.OutputTokens != 20 {
		t.Errorf("OutputTokens = %d, want 20", u.OutputTokens)
	}

	// ceil, not floor: 1001 chars -> 251 tokens, 1 char -> 1 token
	u = EstimateTokens("x", "y")
	if u.InputTokens != 251 || u.OutputTokens != 1 {
		t.Errorf("EstimateTokens(x, y) = %+v, want 251/1", u)
	}
}

func TestRecord_FallbackEstimatesAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := New(config.DefaultPricing["gpt-3.5-turbo"], zap.New(core))

	e := a.Record(strings.Repeat("q", 40), strings.Repeat("a", 80), model.Usage{}, 120, time.Now())
	if !e.Estimated {
		t.Fatal("entry should be marked estimated")
	}
	if e.InputTokens != 260 || e.OutputTokens != 20 || e.TotalTokens != 280 {
		t.Fatalf("tokens = %d/%d/%d, want 260/20/280", e.InputTokens, e.OutputTokens, e.TotalTokens)
	}
	if !almostEqual(e.TotalCost, 260*inRate+20*outRate) {
		t.Fatalf("TotalCost = %g", e.TotalCost)
	}
	if logs.FilterLevelExact(zapcore.DebugLevel).Len() != 1 {
		t.Fatalf("expected one debug log line for the fallback, got %d", logs.Len())
	}
}

func TestRecord_ReportedUsageNotEstimated(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := New(config.DefaultPricing["gpt-3.5-turbo"], zap.New(core))

	e := a.Record("q", "a", model.Usage{InputTokens: 0, OutputTokens: 5}, 1, time.Now())
	if e.Estimated {
		t.Fatal("one non-zero count is reported usage, not a fallback")
	}
	if e.InputTokens != 0 || e.OutputTokens != 5 {
		t.Fatalf("tokens = %d/%d, want 0/5", e.InputTokens, e.OutputTokens)
	}
	if logs.Len() != 0 {
		t.Fatalf("unexpected log lines: %d", logs.Len())
	}
}

func TestRecord_TotalsMatchEntries(t *testing.T) {
	a := newTestAccountant()
	usages := []model.Usage{
		{InputTokens: 650, OutputTokens: 18},
		{InputTokens: 700, OutputTokens: 40},
		{},
		{InputTokens: 1234, OutputTokens: 321},
		{InputTokens: 5, OutputTokens: 5},
	}
	for i, u := range usages {
		a.Record("question", "answer text", u, int64(100+i), time.Now())
	}

	if a.Len() != len(usages) {
		t.Fatalf("Len = %d, want %d", a.Len(), len(usages))
	}

	var sumCost float64
	var sumIn, sumOut int64
	for _, e := range a.Entries() {
		sumCost += e.TotalCost
		sumIn += e.InputTokens
		sumOut += e.OutputTokens
	}

	tot := a.Totals()
	if tot.TotalCost != sumCost {
		t.Errorf("TotalCost = %g, sum of entries = %g", tot.TotalCost, sumCost)
	}
	if tot.InputTokens != sumIn || tot.OutputTokens != sumOut || tot.TotalTokens != sumIn+sumOut {
		t.Errorf("token totals = %+v, want %d/%d", tot, sumIn, sumOut)
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	a := newTestAccountant()
	a.Record("q", "a", model.Usage{InputTokens: 1, OutputTokens: 1}, 1, time.Now())

	entries := a.Entries()
	entries[0].TotalCost = 99
	if a.Entries()[0].TotalCost == 99 {
		t.Fatal("Entries must not expose the internal log")
	}
}

func TestSummary(t *testing.T) {
	// 0.0001, 0.0002, 0.0003 at $0.002/1K output tokens.
	a := New(config.ModelPricing{InputPer1K: 0, OutputPer1K: 0.002}, nil)
	for _, out := range []int64{50, 100, 150} {
		a.Record("q", "a", model.Usage{OutputTokens: out}, 10, time.Now())
	}

	s := a.Summary()
	if s.TotalQueries != 3 {
		t.Fatalf("TotalQueries = %d, want 3", s.TotalQueries)
	}
	if !almostEqual(s.TotalCost, 0.0006) {
		t.Errorf("TotalCost = %g, want 0.0006", s.TotalCost)
	}
	if !almostEqual(s.AverageCostPerQuery, 0.0002) {
		t.Errorf("AverageCostPerQuery = %g, want 0.0002", s.AverageCostPerQuery)
	}
	if s.TotalTokens.Output != 300 || s.TotalTokens.Total != 300 {
		t.Errorf("TotalTokens = %+v, want 300 output", s.TotalTokens)
	}
	if s.AverageTokensPerQuery != 100 {
		t.Errorf("AverageTokensPerQuery = %g, want 100", s.AverageTokensPerQuery)
	}
}

func TestSummary_Empty(t *testing.T) {
	s := newTestAccountant().Summary()
	if s.TotalQueries != 0 || s.AverageCostPerQuery != 0 || s.AverageTokensPerQuery != 0 {
		t.Fatalf("empty summary = %+v", s)
	}
}

func TestPreview(t *testing.T) {
	short := "What's the cheapest property?"
	if got := Preview(short); got != short {
		t.Errorf("Preview(short) = %q", got)
	}

	exact := strings.Repeat("x", 50)
	if got := Preview(exact); got != exact {
		t.Errorf("Preview(50 chars) should not truncate, got %q", got)
	}

	long := strings.Repeat("ü", 60)
	got := Preview(long)
	if want := strings.Repeat("ü", 50) + "..."; got != want {
		t.Errorf("Preview(60 runes) = %q, want %q", got, want)
	}
}
