package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/stayask/internal/model"
)

func TestFormatCost(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.000000"},
		{650*0.0000015 + 18*0.000002, "$0.001011"},
		{0.0006, "$0.000600"},
		{1.5, "$1.500000"},
	}
	for _, tt := range tests {
		if got := FormatCost(tt.in); got != tt.want {
			t.Errorf("FormatCost(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{668, "668"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{18, "$18"},
		{165.5, "$165.50"},
		{1200, "$1,200"},
		{99.999, "$100.00"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMillis(t *testing.T) {
	if got := FormatMillis(850); got != "850ms" {
		t.Errorf("FormatMillis(850) = %q", got)
	}
	if got := FormatMillis(1234); got != "1.23s" {
		t.Errorf("FormatMillis(1234) = %q", got)
	}
}

func TestFormatTokens(t *testing.T) {
	if got := FormatTokens(1234); got != "1.2K" {
		t.Errorf("FormatTokens(1234) = %q", got)
	}
	if got := FormatTokens(999); got != "999" {
		t.Errorf("FormatTokens(999) = %q", got)
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Model", "Input / 1K"},
		Rows: [][]string{
			{"gpt-3.5-turbo", "$0.0015"},
			{"gpt-4", "$0.03"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "gpt-3.5-turbo") || !strings.Contains(out, "$0.03") {
		t.Fatalf("missing cells:\n%s", out)
	}
}

func TestRenderResult(t *testing.T) {
	ok := RenderResult(model.Result{
		Answer:         "Rio Beach House at $18/night",
		QuestionNumber: 1,
		ResponseTimeMs: 250,
		Cost:           &model.CostEntry{InputTokens: 650, OutputTokens: 18, TotalTokens: 668, TotalCost: 0.001011},
	})
	for _, want := range []string{"Rio Beach House", "#1", "250ms", "668 tokens", "$0.001011"} {
		if !strings.Contains(ok, want) {
			t.Errorf("result missing %q:\n%s", want, ok)
		}
	}

	failed := RenderResult(model.Result{
		Answer:         "Sorry",
		QuestionNumber: 2,
		Failure:        &model.Failure{Kind: model.FailureTimeout, Message: "no response within 30s"},
	})
	if !strings.Contains(failed, "timeout: no response within 30s") {
		t.Errorf("failure not rendered:\n%s", failed)
	}
	if strings.Contains(failed, "tokens") {
		t.Errorf("failed result should carry no cost:\n%s", failed)
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(model.SessionSummary{
		TotalQueries:        3,
		TotalCost:           0.0006,
		TotalTokens:         model.TokenTotals{Input: 1200, Output: 300, Total: 1500},
		AverageCostPerQuery: 0.0002,
	})
	for _, want := range []string{"$0.000600", "$0.000200", "1,500"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestSpinner_DisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, false)
	s.Start("Thinking")
	s.Stop()
	if buf.Len() != 0 {
		t.Fatalf("disabled spinner wrote %q", buf.String())
	}
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(&buf, true)
	s.fps = time.Millisecond
	s.Start("Thinking")
	time.Sleep(10 * time.Millisecond)
	s.Stop()
	s.Stop()

	if !strings.Contains(buf.String(), "Thinking...") {
		t.Fatalf("expected label in output, got %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\r\033[K") {
		t.Fatalf("expected line clear at the end, got %q", buf.String())
	}
}

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
