package components

import (
	"strings"
	"testing"

	"github.com/theirongolddev/stayask/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for _, total := range []int{60, 81, 120, 203} {
		for n := 1; n <= 5; n++ {
			sum := 0
			for _, w := range LayoutRow(total, n) {
				sum += w
			}
			if sum != total {
				t.Fatalf("LayoutRow(%d, %d) sums to %d", total, n, sum)
			}
		}
	}
	if LayoutRow(80, 0) != nil {
		t.Fatal("LayoutRow with zero items should be nil")
	}
}

func TestMetricCardRowFillsWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	row := MetricCardRow([]Metric{
		{Label: "Questions", Value: "3"},
		{Label: "Tokens", Value: "1,500"},
		{Label: "Session cost", Value: "$0.000600"},
		{Label: "Last answer", Value: "820ms"},
	}, 100)

	lines := strings.Split(row, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4 (border, label, value, border)", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 100 {
			t.Errorf("line %d width = %d, want 100", i, w)
		}
	}
	if !strings.Contains(row, "$0.000600") {
		t.Error("cost value missing from header")
	}
	if !strings.Contains(row, "\x1b[") {
		t.Error("expected styled output")
	}
}

func TestRenderStatusBar(t *testing.T) {
	bar := RenderStatusBar(60, " [esc]quit", "gpt-3.5-turbo ")
	if w := lipgloss.Width(bar); w != 60 {
		t.Fatalf("status bar width = %d, want 60", w)
	}
	hints, info := strings.Index(bar, "[esc]quit"), strings.Index(bar, "gpt-3.5-turbo")
	if hints < 0 || info < 0 || hints > info {
		t.Errorf("expected hints before model name: %q", bar)
	}
}
