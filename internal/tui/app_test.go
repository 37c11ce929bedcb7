package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/stayask/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeSession struct {
	questions int
	totals    model.SessionTotals
	asked     []string
}

func (f *fakeSession) Answer(_ context.Context, q string) (model.Result, error) {
	f.questions++
	f.asked = append(f.asked, q)
	cost := &model.CostEntry{InputTokens: 650, OutputTokens: 18, TotalTokens: 668, TotalCost: 0.001011}
	f.totals.TotalCost += cost.TotalCost
	f.totals.TotalTokens += cost.TotalTokens
	return model.Result{
		Question:       q,
		Answer:         "Rio Beach House at $18/night",
		QuestionNumber: f.questions,
		ResponseTimeMs: 820,
		Cost:           cost,
	}, nil
}

func (f *fakeSession) Totals() model.SessionTotals { return f.totals }
func (f *fakeSession) Questions() int              { return f.questions }
func (f *fakeSession) CostTracking() bool          { return true }

func sized(t *testing.T, a App) App {
	t.Helper()
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m.(App)
}

func enter(t *testing.T, a App, line string) (App, tea.Cmd) {
	t.Helper()
	a.input.SetValue(line)
	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return m.(App), cmd
}

func TestSubmitAsksAndRendersAnswer(t *testing.T) {
	fs := &fakeSession{}
	a := sized(t, NewApp(context.Background(), fs, "gpt-3.5-turbo"))

	a, cmd := enter(t, a, "What's the cheapest property?")
	if !a.busy || cmd == nil {
		t.Fatal("expected a pending question")
	}

	// A second submit while busy is ignored.
	a, again := enter(t, a, "another")
	if again != nil {
		t.Fatal("submit while busy should not issue a command")
	}

	msg := cmd()
	m, _ := a.Update(msg)
	a = m.(App)

	if a.busy {
		t.Fatal("still busy after answer")
	}
	if len(fs.asked) != 1 || fs.asked[0] != "What's the cheapest property?" {
		t.Fatalf("asked = %v", fs.asked)
	}

	view := a.View()
	for _, want := range []string{"Rio Beach House", "$0.001011", "668", "gpt-3.5-turbo"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestExitCommandsQuit(t *testing.T) {
	for _, line := range []string{"exit", "quit", "q", "QUIT"} {
		a := sized(t, NewApp(context.Background(), &fakeSession{}, "m"))
		_, cmd := enter(t, a, line)
		if cmd == nil {
			t.Fatalf("%q: expected quit command", line)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%q: expected tea.QuitMsg", line)
		}
	}
}

func TestBlankAndHelpDoNotAsk(t *testing.T) {
	fs := &fakeSession{}
	a := sized(t, NewApp(context.Background(), fs, "m"))

	a, cmd := enter(t, a, "   ")
	if cmd != nil || a.busy {
		t.Fatal("blank line should be ignored")
	}

	a, cmd = enter(t, a, "help")
	if cmd != nil || !a.showHelp {
		t.Fatal("help should toggle the help panel without asking")
	}
	if !strings.Contains(a.View(), "Try asking") {
		t.Error("help panel not rendered")
	}
	if fs.questions != 0 {
		t.Fatalf("session asked %d questions", fs.questions)
	}
}

func TestNarrowTerminal(t *testing.T) {
	a := NewApp(context.Background(), &fakeSession{}, "m")
	m, _ := a.Update(tea.WindowSizeMsg{Width: 40, Height: 20})
	if !strings.Contains(m.(App).View(), "too narrow") {
		t.Error("expected narrow terminal notice")
	}
}

// slowSession blocks in Answer until its context is cancelled, then records
// the question the way a real session does.
type slowSession struct {
	started   chan struct{}
	questions int
	cancelled bool
}

func (s *slowSession) Answer(ctx context.Context, q string) (model.Result, error) {
	close(s.started)
	<-ctx.Done()
	s.questions++
	s.cancelled = true
	return model.Result{Question: q, QuestionNumber: s.questions}, nil
}

func (s *slowSession) Totals() model.SessionTotals { return model.SessionTotals{} }
func (s *slowSession) Questions() int              { return s.questions }
func (s *slowSession) CostTracking() bool          { return true }

func TestQuitMidAnswerWaitsForInflightQuestion(t *testing.T) {
	ss := &slowSession{started: make(chan struct{})}
	app := NewApp(context.Background(), ss, "m")
	a := sized(t, app)

	a, cmd := enter(t, a, "slow question")
	if cmd == nil {
		t.Fatal("expected a pending question")
	}

	// Bubble Tea runs commands on their own goroutine.
	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- cmd() }()
	<-ss.started

	_, quit := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := quit().(tea.QuitMsg); !ok {
		t.Fatal("esc should quit")
	}

	done := make(chan struct{})
	go func() {
		app.Shutdown()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Shutdown did not return after cancelling the question")
	}

	// The answering goroutine has returned, so the session is safe to read.
	if !ss.cancelled || ss.questions != 1 {
		t.Fatalf("cancelled=%v questions=%d", ss.cancelled, ss.questions)
	}
	if _, ok := (<-msgs).(answerMsg); !ok {
		t.Fatal("expected the in-flight command to report its answer")
	}
}

func TestQuestionAfterShutdownNeverAsks(t *testing.T) {
	fs := &fakeSession{}
	app := NewApp(context.Background(), fs, "m")
	a := sized(t, app)

	_, cmd := enter(t, a, "late question")
	if cmd == nil {
		t.Fatal("expected a pending question")
	}
	app.Shutdown()

	if msg := cmd(); msg != nil {
		t.Fatalf("cmd after shutdown returned %T", msg)
	}
	if fs.questions != 0 {
		t.Fatalf("session asked %d questions after shutdown", fs.questions)
	}
}
