// Package tui provides the interactive Bubble Tea chat interface for stayask.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/theirongolddev/stayask/internal/cli"
	"github.com/theirongolddev/stayask/internal/model"
	"github.com/theirongolddev/stayask/internal/prompt"
	"github.com/theirongolddev/stayask/internal/tui/components"
	"github.com/theirongolddev/stayask/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Answerer is the part of a session the chat needs.
type Answerer interface {
	Answer(ctx context.Context, question string) (model.Result, error)
	Totals() model.SessionTotals
	Questions() int
	CostTracking() bool
}

// answerMsg is sent when a question finishes. Totals are captured in the
// same goroutine as the answer so View never reads the session concurrently.
type answerMsg struct {
	result    model.Result
	err       error
	totals    model.SessionTotals
	questions int
}

// inflight tracks the question being answered so the session is only read
// after the answering goroutine has returned. Once closed, no new question
// may start.
type inflight struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (f *inflight) begin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.wg.Add(1)
	return true
}

func (f *inflight) end() { f.wg.Done() }

func (f *inflight) close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.wg.Wait()
}

type exchange struct {
	question string
	result   model.Result
	err      error
}

// App is the root Bubble Tea model.
type App struct {
	ctx       context.Context
	cancel    context.CancelFunc
	flight    *inflight
	sess      Answerer
	modelName string

	input   textinput.Model
	view    viewport.Model
	spinner spinner.Model

	history  []exchange
	pending  string
	busy     bool
	showHelp bool

	totals    model.SessionTotals
	questions int
	lastMs    int64

	width  int
	height int
	ready  bool
}

const (
	minTerminalWidth = 60
	headerHeight     = 4 // metric cards
	footerHeight     = 3 // input + status bar + gap
)

// NewApp creates the chat model around an existing session. Call Shutdown
// once the program exits and before reading the session again.
func NewApp(ctx context.Context, sess Answerer, modelName string) App {
	t := theme.Active
	ctx, cancel := context.WithCancel(ctx)

	ti := textinput.New()
	ti.Placeholder = "Ask about the properties... (? for help, esc to quit)"
	ti.CharLimit = 500
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(t.Accent)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(t.Accent)

	return App{
		ctx:       ctx,
		cancel:    cancel,
		flight:    &inflight{},
		sess:      sess,
		modelName: modelName,
		input:     ti,
		spinner:   sp,
	}
}

// Shutdown cancels the question in flight, if any, and waits for its
// goroutine to return. Afterwards the session is no longer touched by the app.
func (a App) Shutdown() {
	a.cancel()
	a.flight.close()
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.spinner.Tick)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		h := max(msg.Height-headerHeight-footerHeight, 3)
		if !a.ready {
			a.view = viewport.New(msg.Width, h)
			a.ready = true
		} else {
			a.view.Width = msg.Width
			a.view.Height = h
		}
		a.input.Width = max(msg.Width-4, 10)
		a.refreshTranscript()
		return a, nil

	case answerMsg:
		a.busy = false
		a.totals = msg.totals
		a.questions = msg.questions
		a.lastMs = msg.result.ResponseTimeMs
		a.history = append(a.history, exchange{question: a.pending, result: msg.result, err: msg.err})
		a.pending = ""
		a.refreshTranscript()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		if a.busy {
			a.refreshTranscript()
		}
		return a, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			a.cancel()
			return a, tea.Quit
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			a.view, cmd = a.view.Update(msg)
			return a, cmd
		case "?":
			if a.input.Value() == "" {
				a.showHelp = !a.showHelp
				a.refreshTranscript()
				return a, nil
			}
		case "enter":
			return a.submit()
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submit handles one line of input. Questions are ignored while a previous
// one is still in flight.
func (a App) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(a.input.Value())
	if line == "" || a.busy {
		return a, nil
	}
	a.input.Reset()

	switch strings.ToLower(line) {
	case "exit", "quit", "q":
		a.cancel()
		return a, tea.Quit
	case "help":
		a.showHelp = true
		a.refreshTranscript()
		return a, nil
	}

	a.showHelp = false
	a.busy = true
	a.pending = line
	a.refreshTranscript()
	return a, askCmd(a.ctx, a.flight, a.sess, line)
}

func askCmd(ctx context.Context, flight *inflight, sess Answerer, question string) tea.Cmd {
	return func() tea.Msg {
		if !flight.begin() {
			return nil
		}
		defer flight.end()

		res, err := sess.Answer(ctx, question)
		return answerMsg{
			result:    res,
			err:       err,
			totals:    sess.Totals(),
			questions: sess.Questions(),
		}
	}
}

func (a *App) refreshTranscript() {
	if !a.ready {
		return
	}
	a.view.SetContent(a.renderTranscript())
	a.view.GotoBottom()
}

func (a App) renderTranscript() string {
	t := theme.Active
	width := max(a.width-2, 20)

	questionStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	answerStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Width(width).PaddingLeft(2)
	metaStyle := lipgloss.NewStyle().Foreground(t.TextDim).PaddingLeft(2)
	errStyle := lipgloss.NewStyle().Foreground(t.Red).PaddingLeft(2)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder

	if len(a.history) == 0 && !a.busy {
		b.WriteString(mutedStyle.Render("  Ask anything about the rental catalog."))
		b.WriteString("\n\n")
	}

	for _, ex := range a.history {
		b.WriteString(questionStyle.Render("> " + ex.question))
		b.WriteString("\n")
		if ex.err != nil {
			b.WriteString(errStyle.Render(ex.err.Error()))
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(answerStyle.Render(ex.result.Answer))
		b.WriteString("\n")
		b.WriteString(metaStyle.Render(resultMeta(ex.result)))
		b.WriteString("\n")
		if ex.result.Failed() {
			b.WriteString(errStyle.Render(fmt.Sprintf("%s: %s", ex.result.Failure.Kind, ex.result.Failure.Message)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if a.busy {
		b.WriteString(questionStyle.Render("> " + a.pending))
		b.WriteString("\n  ")
		b.WriteString(a.spinner.View())
		b.WriteString(mutedStyle.Render(" Thinking..."))
		b.WriteString("\n")
	}

	if a.showHelp {
		b.WriteString(renderHelp())
	}
	return b.String()
}

func resultMeta(r model.Result) string {
	parts := []string{fmt.Sprintf("#%d", r.QuestionNumber), cli.FormatMillis(r.ResponseTimeMs)}
	if r.Cost != nil {
		parts = append(parts,
			cli.FormatNumber(r.Cost.TotalTokens)+" tokens",
			cli.FormatCost(r.Cost.TotalCost))
		if r.Cost.Estimated {
			parts = append(parts, "estimated")
		}
	}
	return strings.Join(parts, " · ")
}

func renderHelp() string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	item := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(title.Render("  Try asking:"))
	b.WriteString("\n")
	for _, q := range prompt.ExampleQuestions {
		b.WriteString(item.Render("    " + q))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(item.Render("  Type exit, quit or q (or press esc) to leave."))
	b.WriteString("\n")
	return b.String()
}

// View implements tea.Model.
func (a App) View() string {
	if !a.ready {
		return "\n  " + a.spinner.View() + " Starting..."
	}
	if a.width < minTerminalWidth {
		return fmt.Sprintf("\n  Terminal too narrow (%d cols, need %d).", a.width, minTerminalWidth)
	}

	cost := "off"
	if a.sess.CostTracking() {
		cost = cli.FormatCost(a.totals.TotalCost)
	}
	latency := "-"
	if a.questions > 0 {
		latency = cli.FormatMillis(a.lastMs)
	}
	header := components.MetricCardRow([]components.Metric{
		{Label: "Questions", Value: cli.FormatNumber(int64(a.questions))},
		{Label: "Tokens", Value: cli.FormatNumber(a.totals.TotalTokens)},
		{Label: "Session cost", Value: cost},
		{Label: "Last answer", Value: latency},
	}, a.width)

	status := components.RenderStatusBar(a.width,
		" [enter]ask  [?]help  [pgup/pgdn]scroll  [esc]quit",
		a.modelName+" ")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		a.view.View(),
		a.input.View(),
		status,
	)
}
