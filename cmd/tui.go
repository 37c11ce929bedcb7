package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/stayask/internal/tui"
	"github.com/theirongolddev/stayask/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Full-screen chat interface",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	rt, err := bootstrap()
	if err != nil {
		return err
	}
	defer rt.close()

	theme.SetActive(rt.cfg.Appearance.Theme)

	// Honor NO_COLOR; otherwise use the richest profile the terminal reports.
	if termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	} else {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
	}

	// The TUI draws its own spinner.
	sess := rt.newSession(nil)
	app := tui.NewApp(cmd.Context(), sess, rt.cfg.OpenAI.Model)
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err = p.Run()
	// A question may still be in flight after esc; it must settle before
	// the session is summarized.
	app.Shutdown()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	printSummary(os.Stdout, sess)
	return nil
}
