package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/stayask/internal/config"
	"github.com/theirongolddev/stayask/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupValues holds the wizard answers as the form edits them.
type setupValues struct {
	apiKey       string
	model        string
	timeout      string
	theme        string
	costTracking bool
}

func newSetupValues(cfg config.Config) setupValues {
	return setupValues{
		model:        cfg.OpenAI.Model,
		timeout:      strconv.Itoa(cfg.OpenAI.TimeoutSec),
		theme:        cfg.Appearance.Theme,
		costTracking: cfg.Session.CostTracking,
	}
}

// apply copies the answers into cfg. An empty API key keeps the current one.
func (v setupValues) apply(cfg *config.Config) error {
	if key := strings.TrimSpace(v.apiKey); key != "" {
		cfg.OpenAI.APIKey = key
	}
	if v.model != "" {
		cfg.OpenAI.Model = v.model
	}
	secs, err := parseTimeout(v.timeout)
	if err != nil {
		return err
	}
	cfg.OpenAI.TimeoutSec = secs
	if theme.Known(v.theme) {
		cfg.Appearance.Theme = v.theme
	}
	cfg.Session.CostTracking = v.costTracking
	return nil
}

func parseTimeout(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("timeout must be a positive number of seconds, got %q", s)
	}
	return n, nil
}

func newSetupForm(vals *setupValues, existingKey, path string) *huh.Form {
	keyDesc := "Stored in " + path + " with 0600 permissions."
	if existingKey != "" {
		keyDesc = "Current: " + config.MaskAPIKey(existingKey) + ". Leave blank to keep it."
	}

	modelOpts := huh.NewOptions(config.KnownModels()...)
	if _, known := config.LookupPricing(vals.model); !known && vals.model != "" {
		modelOpts = append(modelOpts, huh.NewOption(vals.model+" (custom)", vals.model))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to stayask").
				Description("Answer a few questions to create your config file."),
			huh.NewInput().
				Title("OpenAI API key").
				Description(keyDesc).
				EchoMode(huh.EchoModePassword).
				Value(&vals.apiKey).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" && existingKey == "" {
						return errors.New("an API key is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Chat model").
				Options(modelOpts...).
				Value(&vals.model),
			huh.NewInput().
				Title("Response timeout (seconds)").
				Value(&vals.timeout).
				Validate(func(s string) error {
					_, err := parseTimeout(s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.theme),
			huh.NewConfirm().
				Title("Track token cost for each answer?").
				Value(&vals.costTracking),
		),
	)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults. Setup may create the file.
	path := configPath()
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}

	vals := newSetupValues(cfg)
	if err := newSetupForm(&vals, cfg.OpenAI.APIKey, path).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled; nothing was saved.")
			return nil
		}
		return err
	}

	if err := vals.apply(&cfg); err != nil {
		return err
	}
	if err := config.SaveFile(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", path)
	fmt.Println("  Run `stayask health` to check the connection, or `stayask` to start asking.")
	fmt.Println()
	return nil
}
