package cmd

import (
	"fmt"
	"sort"

	"github.com/theirongolddev/stayask/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := configPath()
	fmt.Printf("  Config file: %s\n", path)
	if config.Exists() || flagConfig != "" {
		fmt.Println("  Status: loaded (environment and flags applied on top)")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [OpenAI]")
	if cfg.OpenAI.APIKey != "" {
		fmt.Printf("    API key:     %s\n", config.MaskAPIKey(cfg.OpenAI.APIKey))
	} else {
		fmt.Println("    API key:     not configured")
	}
	fmt.Printf("    Base URL:    %s\n", cfg.OpenAI.BaseURL)
	fmt.Printf("    Model:       %s\n", cfg.OpenAI.Model)
	fmt.Printf("    Max tokens:  %d\n", cfg.OpenAI.MaxTokens)
	fmt.Printf("    Temperature: %.2f\n", cfg.OpenAI.Temperature)
	fmt.Printf("    Timeout:     %s\n", cfg.OpenAI.Timeout())
	fmt.Println()

	fmt.Println("  [Catalog]")
	if cfg.Catalog.Path != "" {
		fmt.Printf("    Path:           %s\n", cfg.Catalog.Path)
	} else {
		fmt.Println("    Path:           bundled dataset")
	}
	fmt.Printf("    Max properties: %d\n", cfg.Catalog.MaxProperties)
	fmt.Println()

	fmt.Println("  [Session]")
	fmt.Printf("    Cost tracking: %v\n", cfg.Session.CostTracking)
	fmt.Printf("    Prompt cache:  %v\n", cfg.Session.PromptCache)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	fmt.Println()

	if len(cfg.Pricing.Overrides) > 0 {
		fmt.Println("  [Pricing overrides]")
		names := make([]string, 0, len(cfg.Pricing.Overrides))
		for name := range cfg.Pricing.Overrides {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			p := cfg.PricingFor(name)
			fmt.Printf("    %s: $%g in / $%g out per 1K\n", name, p.InputPer1K, p.OutputPer1K)
		}
		fmt.Println()
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problem: %s\n\n", err)
	}
	fmt.Println("  Run `stayask setup` to reconfigure.")
	return nil
}
