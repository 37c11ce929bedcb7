package cmd

import (
	"fmt"

	"github.com/theirongolddev/stayask/internal/cli"
	"github.com/theirongolddev/stayask/internal/config"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show token pricing for known models",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	active := config.NormalizeModelName(cfg.OpenAI.Model)

	fmt.Println()
	fmt.Println(cli.RenderTitle("MODEL PRICING  USD"))
	fmt.Println()

	rows := make([][]string, 0, len(config.DefaultPricing)+1)
	for _, name := range config.KnownModels() {
		rows = append(rows, pricingRow(name, cfg.PricingFor(name), name == active))
	}
	if _, known := config.LookupPricing(cfg.OpenAI.Model); !known {
		rows = append(rows, []string{"---"})
		rows = append(rows, pricingRow(cfg.OpenAI.Model+" (fallback)", cfg.PricingFor(cfg.OpenAI.Model), true))
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Model", "Input / 1K", "Output / 1K", "Input / token", "Output / token"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Println(cli.Muted("  * active model. Override rates under [pricing.overrides] in " + config.Path()))
	return nil
}

func pricingRow(name string, p config.ModelPricing, active bool) []string {
	if active {
		name = "* " + name
	}
	return []string{
		name,
		fmt.Sprintf("$%g", p.InputPer1K),
		fmt.Sprintf("$%g", p.OutputPer1K),
		fmt.Sprintf("$%.7f", p.InputRate()),
		fmt.Sprintf("$%.7f", p.OutputRate()),
	}
}
