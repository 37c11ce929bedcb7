package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/stayask/internal/accounting"
	"github.com/theirongolddev/stayask/internal/cli"
	"github.com/theirongolddev/stayask/internal/config"
	"github.com/theirongolddev/stayask/internal/llm"
	"github.com/theirongolddev/stayask/internal/prompt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check configuration, catalog and API connectivity",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

type healthCheck struct {
	name   string
	ok     bool
	detail string
}

func (h healthCheck) row() []string {
	status := "ok"
	if !h.ok {
		status = "FAIL"
	}
	return []string{h.name, status, h.detail}
}

func runHealth(cmd *cobra.Command, _ []string) error {
	var checks []healthCheck
	add := func(name string, err error, detail string) bool {
		if err != nil {
			detail = err.Error()
		}
		checks = append(checks, healthCheck{name: name, ok: err == nil, detail: detail})
		return err == nil
	}

	cfg, err := loadConfig()
	configOK := add("Config", err, "resolved")
	if configOK {
		configOK = add("Settings", cfg.Validate(), fmt.Sprintf("model %s, timeout %s", cfg.OpenAI.Model, cfg.OpenAI.Timeout()))
	}

	props, err := loadCatalog(cfg.Catalog)
	if add("Catalog", err, fmt.Sprintf("%d properties", len(props))) {
		system := prompt.NewBuilder(props, true).SystemPrompt()
		usage := accounting.EstimateTokens(system, "")
		cost := accounting.New(cfg.PricingFor(cfg.OpenAI.Model), nil).Price(usage.InputTokens, 0)
		add("Prompt", nil, fmt.Sprintf("%s chars, ~%s tokens, ~%s input per question",
			cli.FormatNumber(int64(len([]rune(system)))),
			cli.FormatNumber(usage.InputTokens),
			cli.FormatCost(cost.TotalCost)))
	}

	if configOK {
		latency, err := pingAPI(cmd.Context(), cfg)
		add("API", err, fmt.Sprintf("%s reachable in %s", cfg.OpenAI.BaseURL, cli.FormatMillis(latency.Milliseconds())))
	} else {
		checks = append(checks, healthCheck{name: "API", detail: "skipped: fix configuration first"})
	}

	rows := make([][]string, 0, len(checks))
	failed := 0
	for _, c := range checks {
		rows = append(rows, c.row())
		if !c.ok {
			failed++
		}
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("STAYASK HEALTH"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers:  []string{"Check", "Status", "Detail"},
		Rows:     rows,
		LeftCols: 3,
	}))
	fmt.Println()

	if failed > 0 {
		return fmt.Errorf("%d health check(s) failed", failed)
	}
	return nil
}

// pingAPI confirms the endpoint answers with the configured key.
func pingAPI(ctx context.Context, cfg config.Config) (time.Duration, error) {
	client, err := llm.NewClient(cfg.OpenAI.APIKey, llm.WithBaseURL(cfg.OpenAI.BaseURL))
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.OpenAI.Timeout())
	defer cancel()

	start := time.Now()
	err = client.Ping(ctx)
	switch {
	case errors.Is(err, llm.ErrUnauthorized):
		return 0, errors.New("API key rejected")
	case errors.Is(err, context.DeadlineExceeded):
		return 0, fmt.Errorf("no response within %s", cfg.OpenAI.Timeout())
	case err != nil:
		return 0, err
	}
	return time.Since(start), nil
}
