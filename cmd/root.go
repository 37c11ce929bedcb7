// Package cmd implements the stayask CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/theirongolddev/stayask/internal/accounting"
	"github.com/theirongolddev/stayask/internal/catalog"
	"github.com/theirongolddev/stayask/internal/config"
	"github.com/theirongolddev/stayask/internal/llm"
	"github.com/theirongolddev/stayask/internal/model"
	"github.com/theirongolddev/stayask/internal/prompt"
	"github.com/theirongolddev/stayask/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagConfig  string
	flagCatalog string
	flagModel   string
	flagTimeout int
	flagDebug   bool
	flagNoCost  bool
)

var rootCmd = &cobra.Command{
	Use:   "stayask",
	Short: "Ask questions about a vacation rental catalog",
	Long: "Answer natural-language questions about rental properties with an\n" +
		"OpenAI-compatible model, showing latency and token cost for every answer.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChat,
}

// Execute is the main entry point called from main.go. An interrupt or
// SIGTERM cancels the command context so chat can print its summary.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError prints err the way cobra would, unless the command already
// showed it to the user.
func reportError(w io.Writer, err error) {
	if errors.Is(err, errAnswerFailed) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "Property catalog JSON file (default: bundled dataset)")
	rootCmd.PersistentFlags().StringVarP(&flagModel, "model", "m", "", "Chat model to use")
	rootCmd.PersistentFlags().IntVarP(&flagTimeout, "timeout", "t", 0, "Response timeout in seconds")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoCost, "no-cost", false, "Disable token cost tracking")
}

// configPath is the config file in use: --config when given, else the default.
func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.Path()
}

// loadConfig resolves file and environment configuration, then applies
// command-line flags on top. The result is not validated.
func loadConfig() (config.Config, error) {
	cfg, err := config.Resolve(flagConfig)
	if err != nil {
		return cfg, err
	}
	applyFlags(&cfg)
	return cfg, nil
}

func applyFlags(cfg *config.Config) {
	if flagCatalog != "" {
		cfg.Catalog.Path = flagCatalog
	}
	if flagModel != "" {
		cfg.OpenAI.Model = flagModel
	}
	if flagTimeout != 0 {
		cfg.OpenAI.TimeoutSec = flagTimeout
	}
	if flagDebug {
		cfg.Logging.Level = "debug"
	}
	if flagNoCost {
		cfg.Session.CostTracking = false
	}
}

// runtime bundles what every question-answering command needs.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
	props  []model.Property
	client *llm.Client
}

// bootstrap performs the startup checks. Configuration and data-load errors
// are fatal here so no session is ever started with a bad setup.
func bootstrap() (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			return nil, fmt.Errorf("configuration error: %w (set it in .env, the environment, or run `stayask setup`)", err)
		}
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	props, err := loadCatalog(cfg.Catalog)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	logger.Debug("catalog loaded", zap.Int("properties", len(props)), zap.String("path", cfg.Catalog.Path))

	client, err := llm.NewClient(cfg.OpenAI.APIKey,
		llm.WithBaseURL(cfg.OpenAI.BaseURL),
		llm.WithModel(cfg.OpenAI.Model),
		llm.WithMaxTokens(cfg.OpenAI.MaxTokens),
		llm.WithTemperature(cfg.OpenAI.Temperature),
	)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	return &runtime{cfg: cfg, logger: logger, props: props, client: client}, nil
}

// loadCatalog reads the catalog and applies the max_properties cap, keeping
// catalog order.
func loadCatalog(cc config.CatalogConfig) ([]model.Property, error) {
	props, err := catalog.Load(cc.Path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	if cc.MaxProperties > 0 && len(props) > cc.MaxProperties {
		props = props[:cc.MaxProperties]
	}
	return props, nil
}

// newSession starts a fresh session with its own cost log.
func (r *runtime) newSession(ind session.Indicator) *session.Session {
	var acct *accounting.Accountant
	if r.cfg.Session.CostTracking {
		acct = accounting.New(r.cfg.PricingFor(r.cfg.OpenAI.Model), r.logger)
	}
	opts := session.Options{
		Timeout:      r.cfg.OpenAI.Timeout(),
		CostTracking: r.cfg.Session.CostTracking,
		Indicator:    ind,
	}
	builder := prompt.NewBuilder(r.props, r.cfg.Session.PromptCache)
	return session.New(opts, r.client, builder, acct, r.logger)
}

func (r *runtime) close() {
	_ = r.logger.Sync()
}
