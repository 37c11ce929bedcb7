package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned by Validate when no API key is configured.
var ErrMissingAPIKey = errors.New("config: OPENAI_API_KEY is not set")

// Config holds all stayask configuration.
type Config struct {
	OpenAI     OpenAIConfig     `toml:"openai"`
	Catalog    CatalogConfig    `toml:"catalog"`
	Session    SessionConfig    `toml:"session"`
	Appearance AppearanceConfig `toml:"appearance"`
	Logging    LoggingConfig    `toml:"logging"`
	Pricing    PricingOverrides `toml:"pricing"`
}

// OpenAIConfig holds the completion endpoint settings.
type OpenAIConfig struct {
	APIKey      string  `toml:"api_key,omitempty"`
	BaseURL     string  `toml:"base_url"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float64 `toml:"temperature"`
	TimeoutSec  int     `toml:"timeout_sec"`
}

// Timeout returns the response timeout as a duration.
func (c OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// CatalogConfig points at the property dataset.
type CatalogConfig struct {
	Path          string `toml:"path,omitempty"` // empty uses the bundled dataset
	MaxProperties int    `toml:"max_properties"` // 0 keeps every property
}

// SessionConfig toggles per-session behavior.
type SessionConfig struct {
	CostTracking bool `toml:"cost_tracking"`
	PromptCache  bool `toml:"prompt_cache"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		OpenAI: OpenAIConfig{
			BaseURL:     "https://api.openai.com/v1",
			Model:       "gpt-3.5-turbo",
			MaxTokens:   500,
			Temperature: 0.7,
			TimeoutSec:  30,
		},
		Session: SessionConfig{
			CostTracking: true,
			PromptCache:  true,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stayask")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stayask")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the XDG-compliant cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "stayask")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "stayask")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config file at path on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Resolve builds the effective configuration: defaults, then the config file
// at path (Path() when empty), then .env and process environment. An explicit
// path must exist; the default one may be absent. The result is not validated.
func Resolve(path string) (Config, error) {
	if path == "" {
		path = Path()
	} else if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), fmt.Errorf("config: %w", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}

	// A missing .env is normal; the process environment still applies.
	_ = godotenv.Load()

	if err := ApplyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables read through getenv onto cfg.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = strings.TrimSpace(v)
	}
	if v := getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAI.BaseURL = strings.TrimRight(strings.TrimSpace(v), "/")
	}
	if v := getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAI.Model = strings.TrimSpace(v)
	}
	if v := getenv("CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"OPENAI_MAX_TOKENS", &cfg.OpenAI.MaxTokens},
		{"RESPONSE_TIMEOUT", &cfg.OpenAI.TimeoutSec},
		{"MAX_PROPERTIES", &cfg.Catalog.MaxProperties},
	}
	for _, e := range ints {
		v := getenv(e.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", e.key, err)
		}
		*e.dst = n
	}

	if v := getenv("OPENAI_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("config: OPENAI_TEMPERATURE: %w", err)
		}
		cfg.OpenAI.Temperature = f
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"ENABLE_COST_TRACKING", &cfg.Session.CostTracking},
		{"ENABLE_PROMPT_CACHE", &cfg.Session.PromptCache},
	}
	for _, e := range bools {
		v := getenv(e.key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", e.key, err)
		}
		*e.dst = b
	}

	return nil
}

// Validate reports the first configuration error, if any.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.OpenAI.BaseURL == "" {
		return errors.New("config: openai.base_url is empty")
	}
	if c.OpenAI.Model == "" {
		return errors.New("config: openai.model is empty")
	}
	if c.OpenAI.TimeoutSec <= 0 {
		return fmt.Errorf("config: response timeout must be positive, got %d", c.OpenAI.TimeoutSec)
	}
	if c.OpenAI.MaxTokens <= 0 || c.OpenAI.MaxTokens > 32_000 {
		return fmt.Errorf("config: max_tokens must be in 1..32000, got %d", c.OpenAI.MaxTokens)
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		return fmt.Errorf("config: temperature must be in [0, 2], got %.2f", c.OpenAI.Temperature)
	}
	if c.Catalog.MaxProperties < 0 {
		return fmt.Errorf("config: max_properties must not be negative, got %d", c.Catalog.MaxProperties)
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: invalid log format %q: must be \"json\" or \"console\"", c.Logging.Format)
	}
	return nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path with owner-only permissions.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// MaskAPIKey shortens a key for display.
func MaskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
