package config

import (
	"sort"
	"strings"
)

// ModelPricing holds per-1K-token prices for a model, in USD.
type ModelPricing struct {
	InputPer1K  float64
	OutputPer1K float64
}

// InputRate is the price of a single input token.
func (p ModelPricing) InputRate() float64 {
	return p.InputPer1K / 1000
}

// OutputRate is the price of a single output token.
func (p ModelPricing) OutputRate() float64 {
	return p.OutputPer1K / 1000
}

// PricingOverrides allows user-defined pricing for specific models.
type PricingOverrides struct {
	Overrides map[string]ModelPricingOverride `toml:"overrides,omitempty"`
}

// ModelPricingOverride holds per-model pricing overrides.
type ModelPricingOverride struct {
	InputPer1K  *float64 `toml:"input_per_1k,omitempty"`
	OutputPer1K *float64 `toml:"output_per_1k,omitempty"`
}

// FallbackModel is priced when a model is missing from the table.
const FallbackModel = "gpt-3.5-turbo"

// DefaultPricing maps model base names to their pricing.
var DefaultPricing = map[string]ModelPricing{
	"gpt-3.5-turbo":          {InputPer1K: 0.0015, OutputPer1K: 0.002},
	"gpt-3.5-turbo-instruct": {InputPer1K: 0.0015, OutputPer1K: 0.002},
	"gpt-4":                  {InputPer1K: 0.03, OutputPer1K: 0.06},
	"gpt-4-turbo":            {InputPer1K: 0.01, OutputPer1K: 0.03},
	"gpt-4o":                 {InputPer1K: 0.0025, OutputPer1K: 0.01},
	"gpt-4o-mini":            {InputPer1K: 0.00015, OutputPer1K: 0.0006},
}

// NormalizeModelName strips date suffixes from model identifiers.
// e.g., "gpt-4o-2024-08-06" -> "gpt-4o", "gpt-3.5-turbo-0125" -> "gpt-3.5-turbo"
func NormalizeModelName(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if _, ok := DefaultPricing[raw]; ok {
		return raw
	}

	// Drop trailing all-digit segments one at a time until a known model remains.
	parts := strings.Split(raw, "-")
	for len(parts) > 1 && isAllDigits(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
		candidate := strings.Join(parts, "-")
		if _, ok := DefaultPricing[candidate]; ok {
			return candidate
		}
	}

	return raw
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// LookupPricing returns the pricing for a model, normalizing the name first.
// Returns zero pricing and false if the model is unknown.
func LookupPricing(model string) (ModelPricing, bool) {
	p, ok := DefaultPricing[NormalizeModelName(model)]
	return p, ok
}

// PricingFor resolves the rate schedule for model, applying configured
// overrides. Unknown models fall back to FallbackModel rates.
func (c Config) PricingFor(model string) ModelPricing {
	p, ok := LookupPricing(model)
	if !ok {
		p = DefaultPricing[FallbackModel]
	}

	// An exact override wins over one keyed by the normalized name.
	o, ok := c.Pricing.Overrides[model]
	if !ok {
		o, ok = c.Pricing.Overrides[NormalizeModelName(model)]
	}
	if ok {
		if o.InputPer1K != nil {
			p.InputPer1K = *o.InputPer1K
		}
		if o.OutputPer1K != nil {
			p.OutputPer1K = *o.OutputPer1K
		}
	}
	return p
}

// KnownModels returns the priced model names in sorted order.
func KnownModels() []string {
	names := make([]string, 0, len(DefaultPricing))
	for name := range DefaultPricing {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
