package catalog

import (
	"sort"

	"github.com/theirongolddev/stayask/internal/model"
)

// PriceTier buckets properties by nightly price relative to the catalog.
type PriceTier int

const (
	TierBudget PriceTier = iota
	TierMid
	TierLuxury
)

func (t PriceTier) String() string {
	switch t {
	case TierBudget:
		return "budget"
	case TierMid:
		return "mid"
	case TierLuxury:
		return "luxury"
	}
	return "unknown"
}

// Tiers assigns each property a tier by price tercile. The returned slice is
// parallel to props.
func Tiers(props []model.Property) []PriceTier {
	tiers := make([]PriceTier, len(props))
	if len(props) == 0 {
		return tiers
	}

	prices := make([]float64, len(props))
	for i, p := range props {
		prices[i] = p.PricePerNight
	}
	sort.Float64s(prices)
	low := prices[len(prices)/3]
	high := prices[(2*len(prices))/3]

	for i, p := range props {
		switch {
		case p.PricePerNight < low:
			tiers[i] = TierBudget
		case p.PricePerNight < high:
			tiers[i] = TierMid
		default:
			tiers[i] = TierLuxury
		}
	}
	return tiers
}

// SelectDiverse picks up to limit properties, filling round-robin from the
// budget, mid and luxury tiers so every price range is represented. Catalog
// order is preserved within a tier. limit <= 0 or limit >= len(props) returns
// every property.
func SelectDiverse(props []model.Property, limit int) []model.Property {
	if limit <= 0 || limit >= len(props) {
		out := make([]model.Property, len(props))
		copy(out, props)
		return out
	}

	tiers := Tiers(props)
	buckets := make([][]model.Property, 3)
	for i, p := range props {
		buckets[tiers[i]] = append(buckets[tiers[i]], p)
	}

	out := make([]model.Property, 0, limit)
	for len(out) < limit {
		progressed := false
		for t := range buckets {
			if len(buckets[t]) == 0 || len(out) == limit {
				continue
			}
			out = append(out, buckets[t][0])
			buckets[t] = buckets[t][1:]
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return out
}
