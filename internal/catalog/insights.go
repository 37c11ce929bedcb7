package catalog

import (
	"sort"

	"github.com/theirongolddev/stayask/internal/model"
)

// CountryCount is the number of properties in one country.
type CountryCount struct {
	Country string `json:"country" yaml:"country"`
	Count   int    `json:"count" yaml:"count"`
}

// Insights holds computed analytics over the catalog.
type Insights struct {
	TotalProperties int             `json:"total_properties" yaml:"total_properties"`
	AveragePrice    float64         `json:"average_price" yaml:"average_price"`
	MinPrice        float64         `json:"min_price" yaml:"min_price"`
	MaxPrice        float64         `json:"max_price" yaml:"max_price"`
	Cheapest        *model.Property `json:"cheapest,omitempty" yaml:"cheapest,omitempty"`
	MostExpensive   *model.Property `json:"most_expensive,omitempty" yaml:"most_expensive,omitempty"`
	TotalBedrooms   int             `json:"total_bedrooms" yaml:"total_bedrooms"`
	ByCountry       []CountryCount  `json:"by_country" yaml:"by_country"` // sorted by count desc, then name
}

// Summarize computes price and location statistics. Properties with a zero
// price are excluded from the price figures.
func Summarize(props []model.Property) Insights {
	in := Insights{TotalProperties: len(props)}

	byCountry := make(map[string]int)
	var total float64
	priced := 0

	for i := range props {
		p := &props[i]
		in.TotalBedrooms += p.Bedrooms
		if c := p.Country(); c != "" {
			byCountry[c]++
		}
		if p.PricePerNight <= 0 {
			continue
		}
		priced++
		total += p.PricePerNight
		if in.Cheapest == nil || p.PricePerNight < in.Cheapest.PricePerNight {
			in.Cheapest = p
		}
		if in.MostExpensive == nil || p.PricePerNight > in.MostExpensive.PricePerNight {
			in.MostExpensive = p
		}
	}

	if priced > 0 {
		in.AveragePrice = total / float64(priced)
		in.MinPrice = in.Cheapest.PricePerNight
		in.MaxPrice = in.MostExpensive.PricePerNight
	}

	in.ByCountry = make([]CountryCount, 0, len(byCountry))
	for c, n := range byCountry {
		in.ByCountry = append(in.ByCountry, CountryCount{Country: c, Count: n})
	}
	sort.Slice(in.ByCountry, func(i, j int) bool {
		if in.ByCountry[i].Count != in.ByCountry[j].Count {
			return in.ByCountry[i].Count > in.ByCountry[j].Count
		}
		return in.ByCountry[i].Country < in.ByCountry[j].Country
	})

	return in
}
