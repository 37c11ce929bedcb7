// Package model defines domain types for stayask properties, queries and costs.
package model

import "strings"

// Property is one rental listing from the catalog. Read-only after load.
type Property struct {
	ID            string  `json:"id" yaml:"id"`
	Title         string  `json:"title" yaml:"title"`
	Description   string  `json:"description" yaml:"description"`
	PricePerNight float64 `json:"price_per_night" yaml:"price_per_night"`
	Location      string  `json:"location" yaml:"location"`
	Address       string  `json:"address" yaml:"address"`
	Bedrooms      int     `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms     int     `json:"bathrooms" yaml:"bathrooms"`
	Parking       int     `json:"parking" yaml:"parking"`
}

// Country returns the part of Location after the last comma.
func (p Property) Country() string {
	if i := strings.LastIndex(p.Location, ","); i >= 0 {
		return strings.TrimSpace(p.Location[i+1:])
	}
	return strings.TrimSpace(p.Location)
}
