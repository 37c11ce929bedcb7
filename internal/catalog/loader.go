// Package catalog loads and normalizes the rental property dataset.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/theirongolddev/stayask/internal/model"
)

// MaxDescriptionRunes bounds property descriptions after normalization.
const MaxDescriptionRunes = 500

// ErrEmpty is returned when a dataset contains no properties.
var ErrEmpty = errors.New("catalog: dataset contains no properties")

//go:embed data/properties.json
var bundled []byte

// Field aliases, in priority order. Source datasets disagree on naming.
var (
	idKeys          = []string{"id", "_id", "property_id"}
	titleKeys       = []string{"title", "name"}
	descriptionKeys = []string{"description", "summary"}
	priceKeys       = []string{"price", "price_per_night", "nightly_price", "pricePerNight"}
	addressKeys     = []string{"address", "street"}
	bedroomKeys     = []string{"bedrooms", "bedroom_count", "beds"}
	bathroomKeys    = []string{"bathrooms", "bathroom_count", "baths"}
	parkingKeys     = []string{"parking", "parking_spaces", "car_spaces", "garage"}
)

type rawRecord map[string]json.RawMessage

// Load reads the dataset at path. An empty path loads the bundled dataset.
func Load(path string) ([]model.Property, error) {
	data := bundled
	if path != "" {
		b, err := os.ReadFile(path) //nolint:gosec // path comes from user config
		if err != nil {
			return nil, fmt.Errorf("catalog: reading %s: %w", path, err)
		}
		data = b
	}
	return Parse(data)
}

// Parse decodes a JSON array of records, or an object with a "properties"
// array, into normalized properties in source order.
func Parse(data []byte) ([]model.Property, error) {
	var records []rawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		var wrapped struct {
			Properties []rawRecord `json:"properties"`
		}
		if werr := json.Unmarshal(data, &wrapped); werr != nil {
			return nil, fmt.Errorf("catalog: parsing dataset: %w", err)
		}
		records = wrapped.Properties
	}

	if len(records) == 0 {
		return nil, ErrEmpty
	}

	props := make([]model.Property, 0, len(records))
	for i, r := range records {
		p := normalize(r)
		if p.ID == "" {
			p.ID = fmt.Sprintf("P%03d", i+1)
		}
		props = append(props, p)
	}
	return props, nil
}

func normalize(r rawRecord) model.Property {
	p := model.Property{
		ID:            r.str(idKeys...),
		Title:         r.str(titleKeys...),
		Description:   truncateRunes(r.str(descriptionKeys...), MaxDescriptionRunes),
		PricePerNight: math.Max(0, r.number(priceKeys...)),
		Address:       r.str(addressKeys...),
		Bedrooms:      r.count(bedroomKeys...),
		Bathrooms:     r.count(bathroomKeys...),
		Parking:       r.count(parkingKeys...),
	}

	p.Location = r.str("location")
	if p.Location == "" {
		city, country := r.str("city"), r.str("country")
		switch {
		case city != "" && country != "":
			p.Location = city + ", " + country
		default:
			p.Location = city + country
		}
	}
	return p
}

// str returns the first key holding a string or number, as text.
func (r rawRecord) str(keys ...string) string {
	for _, k := range keys {
		raw, ok := r[k]
		if !ok || len(raw) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

// number returns the first key that parses as a number. Handles JSON numbers
// and strings like "$120" or "1,200.50". Returns 0 when nothing parses.
func (r rawRecord) number(keys ...string) float64 {
	for _, k := range keys {
		if v, ok := parseNumber(r[k]); ok {
			return v
		}
	}
	return 0
}

// count returns a non-negative integer facility count, 0 when absent.
func (r rawRecord) count(keys ...string) int {
	for _, k := range keys {
		if v, ok := parseNumber(r[k]); ok {
			if v < 0 {
				return 0
			}
			return int(v)
		}
	}
	return 0
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "$")
		s = strings.ReplaceAll(s, ",", "")
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v, true
		}
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		// "garage": true style flags count as one space
		if b {
			return 1, true
		}
		return 0, true
	}

	return 0, false
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}
