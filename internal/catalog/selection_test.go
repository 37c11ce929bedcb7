package catalog

import (
	"testing"

	"github.com/theirongolddev/stayask/internal/model"
)

func pricedProps(prices ...float64) []model.Property {
	props := make([]model.Property, len(prices))
	for i, p := range prices {
		props[i] = model.Property{ID: string(rune('a' + i)), PricePerNight: p}
	}
	return props
}

func TestSelectDiverse_CoversAllTiers(t *testing.T) {
	props := pricedProps(10, 20, 30, 100, 110, 120, 400, 500, 600)

	got := SelectDiverse(props, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	want := []string{"a", "d", "g"}
	for i, p := range got {
		if p.ID != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, p.ID, want[i])
		}
	}
}

func TestSelectDiverse_NoLimitReturnsAll(t *testing.T) {
	props := pricedProps(5, 50, 500)
	if got := SelectDiverse(props, 0); len(got) != 3 {
		t.Fatalf("limit 0: len = %d, want 3", len(got))
	}
	if got := SelectDiverse(props, 10); len(got) != 3 {
		t.Fatalf("limit 10: len = %d, want 3", len(got))
	}
}

func TestSelectDiverse_UnevenBuckets(t *testing.T) {
	// Every price equal: all land in one tier; selection still fills to limit.
	props := pricedProps(50, 50, 50, 50)
	if got := SelectDiverse(props, 2); len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestSummarize(t *testing.T) {
	props := []model.Property{
		{Title: "A", PricePerNight: 200, Location: "Bangkok, Thailand", Bedrooms: 2},
		{Title: "B", PricePerNight: 50, Location: "Bangkok, Thailand", Bedrooms: 1},
		{Title: "C", PricePerNight: 0, Location: "Tokyo, Japan"},
		{Title: "D", PricePerNight: 300, Location: "Bali, Indonesia", Bedrooms: 3},
	}

	in := Summarize(props)
	if in.TotalProperties != 4 {
		t.Errorf("TotalProperties = %d, want 4", in.TotalProperties)
	}
	if in.AveragePrice != 550.0/3 {
		t.Errorf("AveragePrice = %.4f, want %.4f", in.AveragePrice, 550.0/3)
	}
	if in.Cheapest == nil || in.Cheapest.Title != "B" {
		t.Errorf("Cheapest = %+v, want B", in.Cheapest)
	}
	if in.MostExpensive == nil || in.MostExpensive.Title != "D" {
		t.Errorf("MostExpensive = %+v, want D", in.MostExpensive)
	}
	if in.TotalBedrooms != 6 {
		t.Errorf("TotalBedrooms = %d, want 6", in.TotalBedrooms)
	}
	if len(in.ByCountry) != 3 || in.ByCountry[0].Country != "Thailand" || in.ByCountry[0].Count != 2 {
		t.Errorf("ByCountry = %+v", in.ByCountry)
	}
}
