package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_Bundled(t *testing.T) {
	props, err := Load("")
	if err != nil {
		t.Fatalf("Load bundled: %v", err)
	}
	if len(props) != 18 {
		t.Fatalf("len = %d, want 18", len(props))
	}

	first := props[0]
	if first.Title != "Rio Beach House" || first.PricePerNight != 18 {
		t.Errorf("first property = %q at %.0f, want Rio Beach House at 18", first.Title, first.PricePerNight)
	}
	for _, p := range props {
		if p.ID == "" || p.Title == "" || p.Location == "" {
			t.Errorf("property %+v missing id, title or location", p)
		}
	}
}

func TestParse_NormalizesAliases(t *testing.T) {
	data := `[
		{"_id": "x1", "name": "Aliased", "summary": "desc", "nightly_price": "$1,200.50",
		 "city": "Lisbon", "country": "Portugal", "street": "Rua 1",
		 "beds": 3, "baths": "2", "garage": true}
	]`
	props, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := props[0]
	if p.ID != "x1" || p.Title != "Aliased" || p.Description != "desc" {
		t.Errorf("text fields = %q %q %q", p.ID, p.Title, p.Description)
	}
	if p.PricePerNight != 1200.50 {
		t.Errorf("PricePerNight = %.2f, want 1200.50", p.PricePerNight)
	}
	if p.Location != "Lisbon, Portugal" {
		t.Errorf("Location = %q, want Lisbon, Portugal", p.Location)
	}
	if p.Address != "Rua 1" {
		t.Errorf("Address = %q, want Rua 1", p.Address)
	}
	if p.Bedrooms != 3 || p.Bathrooms != 2 || p.Parking != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1", p.Bedrooms, p.Bathrooms, p.Parking)
	}
}

func TestParse_MissingCountsBecomeZero(t *testing.T) {
	props, err := Parse([]byte(`[{"title": "Bare", "bedrooms": "n/a", "bathrooms": -2}]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p := props[0]
	if p.Bedrooms != 0 || p.Bathrooms != 0 || p.Parking != 0 {
		t.Errorf("counts = %d/%d/%d, want 0/0/0", p.Bedrooms, p.Bathrooms, p.Parking)
	}
	if p.ID != "P001" {
		t.Errorf("ID = %q, want generated P001", p.ID)
	}
}

func TestParse_WrappedObject(t *testing.T) {
	props, err := Parse([]byte(`{"properties": [{"id": 7, "title": "Wrapped", "price": 10}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(props) != 1 || props[0].ID != "7" {
		t.Fatalf("props = %+v", props)
	}
}

func TestParse_TruncatesDescription(t *testing.T) {
	long := strings.Repeat("é", MaxDescriptionRunes+20)
	props, err := Parse([]byte(`[{"title": "Long", "description": "` + long + `"}]`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := len([]rune(props[0].Description)); got != MaxDescriptionRunes {
		t.Fatalf("description runes = %d, want %d", got, MaxDescriptionRunes)
	}
	if !strings.HasSuffix(props[0].Description, "...") {
		t.Fatal("truncated description should end with ...")
	}
}

func TestParse_Empty(t *testing.T) {
	if _, err := Parse([]byte(`[]`)); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Parse([]) = %v, want ErrEmpty", err)
	}
}

func TestLoad_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected read error")
	}
}
