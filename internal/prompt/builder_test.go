package prompt

import (
	"strings"
	"testing"

	"github.com/theirongolddev/stayask/internal/model"
)

func sampleProps() []model.Property {
	return []model.Property{
		{ID: "P001", Title: "Rio Beach House", PricePerNight: 18, Location: "Rio de Janeiro, Brazil", Bedrooms: 2, Bathrooms: 1},
		{ID: "P002", Title: "Lisbon Loft", PricePerNight: 95.5, Location: "Lisbon, Portugal", Description: "River views."},
	}
}

func TestSystemPrompt_ListsEveryProperty(t *testing.T) {
	got := NewBuilder(sampleProps(), true).SystemPrompt()

	for _, want := range []string{
		"1. Rio Beach House [P001]",
		"Price: $18 per night",
		"Bedrooms: 2 | Bathrooms: 1 | Parking: 0",
		"2. Lisbon Loft [P002]",
		"Price: $95.50 per night",
		"Description: River views.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSystemPrompt_CachedStringReused(t *testing.T) {
	props := sampleProps()
	b := NewBuilder(props, true)
	first := b.SystemPrompt()

	// Mutating the backing slice must not leak into a cached prompt.
	props[0].Title = "Changed"
	if second := b.SystemPrompt(); second != first {
		t.Fatal("cached prompt changed between calls")
	}
}

func TestSystemPrompt_NoCacheRebuilds(t *testing.T) {
	props := sampleProps()
	b := NewBuilder(props, false)
	first := b.SystemPrompt()

	props[0].Title = "Changed"
	if second := b.SystemPrompt(); second == first {
		t.Fatal("uncached prompt should be rebuilt from the catalog")
	}
}

func TestLen(t *testing.T) {
	var nilBuilder *Builder
	if nilBuilder.Len() != 0 {
		t.Fatal("nil builder should report zero properties")
	}
	if NewBuilder(sampleProps(), true).Len() != 2 {
		t.Fatal("Len should count properties")
	}
}
