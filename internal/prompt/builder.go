// Package prompt builds the system prompt that describes the catalog to the model.
package prompt

import (
	"fmt"
	"strings"
	"sync"

	"github.com/theirongolddev/stayask/internal/model"
)

const preamble = `You are a helpful assistant for a vacation rental company.
Answer questions about the properties listed below using only this data.
Quote nightly prices in US dollars. If a question cannot be answered from the
listings, say so briefly and suggest what the guest could ask instead.
Keep answers short and friendly.

PROPERTIES:
`

// Builder serializes the catalog into one instruction block. With caching on,
// the block is built on first use and the identical string is reused.
type Builder struct {
	props []model.Property
	cache bool

	mu     sync.Mutex
	cached string
	built  bool
}

// NewBuilder returns a builder over props. The slice is not copied; the
// catalog is read-only after load.
func NewBuilder(props []model.Property, cache bool) *Builder {
	return &Builder{props: props, cache: cache}
}

// Len returns the number of properties behind the prompt.
func (b *Builder) Len() int {
	if b == nil {
		return 0
	}
	return len(b.props)
}

// SystemPrompt returns the instruction block.
func (b *Builder) SystemPrompt() string {
	if !b.cache {
		return render(b.props)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.built {
		b.cached = render(b.props)
		b.built = true
	}
	return b.cached
}

func render(props []model.Property) string {
	var sb strings.Builder
	sb.WriteString(preamble)
	for i, p := range props {
		fmt.Fprintf(&sb, "\n%d. %s [%s]\n", i+1, p.Title, p.ID)
		fmt.Fprintf(&sb, "   Location: %s\n", p.Location)
		if p.Address != "" {
			fmt.Fprintf(&sb, "   Address: %s\n", p.Address)
		}
		fmt.Fprintf(&sb, "   Price: $%s per night\n", formatPrice(p.PricePerNight))
		fmt.Fprintf(&sb, "   Bedrooms: %d | Bathrooms: %d | Parking: %d\n", p.Bedrooms, p.Bathrooms, p.Parking)
		if p.Description != "" {
			fmt.Fprintf(&sb, "   Description: %s\n", p.Description)
		}
	}
	return sb.String()
}

func formatPrice(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
