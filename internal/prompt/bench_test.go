package prompt

import (
	"testing"

	"github.com/theirongolddev/stayask/internal/catalog"
)

func BenchmarkSystemPromptCached(b *testing.B) {
	props, err := catalog.Load("")
	if err != nil {
		b.Fatal(err)
	}
	builder := NewBuilder(props, true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = builder.SystemPrompt()
	}
}

func BenchmarkSystemPromptUncached(b *testing.B) {
	props, err := catalog.Load("")
	if err != nil {
		b.Fatal(err)
	}
	builder := NewBuilder(props, false)

	b.Logf("Prompt size: %d bytes", len(builder.SystemPrompt()))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = builder.SystemPrompt()
	}
}
