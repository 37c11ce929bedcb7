package cli

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner draws an animated progress line while a request is in flight.
// It is purely decorative: Stop never waits on the animation goroutine.
type Spinner struct {
	out     io.Writer
	enabled bool
	frames  []string
	fps     time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

// NewSpinner returns a spinner writing to out. Animation is disabled when
// out is not a terminal so piped output stays clean.
func NewSpinner(out io.Writer) *Spinner {
	enabled := false
	if f, ok := out.(*os.File); ok {
		enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return newSpinner(out, enabled)
}

func newSpinner(out io.Writer, enabled bool) *Spinner {
	return &Spinner{
		out:     out,
		enabled: enabled,
		frames:  spinner.Dot.Frames,
		fps:     spinner.Dot.FPS,
	}
}

// Start begins animating label. Starting a running spinner is a no-op.
func (s *Spinner) Start(label string) {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		return
	}
	stop := make(chan struct{})
	s.stop = stop

	go func() {
		ticker := time.NewTicker(s.fps)
		defer ticker.Stop()
		for i := 0; ; i++ {
			s.mu.Lock()
			select {
			case <-stop:
				s.mu.Unlock()
				return
			default:
			}
			fmt.Fprintf(s.out, "\r%s %s", mutedStyle.Render(s.frames[i%len(s.frames)]), mutedStyle.Render(label+"..."))
			s.mu.Unlock()

			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
	fmt.Fprint(s.out, "\r\033[K")
}
