package progress

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// SpinnerSink shows submission and confirmation progress. In non-interactive mode each
// distinct message is printed once instead of animating.
type SpinnerSink struct {
	out         io.Writer
	interactive bool

	mu          sync.Mutex
	spinner     *spinner.Spinner
	lastMessage string
}

// NewSpinnerSink creates a new spinner progress sink writing to out
func NewSpinnerSink(out io.Writer, interactive bool) *SpinnerSink {
	return &SpinnerSink{
		out:         out,
		interactive: interactive,
	}
}

// OnProgress handles progress events
func (s *SpinnerSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.interactive {
		if event.Message != "" && event.Message != s.lastMessage {
			fmt.Fprintln(s.out, event.Message)
		}
		s.lastMessage = event.Message
		return
	}

	if event.Spinner {
		if s.spinner == nil {
			s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
			s.spinner.Writer = s.out
			s.spinner.HideCursor = false
			_ = s.spinner.Color("cyan", "bold")
		}
		s.spinner.Suffix = " " + event.Message
		if !s.spinner.Active() {
			s.spinner.Start()
		}
	} else {
		s.stop()
		if event.Message != "" {
			fmt.Fprintln(s.out, event.Message)
		}
	}
	s.lastMessage = event.Message
}

// Info prints an info message
func (s *SpinnerSink) Info(message string) {
	s.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (s *SpinnerSink) Error(message string) {
	s.print(color.New(color.FgRed), message)
}

// Stop clears the spinner line
func (s *SpinnerSink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
}

func (s *SpinnerSink) stop() {
	if s.spinner != nil && s.spinner.Active() {
		s.spinner.Stop()
	}
}

func (s *SpinnerSink) print(c *color.Color, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stop spinner temporarily
	wasActive := s.spinner != nil && s.spinner.Active()
	if wasActive {
		s.spinner.Stop()
	}

	c.Fprintln(s.out, message)

	if wasActive {
		s.spinner.Start()
	}
}

var _ usecase.ProgressSink = (*SpinnerSink)(nil)
