package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

// Spinner represents an animated spinner for long-running operations
type Spinner struct {
	mu       sync.Mutex
	active   bool
	message  string
	frames   []string
	interval time.Duration
	stopChan chan struct{}
	done     chan struct{}
	w        io.Writer
}

// SpinnerDots is the default frame set.
var SpinnerDots = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// interactive reports whether the default logger writes to a terminal, which
// is the only case where carriage-return animations make sense.
func interactive() bool {
	f, ok := output().(*os.File)
	return ok && IsTerminal(f)
}

// NewSpinner creates a new spinner with the default frames
func NewSpinner(message string) *Spinner {
	return &Spinner{
		message:  message,
		frames:   SpinnerDots,
		interval: 100 * time.Millisecond,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
		w:        output(),
	}
}

// Start starts the spinner animation. It is a no-op when output is not a
// terminal.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.active || !interactive() {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		i := 0
		for {
			s.mu.Lock()
			msg := s.message
			s.mu.Unlock()

			frame := s.frames[i%len(s.frames)]
			if colorEnabled() {
				frame = prefixColor.Sprint(frame)
			}
			_, _ = fmt.Fprintf(s.w, "\r%s %s", frame, msg)
			i++

			select {
			case <-s.stopChan:
				_, _ = fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(msg)+10))
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.stopChan)
	s.mu.Unlock()
	<-s.done
}

// WithSpinner runs fn while a spinner is shown. Result reporting is left to
// the caller.
func WithSpinner(message string, fn func() error) error {
	spinner := NewSpinner(message)
	spinner.Start()
	defer spinner.Stop()
	return fn()
}

// ProgressBar renders a single-line percentage bar.
type ProgressBar struct {
	total   int
	current int
	width   int
	message string
	status  string
	w       io.Writer
}

// NewProgressBarTo creates a progress bar writing to w.
func NewProgressBarTo(w io.Writer, total int, message string) *ProgressBar {
	if total <= 0 {
		total = 100
	}
	return &ProgressBar{
		total:   total,
		width:   40,
		message: message,
		w:       w,
	}
}

// Update sets the current position and redraws.
func (p *ProgressBar) Update(current int) {
	p.current = current
	p.draw()
}

// SetStatus sets trailing text such as the reported state.
func (p *ProgressBar) SetStatus(status string) {
	p.status = status
}

// Finish completes the progress bar at its current position.
func (p *ProgressBar) Finish() {
	p.draw()
	_, _ = fmt.Fprintln(p.w)
}

// String renders the bar without carriage control.
func (p *ProgressBar) String() string {
	current := p.current
	if current < 0 {
		current = 0
	}
	if current > p.total {
		current = p.total
	}
	percent := float64(current) / float64(p.total)
	filled := int(percent * float64(p.width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)
	if colorEnabled() {
		bar = barColor.Sprint(bar)
	}

	out := fmt.Sprintf("%s: [%s] %3.0f%%", p.message, bar, percent*100)
	if p.status != "" {
		out += " " + p.status
	}
	return out
}

func (p *ProgressBar) draw() {
	_, _ = fmt.Fprintf(p.w, "\r%s", p.String())
}
