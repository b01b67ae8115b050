package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/picogrid/param-sweep/pkg/logger"
	"github.com/picogrid/param-sweep/pkg/models"
)

// FormatLine renders one snapshot as a plain log line.
func FormatLine(id string, s models.ProgressState) string {
	return fmt.Sprintf("ID: %s — Progress: %g%% — %s — Viewers: %d", id, s.Progress, s.State, s.Viewers)
}

// Display keeps the latest state per ID and prints each update. A single
// stream on a terminal is drawn as a progress bar; anything else prints one
// line per snapshot.
type Display struct {
	mu     sync.Mutex
	w      io.Writer
	bar    *logger.ProgressBar
	states map[string]models.ProgressState
}

// NewDisplay creates a display for ids writing to out.
func NewDisplay(out *os.File, ids []string) *Display {
	d := newDisplay(out, ids)
	if len(ids) == 1 && logger.IsTerminal(out) {
		d.bar = logger.NewProgressBarTo(out, 100, "ID: "+ids[0])
	}
	return d
}

// NewLineDisplay creates a display that always prints lines.
func NewLineDisplay(w io.Writer, ids []string) *Display {
	return newDisplay(w, ids)
}

func newDisplay(w io.Writer, ids []string) *Display {
	states := make(map[string]models.ProgressState, len(ids))
	for _, id := range ids {
		states[id] = models.InitialProgress()
	}
	return &Display{w: w, states: states}
}

// Update replaces the state for id and prints it. It satisfies Handler.
func (d *Display) Update(id string, s models.ProgressState) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.states[id] = s
	if d.bar != nil {
		d.bar.SetStatus(fmt.Sprintf("%s — Viewers: %d", s.State, s.Viewers))
		d.bar.Update(int(s.Progress))
		return
	}
	_, _ = fmt.Fprintln(d.w, FormatLine(id, s))
}

// State returns the latest state for id.
func (d *Display) State(id string) models.ProgressState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.states[id]; ok {
		return s
	}
	return models.InitialProgress()
}

// Close finishes the progress bar line, if any.
func (d *Display) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.bar != nil {
		d.bar.Finish()
	}
}
