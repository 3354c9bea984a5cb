// Package progress renders a single-line terminal progress bar for the
// fetch run.
//
// The bar reflects completion order of the concurrent fetches, not the
// order the URLs were enumerated in: it advances whenever any in-flight
// fetch finishes. Once it has reached 100% it goes quiet; further
// updates are ignored.
package progress

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
)

// Bar is a terminal progress indicator for a fixed number of items.
//
// Bar is not safe for concurrent use; the orchestrator drives it from
// its single result-draining loop.
type Bar struct {
	w         io.Writer
	model     progress.Model
	total     int
	completed int
	finished  bool
}

// NewBar creates a Bar for total items, writing to w.
func NewBar(w io.Writer, total int) *Bar {
	m := progress.New(progress.WithDefaultGradient())
	m.Width = 50

	return &Bar{w: w, model: m, total: total}
}

// Update renders the bar at completed/total.
//
// Updates are monotonic: a value lower than one already rendered is
// ignored. When completed reaches the total, a final line is printed
// and the Bar is finished; every later call is a no-op.
func (b *Bar) Update(completed int) {
	if b.finished || b.total <= 0 {
		return
	}
	if completed < b.completed {
		return
	}
	if completed > b.total {
		completed = b.total
	}
	b.completed = completed

	ratio := float64(completed) / float64(b.total)
	fmt.Fprintf(b.w, "\r%s %d/%d", b.model.ViewAs(ratio), completed, b.total)

	if completed == b.total {
		fmt.Fprintln(b.w)
		b.finished = true
	}
}

// Finished reports whether the bar has reached 100%.
func (b *Bar) Finished() bool {
	return b.finished
}
