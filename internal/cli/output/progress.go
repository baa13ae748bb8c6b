package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProgressBar redraws one status line as a batch of commands runs, counting
// error replies separately.
type ProgressBar struct {
	mu     sync.Mutex
	w      io.Writer
	title  string
	width  int
	total  int
	done   int
	failed int
}

// NewProgressBar creates a bar for total steps. A total of zero or less
// shows a plain counter.
func NewProgressBar(w io.Writer, title string, total int) *ProgressBar {
	return &ProgressBar{w: w, title: title, width: 30, total: total}
}

// Step records one finished step.
func (p *ProgressBar) Step(failed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if failed {
		p.failed++
	}
	p.render()
}

// Finish draws the final state and ends the line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.render()
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) render() {
	var b strings.Builder
	b.WriteString("\r" + p.title)
	if p.total > 0 {
		frac := float64(p.done) / float64(p.total)
		if frac > 1 {
			frac = 1
		}
		filled := int(float64(p.width) * frac)
		fmt.Fprintf(&b, " [%s%s] %3.0f%% (%d/%d)",
			strings.Repeat("#", filled), strings.Repeat(".", p.width-filled),
			frac*100, p.done, p.total)
	} else {
		fmt.Fprintf(&b, " %d", p.done)
	}
	if p.failed > 0 {
		fmt.Fprintf(&b, ", %d failed", p.failed)
	}
	io.WriteString(p.w, b.String())
}
