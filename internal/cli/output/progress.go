package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressBar displays enumeration progress over item indices.
type ProgressBar struct {
	w       io.Writer
	title   string
	total   int64
	current int64
	width   int
	started time.Time
	now     func() time.Time
	mu      sync.Mutex
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(w io.Writer, title string) *ProgressBar {
	return &ProgressBar{
		w:       w,
		title:   title,
		width:   40,
		started: time.Now(),
		now:     time.Now,
	}
}

// Update sets the number of processed items out of total and redraws.
// Its signature matches the snapshot progress callback.
func (p *ProgressBar) Update(current, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = current
	p.total = total
	p.render()
}

// Finish completes the progress bar.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.total
	p.render()
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) render() {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %d items", p.title, p.current)
		return
	}

	percent := float64(p.current) / float64(p.total)
	if percent > 1 {
		percent = 1
	}

	filled := int(float64(p.width) * percent)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	fmt.Fprintf(p.w, "\r%s [%s] %3.0f%% (%d/%d) eta %s",
		p.title,
		bar,
		percent*100,
		p.current,
		p.total,
		p.eta(),
	)
}

// eta estimates the remaining time from the average pace so far.
func (p *ProgressBar) eta() string {
	if p.current <= 0 || p.current >= p.total {
		return "-"
	}
	elapsed := p.now().Sub(p.started)
	per := elapsed / time.Duration(p.current)
	return formatDuration(per * time.Duration(p.total-p.current))
}

// formatDuration renders d rounded to seconds, e.g. "1h02m03s".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
