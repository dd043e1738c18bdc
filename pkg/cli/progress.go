package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports progress for long-running operations.
type ProgressReporter interface {
	Start(total int)
	Update(done int)
	Finish()
}

// SimpleProgress is a single-line text progress bar.
type SimpleProgress struct {
	mu      sync.Mutex
	total   int
	done    int
	started time.Time
	writer  io.Writer
}

// NewProgressReporter creates a progress reporter writing to w. A nil
// writer defaults to os.Stderr so the bar never mixes into piped
// report output.
func NewProgressReporter(w io.Writer) *SimpleProgress {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{writer: w}
}

// Start initializes the bar with the total number of items.
func (p *SimpleProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.done = 0
	p.started = time.Now()
	p.render()
}

// Update advances the bar to done items.
func (p *SimpleProgress) Update(done int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = done
	p.render()
}

// Finish completes the bar and terminates its line.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = p.total
	p.render()
	fmt.Fprintln(p.writer)
}

// Hook adapts the reporter to the pipeline's progress callback,
// starting the bar on the first notification.
func (p *SimpleProgress) Hook() func(done, total int) {
	started := false
	return func(done, total int) {
		if !started {
			p.Start(total)
			started = true
		}
		p.Update(done)
	}
}

func (p *SimpleProgress) render() {
	if p.total == 0 {
		return
	}

	percent := float64(p.done) / float64(p.total) * 100
	barWidth := 40
	filled := int(float64(barWidth) * percent / 100)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	elapsed := time.Since(p.started)
	rate := float64(p.done) / elapsed.Seconds()

	fmt.Fprintf(p.writer, "\rValidating: [%s] %.1f%% (%d/%d files) %.1f files/s",
		bar, percent, p.done, p.total, rate)
}
