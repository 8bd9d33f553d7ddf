// Package progress renders a textual progress bar on a terminal
// stream. A session expects a total number of ticks:
//
//	bar := progress.NewBar(os.Stderr, 40, "streaming rows")
//	bar.Start(total)
//	for ... { bar.Tick(1) }
//	bar.Finish()
//
// Tick advances incrementally; Complete sets the absolute position.
package progress

import (
	"fmt"
	"io"
	"strings"
)

// Bar is a terminal progress bar. It buckets n expected ticks into a
// fixed number of bar cells and redraws only when a cell boundary is
// crossed.
type Bar struct {
	w        io.Writer
	message  string
	n        uint64
	i        uint64
	ni       uint64
	width    uint64
	l        uint64
	finished bool
}

// NewBar creates a bar of the given cell width writing to w. The
// message is printed before the bar.
func NewBar(w io.Writer, width int, message string) *Bar {
	if width <= 0 {
		width = 40
	}
	return &Bar{w: w, message: message, width: uint64(width)}
}

// nexti returns the tick count at which the next cell fills.
func (b *Bar) nexti() uint64 {
	return (b.n*(b.l+1) + b.width - 1) / b.width
}

// Start begins a session expecting n ticks.
func (b *Bar) Start(n uint64) {
	b.n = n
	b.i, b.ni, b.l = 0, 0, 0
	b.finished = false

	fmt.Fprint(b.w, strings.Repeat(" ", int(b.width)+1+len(b.message)))
	fmt.Fprintf(b.w, "]\r%s[", b.message)
	b.ni = b.nexti()
	b.Tick(0)
}

// Tick advances the bar by the given number of ticks.
func (b *Bar) Tick(ticks uint64) {
	if b.finished {
		return
	}
	b.i += ticks
	if b.i >= b.ni {
		b.adjust()
	}
}

// Complete sets the absolute tick position when it lies beyond both the
// current position and the next cell boundary; any other position is
// ignored and the current one is kept.
func (b *Bar) Complete(ticks uint64) {
	if b.finished {
		return
	}
	if ticks > b.ni && ticks > b.i {
		b.Tick(ticks - b.i)
	}
}

// Finish fills the bar, possibly early.
func (b *Bar) Finish() {
	if b.finished {
		return
	}
	if b.i < b.n {
		b.Tick(b.n - b.i)
	}
	if !b.finished {
		b.adjust()
	}
}

func (b *Bar) adjust() {
	if b.i > b.n {
		b.i = b.n
	}
	for b.i >= b.ni && b.l < b.width {
		b.l++
		b.ni = b.nexti()
		fmt.Fprint(b.w, "#")
	}
	if b.l >= b.width {
		fmt.Fprintln(b.w)
		b.finished = true
	}
}
