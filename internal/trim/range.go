// Package trim selects a percentage range of a loaded audio buffer and turns
// it into playable and exportable segments.
package trim

import "fmt"

// Percentage bounds for both endpoints.
const (
	MinPct = 0
	MaxPct = 100
)

// Range holds two linked percentage endpoints over a buffer's duration.
// Start() <= End() holds after every call: moving one endpoint past the
// other drags the other one along.
//
// The zero value is not the full range; use NewRange.
type Range struct {
	start int
	end   int
}

// NewRange returns the full range (0, 100).
func NewRange() Range {
	return Range{start: MinPct, end: MaxPct}
}

// Start returns the start percentage.
func (r Range) Start() int { return r.start }

// End returns the end percentage.
func (r Range) End() int { return r.end }

// SetStart moves the start endpoint. If it passes the end, the end follows.
func (r *Range) SetStart(v int) {
	r.start = clampPct(v)
	if r.start > r.end {
		r.end = r.start
	}
}

// SetEnd moves the end endpoint. If it drops below the start, the start follows.
func (r *Range) SetEnd(v int) {
	r.end = clampPct(v)
	if r.end < r.start {
		r.start = r.end
	}
}

// Reset restores the full range.
func (r *Range) Reset() {
	*r = NewRange()
}

// IsFull reports whether the range covers the whole buffer.
func (r Range) IsFull() bool {
	return r.start == MinPct && r.end == MaxPct
}

func (r Range) String() string {
	return fmt.Sprintf("%d%%-%d%%", r.start, r.end)
}

// clampPct keeps out-of-range input from breaking the invariant. Callers are
// expected to validate first; this is the last line.
func clampPct(v int) int {
	return min(max(v, MinPct), MaxPct)
}
