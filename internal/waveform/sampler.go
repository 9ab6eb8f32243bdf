// Package waveform derives a small point sequence from an audio buffer for display.
package waveform

import "github.com/maauso/audiotrim/internal/audio"

// DefaultMaxPoints is the display budget used when none is given.
const DefaultMaxPoints = 1000

// Points is a decimated, order-preserving subsequence of a buffer's samples.
type Points []int

// Sample picks every stride-th sample so that at most maxPoints remain.
// There is no filtering; the result is for drawing only.
//
// A nil or empty buffer yields an empty sequence. maxPoints <= 0 means
// DefaultMaxPoints.
func Sample(buf *audio.Buffer, maxPoints int) Points {
	if buf == nil || len(buf.Samples) == 0 {
		return Points{}
	}
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}

	n := len(buf.Samples)
	stride := max(1, (n+maxPoints-1)/maxPoints)

	points := make(Points, 0, (n+stride-1)/stride)
	for i := 0; i < n; i += stride {
		points = append(points, buf.Samples[i])
	}
	return points
}

// Peak returns the largest absolute value in the sequence.
func (p Points) Peak() int {
	peak := 0
	for _, v := range p {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return peak
}

// Normalized scales the points into [-1, 1] by their peak.
// An all-zero sequence stays all zero.
func (p Points) Normalized() []float64 {
	out := make([]float64, len(p))
	peak := p.Peak()
	if peak == 0 {
		return out
	}
	for i, v := range p {
		out[i] = float64(v) / float64(peak)
	}
	return out
}
