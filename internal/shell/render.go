package shell

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/maauso/audiotrim/internal/waveform"
)

var levels = []rune(" ▁▂▃▄▅▆▇█")

// renderWaveform draws points as a one-line bar plot of the given width.
// Each column shows the loudest point in its bucket.
func renderWaveform(points waveform.Points, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}
	if width > len(points) {
		width = len(points)
	}

	norm := points.Normalized()
	var b strings.Builder
	for col := 0; col < width; col++ {
		from := col * len(norm) / width
		to := (col + 1) * len(norm) / width
		peak := 0.0
		for _, v := range norm[from:to] {
			peak = math.Max(peak, math.Abs(v))
		}
		idx := int(math.Round(peak * float64(len(levels)-1)))
		b.WriteRune(levels[idx])
	}
	return b.String()
}

// renderSelection draws the selected range under a plot of the given width.
func renderSelection(startPct, endPct, width int) string {
	if width <= 0 {
		return ""
	}
	from := startPct * width / 100
	to := endPct * width / 100
	if to == from && to < width {
		to++
	}
	return strings.Repeat(" ", from) + strings.Repeat("^", to-from) + strings.Repeat(" ", width-to)
}

// formatMs prints a millisecond offset as m:ss.mmm.
func formatMs(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	return fmt.Sprintf("%d:%02d.%03d", int(d.Minutes()), int(d.Seconds())%60, ms%1000)
}
