package render

import "fmt"

// minVisiblePx is the width floor applied when a feature's projected
// width falls under half a percent of the track.
const minVisiblePx = 8

// Project maps a 1-based inclusive interval [fs,fe] onto a track of
// trackWidth pixels showing the 0-based half-open window [s,e).
// Returns ok=false when the interval misses the window entirely.
func Project(trackWidth, s, e, fs, fe int) (left, width int, ok bool) {
	if e <= s || trackWidth <= 0 {
		return 0, 0, false
	}
	// To the window's 0-based axis.
	start := fs - 1
	end := fe
	if start < s {
		start = s
	}
	if end > e {
		end = e
	}
	if start >= end {
		return 0, 0, false
	}
	span := e - s
	left = trackWidth * (start - s) / span
	width = trackWidth * (end - start) / span
	if float64(width) < 0.005*float64(trackWidth) {
		width = minVisiblePx
	}
	if width < 1 {
		width = 1
	}
	if left+width > trackWidth {
		left = trackWidth - width
		if left < 0 {
			left = 0
			width = trackWidth
		}
	}
	return left, width, true
}

// Tick is one ruler mark; Label is the 1-based position.
type Tick struct {
	X     int    `json:"x"`
	Pos   int    `json:"pos"`
	Label string `json:"label"`
}

// RulerTicks places ten evenly spaced ticks across the window.
func RulerTicks(trackWidth, s, e int) []Tick {
	const count = 10
	if e <= s {
		return nil
	}
	ticks := make([]Tick, 0, count)
	span := e - s
	for i := 0; i < count; i++ {
		pos := s + span*i/count
		ticks = append(ticks, Tick{
			X:     trackWidth * i / count,
			Pos:   pos + 1,
			Label: formatPosition(pos + 1),
		})
	}
	return ticks
}

// formatPosition abbreviates large coordinates for tick labels.
func formatPosition(pos int) string {
	switch {
	case pos >= 1_000_000:
		return fmt.Sprintf("%.2fM", float64(pos)/1_000_000)
	case pos >= 10_000:
		return fmt.Sprintf("%.1fk", float64(pos)/1_000)
	default:
		return fmt.Sprintf("%d", pos)
	}
}
