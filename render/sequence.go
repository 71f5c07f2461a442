package render

import (
	"genoscope/models/constants"
	featureType "genoscope/models/constants/feature-type"
	"genoscope/seq"
)

type SequenceMode string

const (
	// ModeDetail: wrapped lines with per-CDS inline translations.
	ModeDetail SequenceMode = "detail"
	// ModeWrapped: wrapped lines, no translations.
	ModeWrapped SequenceMode = "wrapped"
	// ModeDensity: one compressed line.
	ModeDensity SequenceMode = "density"
)

const (
	detailMaxWidth  = 500
	wrappedMaxWidth = 2000
	minWrapCols     = 40
	maxWrapCols     = 120
)

// SeqLine is one wrapped row with its 1-based starting position.
type SeqLine struct {
	Position int    `json:"position"`
	Bases    string `json:"bases"`
}

type CDSTranslation struct {
	Label   string `json:"label"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Protein string `json:"protein"`
}

type SequencePanel struct {
	Mode         SequenceMode     `json:"mode"`
	Lines        []SeqLine        `json:"lines,omitempty"`
	Density      string           `json:"density,omitempty"`
	Translations []CDSTranslation `json:"translations,omitempty"`
}

// WrapCols derives the wrap width from the container, clamped to the
// 40-120 column band.
func WrapCols(containerWidth int) int {
	cols := containerWidth
	if cols < minWrapCols {
		return minWrapCols
	}
	if cols > maxWrapCols {
		return maxWrapCols
	}
	return cols
}

func (r *Renderer) renderSequence(req Request) *SequencePanel {
	bases := r.store.Slice(req.Chrom, req.Start, req.End)
	if bases == "" {
		return &SequencePanel{Mode: ModeDensity}
	}
	width := req.End - req.Start
	cols := req.SequenceCols
	if cols == 0 {
		cols = minWrapCols
	}

	switch {
	case width <= detailMaxWidth:
		panel := &SequencePanel{Mode: ModeDetail, Lines: wrapSequence(bases, req.Start, cols)}
		panel.Translations = r.windowTranslations(req)
		return panel
	case width <= wrappedMaxWidth:
		return &SequencePanel{Mode: ModeWrapped, Lines: wrapSequence(bases, req.Start, cols)}
	default:
		return &SequencePanel{Mode: ModeDensity, Density: densityLine(bases, req.Width)}
	}
}

// wrapSequence cuts bases into cols-wide rows, each tagged with its
// 1-based position for the gutter.
func wrapSequence(bases string, start0, cols int) []SeqLine {
	var lines []SeqLine
	for i := 0; i < len(bases); i += cols {
		end := i + cols
		if end > len(bases) {
			end = len(bases)
		}
		lines = append(lines, SeqLine{Position: start0 + i + 1, Bases: bases[i:end]})
	}
	return lines
}

// windowTranslations translates every CDS overlapping the window.
func (r *Renderer) windowTranslations(req Request) []CDSTranslation {
	var out []CDSTranslation
	for _, f := range r.store.FeaturesOverlapping(req.Chrom, req.Start, req.End) {
		if f.Type != featureType.CDS {
			continue
		}
		bases := r.store.Slice(req.Chrom, f.Start-1, f.End)
		if bases == "" {
			continue
		}
		out = append(out, CDSTranslation{
			Label:   f.Label(),
			Start:   f.Start,
			End:     f.End,
			Protein: seq.TranslateCDS(bases, f.Strand == constants.StrandReverse),
		})
	}
	return out
}

// densityLine squeezes the window into one row of at most width
// cells, each cell showing the dominant base of its bin.
func densityLine(bases string, width int) string {
	if width <= 0 || len(bases) <= width {
		return bases
	}
	out := make([]byte, width)
	for i := 0; i < width; i++ {
		lo := len(bases) * i / width
		hi := len(bases) * (i + 1) / width
		if hi <= lo {
			hi = lo + 1
		}
		out[i] = dominantBase(bases[lo:hi])
	}
	return string(out)
}

func dominantBase(chunk string) byte {
	var counts [4]int
	order := [4]byte{'A', 'C', 'G', 'T'}
	for i := 0; i < len(chunk); i++ {
		switch chunk[i] {
		case 'A':
			counts[0]++
		case 'C':
			counts[1]++
		case 'G':
			counts[2]++
		case 'T':
			counts[3]++
		}
	}
	best, bestCount := byte('N'), 0
	for i, c := range counts {
		if c > bestCount {
			best, bestCount = order[i], c
		}
	}
	return best
}
