package tui

import (
	"fmt"
	"strings"

	"genoscope/models/constants"
	featureType "genoscope/models/constants/feature-type"
	trackKind "genoscope/models/constants/track-kind"
	"genoscope/render"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	rulerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	forwardStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	reverseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	variantStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	statusStyle   = lipgloss.NewStyle().Reverse(true)
	overlayStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.vc.Chromosome() == "" {
		return m.emptyView()
	}

	var b strings.Builder
	start, end := m.vc.Window()
	width := m.trackWidth()

	layout := m.renderer.Render(render.Request{
		Chrom:        m.vc.Chromosome(),
		Start:        start,
		End:          end,
		Width:        width,
		State:        m.state,
		SequenceCols: render.WrapCols(width),
	})

	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf(" %s  %d-%d  (%d bp) ",
		layout.Chrom, start+1, end, end-start)))

	for _, track := range layout.Tracks {
		b.WriteString(m.renderTrack(track, width))
	}

	if layout.Sequence != nil {
		b.WriteString(m.renderSequencePanel(layout.Sequence))
	}

	if m.overlay != overlayNone {
		b.WriteString(m.renderOverlay())
	}

	if m.prompt != promptNone {
		fmt.Fprintf(&b, "\n%s\n", m.input.View())
	}

	status := m.status
	if m.searchNote != "" {
		status += " | " + m.searchNote
	}
	b.WriteString(statusStyle.Render(" " + status + " "))
	return b.String()
}

func (m Model) emptyView() string {
	return overlayStyle.Render(
		"genoscope\n\nno genome loaded\n\npress o to open a file\npress q to quit") +
		"\n" + statusStyle.Render(" "+m.status+" ")
}

func (m Model) renderTrack(track render.TrackLayout, width int) string {
	var b strings.Builder
	name := string(track.Kind)
	if track.Kind == m.selected {
		name = selectedStyle.Render("*" + name)
	}
	fmt.Fprintf(&b, "%s\n", name)

	switch track.Kind {
	case trackKind.Ruler:
		b.WriteString(rulerStyle.Render(rulerLine(track, width)) + "\n")
	case trackKind.GC:
		b.WriteString(gcLine(track, width) + "\n")
	default:
		lanes := track.Lanes
		if lanes == 0 {
			lanes = 1
		}
		for lane := 0; lane < lanes; lane++ {
			b.WriteString(laneLine(track, lane, width) + "\n")
		}
	}
	return b.String()
}

// rulerLine places tick labels at their projected columns.
func rulerLine(track render.TrackLayout, width int) string {
	row := make([]byte, width)
	for i := range row {
		row[i] = '-'
	}
	line := string(row)
	for _, tick := range track.Ticks {
		if tick.X >= width {
			continue
		}
		line = spliceLabel(line, tick.X, "|"+tick.Label)
	}
	return line
}

// laneLine draws one packed lane of glyph spans.
func laneLine(track render.TrackLayout, lane, width int) string {
	row := make([]rune, width)
	for i := range row {
		row[i] = ' '
	}
	styles := map[int]lipgloss.Style{}
	for _, element := range track.Elements {
		if element.Lane != lane {
			continue
		}
		glyph, style := glyphFor(track.Kind, element.Strand)
		left := element.Left
		for x := left; x < left+element.Width && x < width; x++ {
			row[x] = glyph
		}
		if element.Label != "" {
			for i, r := range element.Label {
				if left+i < width {
					row[left+i] = r
				}
			}
		}
		styles[left] = style
	}
	return styleSpans(string(row), styles)
}

func glyphFor(kind constants.TrackKind, strand constants.Strand) (rune, lipgloss.Style) {
	switch kind {
	case trackKind.Variants:
		return '▲', variantStyle
	case trackKind.Reads:
		if strand == constants.StrandReverse {
			return '<', reverseStyle
		}
		return '>', forwardStyle
	default:
		if strand == constants.StrandReverse {
			return '◄', reverseStyle
		}
		return '█', forwardStyle
	}
}

// styleSpans applies the first style found; per-cell styling would
// explode the output, one style per lane row is enough for a terminal.
func styleSpans(line string, styles map[int]lipgloss.Style) string {
	for _, style := range styles {
		return style.Render(line)
	}
	return line
}

// gcLine shades each bin by GC content.
func gcLine(track render.TrackLayout, width int) string {
	shades := []rune(" ░▒▓█")
	row := make([]rune, width)
	for i := range row {
		row[i] = ' '
	}
	for _, element := range track.Elements {
		shade := shades[int(element.Value*float64(len(shades)-1)+0.5)]
		for x := element.Left; x < element.Left+element.Width && x < width; x++ {
			row[x] = shade
		}
	}
	return string(row)
}

func (m Model) renderSequencePanel(panel *render.SequencePanel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "sequence (%s)\n", panel.Mode)
	switch panel.Mode {
	case render.ModeDensity:
		b.WriteString(panel.Density + "\n")
	default:
		for _, line := range panel.Lines {
			fmt.Fprintf(&b, "%9d  %s\n", line.Position, line.Bases)
		}
		for _, translation := range panel.Translations {
			fmt.Fprintf(&b, "%9s  %s %d-%d: %s\n", "CDS",
				translation.Label, translation.Start, translation.End, abbreviate(translation.Protein, 60))
		}
	}
	return b.String()
}

func (m Model) renderOverlay() string {
	switch m.overlay {
	case overlayHelp:
		return "\n" + overlayStyle.Render(helpText()) + "\n"
	case overlayDetail:
		return "\n" + overlayStyle.Render(strings.TrimRight(m.detail, "\n")) + "\n"
	case overlayTracks:
		return "\n" + overlayStyle.Render(m.trackToggleText()) + "\n"
	case overlayFilters:
		return "\n" + overlayStyle.Render(m.filterToggleText()) + "\n"
	}
	return ""
}

func (m Model) trackToggleText() string {
	var b strings.Builder
	b.WriteString("tracks (digit toggles, esc closes)\n")
	for i, kind := range trackKind.VerticalOrder() {
		if kind == trackKind.Ruler {
			continue
		}
		mark := " "
		if m.state.Visible(kind) {
			mark = "x"
		}
		fmt.Fprintf(&b, " %d [%s] %s\n", i, mark, kind)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) filterToggleText() string {
	var b strings.Builder
	b.WriteString("feature classes (digit toggles, esc closes)\n")
	for i, ft := range featureType.RenderAllowList() {
		if i > 9 {
			break
		}
		mark := " "
		if m.state.FeatureVisible(ft) {
			mark = "x"
		}
		fmt.Fprintf(&b, " %d [%s] %s\n", i, mark, ft)
	}
	return strings.TrimRight(b.String(), "\n")
}

func helpText() string {
	return strings.TrimSpace(`
keys
  left/right  pan 10%          +/-   zoom
  home/end    jump to ends     c     next chromosome
  g           goto prompt      /     search (n/N step hits)
  o           open file        a     annotate
  t           track toggles    f     feature filters
  s           sequence panel   tab   select track
  ctrl+up/dn  resize selected  q     quit
mouse
  drag        pan              click glyph  details
  drag track boundary          resize both neighbours
`)
}

// layoutRows recomputes the on-screen extent of each visible track,
// mirroring the line counts View emits. Mouse handlers call it so hit
// testing always sees the geometry of the frame the user clicked on.
func (m Model) layoutRows() []trackRow {
	if m.vc.Chromosome() == "" {
		return nil
	}
	start, end := m.vc.Window()
	width := m.trackWidth()
	layout := m.renderer.Render(render.Request{
		Chrom:        m.vc.Chromosome(),
		Start:        start,
		End:          end,
		Width:        width,
		State:        m.state,
		SequenceCols: render.WrapCols(width),
	})
	rows := make([]trackRow, 0, len(layout.Tracks))
	line := 1
	for _, track := range layout.Tracks {
		lines := 2
		if track.Kind != trackKind.Ruler && track.Kind != trackKind.GC {
			lanes := track.Lanes
			if lanes == 0 {
				lanes = 1
			}
			lines = 1 + lanes
		}
		rows = append(rows, trackRow{kind: track.Kind, top: line, bottom: line + lines - 1, layout: track})
		line += lines
	}
	return rows
}

// spliceLabel overwrites line starting at col with label.
func spliceLabel(line string, col int, label string) string {
	runes := []rune(line)
	for i, r := range label {
		if col+i >= len(runes) {
			break
		}
		runes[col+i] = r
	}
	return string(runes)
}
