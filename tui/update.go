package tui

import (
	"fmt"
	"strings"
	"time"

	"genoscope/models/constants"
	featureType "genoscope/models/constants/feature-type"
	trackKind "genoscope/models/constants/track-kind"
	"genoscope/tracks"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch t := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = t.Width
		m.height = t.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(t)
	case tea.MouseMsg:
		return m.handleMouse(t)
	case loadDoneMsg:
		return m.handleLoadDone(t)
	case loadProgressMsg:
		m.status = fmt.Sprintf("loading %s: %d bytes", t.path, t.bytes)
		return m, waitLoadEvent(t.events)
	case bridgeConnectedMsg:
		m.status = fmt.Sprintf("connected to tool server as %s", t.clientId)
		return m, m.bridge.waitForFrame()
	case bridgeLostMsg:
		m.status = "tool server connection lost"
		return m, nil
	case bridgeFrameMsg:
		return m.handleBridgeFrame(t)
	}
	return m, nil
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != promptNone {
		return m.handlePromptKey(key)
	}
	if m.overlay != overlayNone {
		return m.handleOverlayKey(key)
	}

	switch key.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.saveLayout()
		return m, tea.Quit
	case "?":
		m.overlay = overlayHelp
	case "left":
		m.vc.Pan(-m.vc.Width() / 10)
		m = m.pushState()
	case "right":
		m.vc.Pan(m.vc.Width() / 10)
		m = m.pushState()
	case "home":
		if err := m.vc.SetWindow(m.vc.Chromosome(), 1, m.vc.Width()); err == nil {
			m = m.pushState()
		}
	case "end":
		length := m.store.SequenceLength(m.vc.Chromosome())
		if err := m.vc.SetWindow(m.vc.Chromosome(), length-m.vc.Width()+1, length); err == nil {
			m = m.pushState()
		}
	case "+", "=":
		m.vc.ZoomIn()
		m = m.pushState()
	case "-":
		m.vc.ZoomOut()
		m = m.pushState()
	case "o":
		m = m.openPrompt(promptOpenFile, "file path")
	case "g":
		m = m.openPrompt(promptGoto, "position (N, N-M, chrom:N-M)")
	case "/":
		m = m.openPrompt(promptSearch, "search")
	case "a":
		m = m.openPrompt(promptAnnotate, "annotation: start-end name")
	case "t":
		m.overlay = overlayTracks
	case "f":
		m.overlay = overlayFilters
	case "s":
		m.state.Toggle(trackKind.SequenceDetail)
		m = m.pushState()
	case "n":
		if err := m.vc.NextResult(); err != nil {
			m.status = err.Error()
		} else {
			m = m.noteCurrentHit()
			m = m.pushState()
		}
	case "N":
		if err := m.vc.PrevResult(); err != nil {
			m.status = err.Error()
		} else {
			m = m.noteCurrentHit()
			m = m.pushState()
		}
	case "tab":
		m = m.selectNextTrack()
	case "ctrl+up":
		m = m.resizeSelected(-10)
	case "ctrl+down":
		m = m.resizeSelected(10)
	case "c":
		m = m.cycleChromosome()
	}
	return m, nil
}

func (m Model) handleOverlayKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.overlay {
	case overlayTracks:
		kinds := trackKind.VerticalOrder()
		if idx := digitIndex(key.String()); idx >= 1 && idx < len(kinds) {
			m.state.Toggle(kinds[idx])
			m = m.pushState()
			return m, nil
		}
	case overlayFilters:
		classes := featureType.RenderAllowList()
		if idx := digitIndex(key.String()); idx >= 0 && idx < len(classes) {
			ft := classes[idx]
			m.state.SetFeatureVisible(ft, !m.state.FeatureVisible(ft))
			m = m.pushState()
			return m, nil
		}
	}
	switch key.String() {
	case "esc", "q", "enter":
		m.overlay = overlayNone
		m.detail = ""
	}
	return m, nil
}

func digitIndex(s string) int {
	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
		return int(s[0] - '0')
	}
	return -1
}

func (m Model) openPrompt(kind promptKind, placeholder string) Model {
	m.prompt = kind
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m Model) closePrompt() Model {
	m.prompt = promptNone
	m.input.Blur()
	return m
}

func (m Model) handlePromptKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		return m.closePrompt(), nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m = m.closePrompt()
		return m.submitPrompt(kind, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m Model) submitPrompt(kind promptKind, value string) (tea.Model, tea.Cmd) {
	if value == "" {
		return m, nil
	}
	switch kind {
	case promptOpenFile:
		m.status = "loading " + value
		return m, loadFileCmd(value)
	case promptGoto:
		if err := m.vc.Goto(value); err != nil {
			m.status = err.Error()
		} else {
			m.status = "jumped to " + value
			m = m.pushState()
		}
	case promptSearch:
		hits, err := m.vc.Search(value, false, true)
		if err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("%d hits for %q (n/N to step)", len(hits), value)
			if len(hits) > 0 {
				if err := m.vc.GotoResult(0); err == nil {
					m = m.noteCurrentHit()
					m = m.pushState()
				}
			}
		}
	case promptAnnotate:
		if err := m.createAnnotation(value); err != nil {
			m.status = err.Error()
		} else {
			m.status = "annotation added"
			m = m.pushState()
		}
	}
	return m, nil
}

// createAnnotation parses "start-end name" against the current
// chromosome.
func (m Model) createAnnotation(value string) error {
	fields := strings.Fields(value)
	if len(fields) < 2 {
		return fmt.Errorf("expected 'start-end name'")
	}
	var start, end int
	if _, err := fmt.Sscanf(fields[0], "%d-%d", &start, &end); err != nil {
		return fmt.Errorf("bad range %q", fields[0])
	}
	name := strings.Join(fields[1:], " ")
	chrom := m.vc.Chromosome()
	if chrom == "" {
		return fmt.Errorf("no chromosome selected")
	}
	return addAnnotation(m.store, chrom, start, end, "misc_feature", name)
}

func (m Model) noteCurrentHit() Model {
	hits := m.vc.SearchResults()
	idx := m.vc.SearchIndex()
	if idx >= 0 && idx < len(hits) {
		hit := hits[idx]
		m.searchNote = fmt.Sprintf("hit %d/%d at %d (%s)", idx+1, len(hits), hit.Position, hit.Class)
	}
	return m
}

func (m Model) selectNextTrack() Model {
	stack := m.state.VisibleStack()
	if len(stack) == 0 {
		return m
	}
	next := 0
	for i, kind := range stack {
		if kind == m.selected {
			next = (i + 1) % len(stack)
			break
		}
	}
	m.selected = stack[next]
	m.status = fmt.Sprintf("selected track: %s (ctrl+up/down resizes)", m.selected)
	return m
}

func (m Model) resizeSelected(delta int) Model {
	if m.selected == "" || m.selected == trackKind.Ruler {
		return m
	}
	current := m.state.Height(m.selected)
	if current == 0 {
		current = tracks.MinHeight
	}
	m.state.SetHeight(m.selected, current+delta)
	return m.pushState()
}

func (m Model) cycleChromosome() Model {
	chroms := m.store.Chromosomes()
	if len(chroms) == 0 {
		m.status = "no sequences loaded"
		return m
	}
	next := 0
	for i, chrom := range chroms {
		if chrom == m.vc.Chromosome() {
			next = (i + 1) % len(chroms)
			break
		}
	}
	if err := m.vc.Select(chroms[next]); err != nil {
		m.status = err.Error()
		return m
	}
	m.status = "chromosome: " + chroms[next]
	return m.pushState()
}

// ---- mouse

func (m Model) handleMouse(mouse tea.MouseMsg) (tea.Model, tea.Cmd) {
	if mouse.Type == tea.MouseLeft || mouse.Type == tea.MouseRelease {
		m.rows = m.layoutRows()
	}
	switch mouse.Type {
	case tea.MouseLeft:
		return m.mouseDown(mouse.X, mouse.Y), nil
	case tea.MouseMotion:
		return m.mouseMove(mouse.X), nil
	case tea.MouseRelease:
		return m.mouseUp(mouse.X, mouse.Y), nil
	}
	return m, nil
}

func (m Model) mouseDown(x, y int) Model {
	if upper, lower, upperPx, lowerPx, ok := m.splitterAt(y); ok {
		m.drag = dragState{
			kind: dragSplitter, startX: x, startY: y,
			upper: upper, lower: lower, upperPx: upperPx, lowerPx: lowerPx,
		}
		return m
	}
	m.drag = dragState{kind: dragPan, startX: x, startY: y, lastX: x}
	return m
}

func (m Model) mouseMove(x int) Model {
	if m.drag.kind != dragPan {
		return m
	}
	if !m.drag.engaged {
		if abs(x-m.drag.startX) < dragThresholdCells {
			return m
		}
		m.drag.engaged = true
		m.drag.lastX = x
	}
	if time.Since(m.drag.lastPan) < dragThrottle {
		return m
	}
	delta := panBases(m.drag.lastX-x, m.vc.Width(), m.trackWidth())
	if delta != 0 {
		m.vc.Pan(delta)
		m.drag.lastX = x
		m.drag.lastPan = time.Now()
		m = m.pushState()
	}
	return m
}

func (m Model) mouseUp(x, y int) Model {
	drag := m.drag
	m.drag = dragState{}
	switch drag.kind {
	case dragSplitter:
		// Deferred commit: only the release applies the drag.
		delta := (y - drag.startY) * 10
		if m.state.CommitSplitterDrag(drag.upper, drag.lower, drag.upperPx, drag.lowerPx, delta) {
			m = m.pushState()
		}
	case dragPan:
		if !drag.engaged {
			return m.clickAt(x, y)
		}
	}
	return m
}

// panBases converts a horizontal cell delta into a base-pair pan.
func panBases(dxCells, windowBases, trackWidthCells int) int {
	if trackWidthCells <= 0 {
		return 0
	}
	perCell := float64(windowBases) / float64(trackWidthCells)
	return int(float64(dxCells) * perCell * dragSensitivity)
}

// splitterAt reports the adjacent track pair when y sits on the
// boundary row between two rendered tracks.
func (m Model) splitterAt(y int) (upper, lower constants.TrackKind, upperPx, lowerPx int, ok bool) {
	for i := 0; i < len(m.rows)-1; i++ {
		if y == m.rows[i].bottom {
			upper = m.rows[i].kind
			lower = m.rows[i+1].kind
			if upper == trackKind.Ruler {
				return "", "", 0, 0, false
			}
			return upper, lower, m.rows[i].layout.Height, m.rows[i+1].layout.Height, true
		}
	}
	return "", "", 0, 0, false
}

// clickAt resolves a plain click into a detail overlay when it lands
// on a feature or variant glyph.
func (m Model) clickAt(x, y int) Model {
	for _, row := range m.rows {
		if y < row.top || y > row.bottom {
			continue
		}
		for _, element := range row.layout.Elements {
			if x >= element.Left && x < element.Left+element.Width {
				m.detail = m.describeElement(row.kind, element.Index)
				if m.detail != "" {
					m.overlay = overlayDetail
				}
				return m
			}
		}
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
