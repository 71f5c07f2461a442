package tui

import (
	"genoscope/format"

	tea "github.com/charmbracelet/bubbletea"
)

type loadProgressMsg struct {
	path   string
	bytes  int
	events chan tea.Msg
}

type loadDoneMsg struct {
	load *format.Load
	err  error
}

type bridgeConnectedMsg struct {
	clientId string
}

type bridgeLostMsg struct {
	err error
}

type bridgeFrameMsg struct {
	frame frameEnvelope
}

// loadFileCmd parses one file off the event loop, streaming progress
// into the update loop; the model applies the result when the final
// message lands. Progress sends are lossy so a slow consumer never
// stalls the parse.
func loadFileCmd(path string) tea.Cmd {
	events := make(chan tea.Msg, 1)
	go func() {
		load, err := format.LoadFile(path, func(bytesRead int) {
			select {
			case events <- loadProgressMsg{path: path, bytes: bytesRead, events: events}:
			default:
			}
		})
		events <- loadDoneMsg{load: load, err: err}
		close(events)
	}()
	return waitLoadEvent(events)
}

// waitLoadEvent blocks for the next progress or done message; each
// progress message carries the channel so the update loop can re-arm.
func waitLoadEvent(events chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func (m Model) handleLoadDone(msg loadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = msg.err.Error()
		return m, nil
	}
	m.store.Apply(msg.load)
	m.loadedFiles = append(m.loadedFiles, msg.load.Path)
	m.status = msg.load.Summary()

	// First sequence load selects a chromosome automatically.
	if m.vc.Chromosome() == "" {
		if chroms := m.store.Chromosomes(); len(chroms) > 0 {
			if err := m.vc.Select(chroms[0]); err == nil {
				m.status += " | viewing " + chroms[0]
			}
		}
	}
	return m.pushState(), nil
}
