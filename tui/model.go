package tui

import (
	"time"

	"genoscope/format"
	"genoscope/genome"
	"genoscope/models"
	"genoscope/models/constants"
	"genoscope/render"
	"genoscope/tracks"
	"genoscope/viewport"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Mouse drag tuning. A press only becomes a pan once it moves past
// the threshold; applied pans are throttled.
const (
	dragThresholdCells = 5
	dragSensitivity    = 1.5
	dragThrottle       = 32 * time.Millisecond
)

type promptKind int

const (
	promptNone promptKind = iota
	promptOpenFile
	promptGoto
	promptSearch
	promptAnnotate
)

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayHelp
	overlayDetail
	overlayTracks
	overlayFilters
)

type dragKind int

const (
	dragNone dragKind = iota
	dragPan
	dragSplitter
)

type dragState struct {
	kind     dragKind
	startX   int
	startY   int
	lastX    int
	engaged  bool
	lastPan  time.Time
	accumDy  int
	upper    constants.TrackKind
	lower    constants.TrackKind
	upperPx  int
	lowerPx  int
}

// trackRow remembers where a track landed on screen, for hit testing
// clicks and splitter grabs.
type trackRow struct {
	kind   constants.TrackKind
	top    int
	bottom int
	layout render.TrackLayout
}

// Model is the bubbletea model for the whole browser shell.
type Model struct {
	cfg      *models.Config
	store    *genome.Store
	vc       *viewport.Controller
	state    *tracks.State
	renderer *render.Renderer
	bridge   *Bridge

	width  int
	height int

	loadedFiles []string
	diagnostics format.Diagnostics

	status  string
	overlay overlayKind
	detail  string

	prompt promptKind
	input  textinput.Model

	drag       dragState
	rows       []trackRow
	selected   constants.TrackKind
	searchNote string

	startupFiles []string

	quitting bool
}

func NewModel(cfg *models.Config, store *genome.Store, bridge *Bridge, files ...string) Model {
	input := textinput.New()
	input.CharLimit = 512
	input.Width = 48

	state := tracks.DefaultState()
	if loaded, err := tracks.LoadState(layoutPath(cfg)); err == nil {
		state = loaded
	}

	return Model{
		cfg:          cfg,
		store:        store,
		vc:           viewport.NewController(store),
		state:        state,
		renderer:     render.NewRenderer(store),
		bridge:       bridge,
		status:       "ready | press ? for keys",
		input:        input,
		selected:     constants.TrackKind(""),
		startupFiles: files,
	}
}

func layoutPath(cfg *models.Config) string {
	if cfg != nil && cfg.Tui.LayoutPath != "" {
		return cfg.Tui.LayoutPath
	}
	return tracks.DefaultLayoutPath()
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	for _, path := range m.startupFiles {
		cmds = append(cmds, loadFileCmd(path))
	}
	if m.bridge != nil {
		cmds = append(cmds, m.bridge.connectCmd(), m.bridge.waitForFrame())
	}
	return tea.Batch(cmds...)
}
