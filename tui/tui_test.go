package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"genoscope/genome"
	"genoscope/models"
	"genoscope/models/constants"
	errorKind "genoscope/models/constants/error-kind"
	featureType "genoscope/models/constants/feature-type"
	trackKind "genoscope/models/constants/track-kind"
	"genoscope/models/dtos"
	"genoscope/models/dtos/errors"
	"genoscope/tracks"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := &models.Config{}
	cfg.Tui.LayoutPath = filepath.Join(t.TempDir(), "layout.json")

	store := genome.NewStore()
	store.PutSequence("chr1", strings.Repeat("ACGT", 2500))
	store.PutFeatures("chr1", []models.Feature{
		{Type: featureType.Gene, Start: 1, End: 900, Strand: constants.StrandForward,
			Qualifiers: map[string]string{"gene": "alpha"}},
		{Type: featureType.CDS, Start: 100, End: 108, Strand: constants.StrandForward,
			Qualifiers: map[string]string{"gene": "alpha"}},
	})

	m := NewModel(cfg, store, nil)
	require.NoError(t, m.vc.Select("chr1"))
	m.width = 102
	m.height = 40
	return m
}

func TestPanBases(t *testing.T) {
	// 10 cells at 10 bp per cell, scaled by the drag sensitivity.
	assert.Equal(t, 150, panBases(10, 1000, 100))
	assert.Equal(t, -150, panBases(-10, 1000, 100))
	assert.Equal(t, 0, panBases(10, 1000, 0))
}

func TestDragEngagesPastThreshold(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.vc.SetWindow("chr1", 1, 1000))
	startBefore, _ := m.vc.Window()

	m = m.mouseDown(50, 3)
	assert.Equal(t, dragPan, m.drag.kind)

	// Two cells of travel stays below the threshold.
	m = m.mouseMove(52)
	assert.False(t, m.drag.engaged)
	start, _ := m.vc.Window()
	assert.Equal(t, startBefore, start)

	// Crossing the threshold engages without panning yet.
	m = m.mouseMove(58)
	assert.True(t, m.drag.engaged)
	start, _ = m.vc.Window()
	assert.Equal(t, startBefore, start)

	// A further leftward pull pans toward higher coordinates.
	m = m.mouseMove(48)
	start, _ = m.vc.Window()
	assert.Greater(t, start, startBefore)
}

func TestClickWithoutDragOpensDetail(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.vc.SetWindow("chr1", 1, 1000))
	m.rows = m.layoutRows()

	var genes trackRow
	for _, row := range m.rows {
		if row.kind == trackKind.Genes {
			genes = row
		}
	}
	require.NotEmpty(t, genes.layout.Elements)
	element := genes.layout.Elements[0]

	m = m.mouseDown(element.Left, genes.top+1)
	result, _ := m.handleMouse(tea.MouseMsg{Type: tea.MouseRelease, X: element.Left, Y: genes.top + 1})
	m = result.(Model)

	assert.Equal(t, overlayDetail, m.overlay)
	assert.Contains(t, m.detail, "alpha")
}

func TestLayoutRowsAndSplitter(t *testing.T) {
	m := newTestModel(t)
	rows := m.layoutRows()
	require.Len(t, rows, 3)

	assert.Equal(t, trackKind.Ruler, rows[0].kind)
	assert.Equal(t, 1, rows[0].top)
	assert.Equal(t, 2, rows[0].bottom)
	assert.Equal(t, trackKind.Genes, rows[1].kind)
	assert.Equal(t, 3, rows[1].top)
	assert.Equal(t, trackKind.GC, rows[2].kind)

	m.rows = rows

	// The ruler never acts as the upper half of a splitter.
	_, _, _, _, ok := m.splitterAt(rows[0].bottom)
	assert.False(t, ok)

	upper, lower, _, _, ok := m.splitterAt(rows[1].bottom)
	require.True(t, ok)
	assert.Equal(t, trackKind.Genes, upper)
	assert.Equal(t, trackKind.GC, lower)
}

func TestBrowserStateIsOneBased(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.vc.SetWindow("chr1", 1, 1000))

	state := m.browserState()
	assert.Equal(t, "chr1", state.Chromosome)
	assert.Equal(t, 1, state.Start)
	assert.Equal(t, 1000, state.End)
	assert.Contains(t, state.VisibleTracks, trackKind.Genes)
}

func TestGetSequenceRegionTool(t *testing.T) {
	m := newTestModel(t)

	result, err := m.executeUITool("get_sequence_region", map[string]interface{}{
		"chromosome": "chr1", "start": 1, "end": 8,
	})
	require.NoError(t, err)
	region := result.(map[string]interface{})
	assert.Equal(t, "ACGTACGT", region["sequence"])
	assert.Equal(t, 8, region["end"])

	_, err = m.executeUITool("get_sequence_region", map[string]interface{}{
		"chromosome": "chrX", "start": 1, "end": 8,
	})
	assert.Equal(t, errorKind.NotFound, errors.KindOf(err))

	_, err = m.executeUITool("get_sequence_region", map[string]interface{}{
		"chromosome": "chr1", "start": 0, "end": 8,
	})
	assert.Equal(t, errorKind.InvalidParams, errors.KindOf(err))
}

func TestNavigateToTool(t *testing.T) {
	m := newTestModel(t)

	result, err := m.executeUITool("navigate_to", map[string]interface{}{"position": "chr1:101-200"})
	require.NoError(t, err)
	state := result.(*dtos.BrowserState)
	assert.Equal(t, 101, state.Start)
	assert.Equal(t, 200, state.End)

	_, err = m.executeUITool("navigate_to", map[string]interface{}{"position": "nonsense::"})
	assert.Equal(t, errorKind.InvalidParams, errors.KindOf(err))
}

func TestCreateAnnotationTool(t *testing.T) {
	m := newTestModel(t)
	before := len(m.store.AllFeatures("chr1"))

	_, err := m.executeUITool("create_annotation", map[string]interface{}{
		"chromosome": "chr1", "start": 10, "end": 40, "name": "my region",
	})
	require.NoError(t, err)

	all := m.store.AllFeatures("chr1")
	require.Len(t, all, before+1)
	added := all[len(all)-1]
	assert.Equal(t, "my region", added.Qualifiers["name"])
	assert.Equal(t, featureType.CastToFeatureType("misc_feature"), added.Type)

	_, err = m.executeUITool("create_annotation", map[string]interface{}{
		"chromosome": "chr1", "start": 10, "end": 5, "name": "bad",
	})
	assert.Equal(t, errorKind.InvalidParams, errors.KindOf(err))

	_, err = m.executeUITool("create_annotation", map[string]interface{}{
		"chromosome": "chr1", "start": 10, "end": 40, "name": "   ",
	})
	assert.Equal(t, errorKind.InvalidParams, errors.KindOf(err))

	_, err = m.executeUITool("create_annotation", map[string]interface{}{
		"chromosome": "chr1", "start": 1, "end": 99999, "name": "too far",
	})
	assert.Equal(t, errorKind.InvalidParams, errors.KindOf(err))
}

func TestSetTrackVisibilityTool(t *testing.T) {
	m := newTestModel(t)
	assert.False(t, m.state.Visible(trackKind.Variants))

	result, err := m.executeUITool("set_track_visibility", map[string]interface{}{
		"track": "variants", "visible": true,
	})
	require.NoError(t, err)
	assert.Equal(t, true, result.(map[string]interface{})["visible"])
	assert.True(t, m.state.Visible(trackKind.Variants))

	_, err = m.executeUITool("set_track_visibility", map[string]interface{}{
		"track": "minimap", "visible": true,
	})
	assert.Equal(t, errorKind.InvalidParams, errors.KindOf(err))
}

func TestSearchFeaturesTool(t *testing.T) {
	m := newTestModel(t)

	result, err := m.executeUITool("search_features", map[string]interface{}{
		"query": "alpha",
	})
	require.NoError(t, err)
	hits := result.(map[string]interface{})
	assert.Equal(t, hits["count"], 2)
}

func TestUnknownUIToolRejected(t *testing.T) {
	m := newTestModel(t)
	_, err := m.executeUITool("reticulate_splines", nil)
	assert.Equal(t, errorKind.InvalidParams, errors.KindOf(err))
}

func TestDescribeElementFeature(t *testing.T) {
	m := newTestModel(t)

	text := m.describeElement(trackKind.Genes, 1)
	assert.Contains(t, text, "alpha")
	assert.Contains(t, text, "/gene=alpha")
	assert.Contains(t, text, "translation:")

	assert.Equal(t, "", m.describeElement(trackKind.Genes, 99))
}

func TestViewRendersTracksAndStatus(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.vc.SetWindow("chr1", 1, 1000))

	view := m.View()
	assert.Contains(t, view, "chr1")
	assert.Contains(t, view, string(trackKind.Genes))
	assert.Contains(t, view, m.status)
}

func TestViewWithoutGenome(t *testing.T) {
	cfg := &models.Config{}
	cfg.Tui.LayoutPath = filepath.Join(t.TempDir(), "layout.json")
	m := NewModel(cfg, genome.NewStore(), nil)

	assert.Contains(t, m.View(), "no genome loaded")
}

func TestSaveLayoutRoundTrip(t *testing.T) {
	m := newTestModel(t)
	m.state.SetVisible(trackKind.Variants, true)
	m.state.SetHeight(trackKind.Genes, 90)
	m.saveLayout()

	loaded, err := tracks.LoadState(layoutPath(m.cfg))
	require.NoError(t, err)
	assert.True(t, loaded.Visible(trackKind.Variants))
	assert.Equal(t, 90, loaded.Height(trackKind.Genes))
}

func TestLoadFileCmdStreamsProgress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phage.fasta")
	require.NoError(t, os.WriteFile(path,
		[]byte(">chrT test record\n"+strings.Repeat("ACGT", 64)+"\n"), 0644))

	msg := loadFileCmd(path)()
	progress, ok := msg.(loadProgressMsg)
	require.True(t, ok, "expected progress before completion, got %T", msg)
	assert.Equal(t, path, progress.path)
	assert.Positive(t, progress.bytes)

	// Re-arming on the carried channel drains through to completion.
	var done loadDoneMsg
	for {
		msg = waitLoadEvent(progress.events)()
		if d, finished := msg.(loadDoneMsg); finished {
			done = d
			break
		}
		progress = msg.(loadProgressMsg)
	}
	require.NoError(t, done.err)
	require.NotNil(t, done.load)
	assert.Equal(t, path, done.load.Path)

	m := newTestModel(t)
	updated, _ := m.handleLoadDone(done)
	m = updated.(Model)
	assert.Contains(t, m.loadedFiles, path)
	assert.True(t, m.store.HasChromosome("chrT"))
}

func TestDigitIndex(t *testing.T) {
	assert.Equal(t, 3, digitIndex("3"))
	assert.Equal(t, -1, digitIndex("a"))
	assert.Equal(t, -1, digitIndex("10"))
}
