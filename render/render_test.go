package render

import (
	"strings"
	"testing"

	"genoscope/genome"
	"genoscope/models"
	"genoscope/models/constants"
	featureType "genoscope/models/constants/feature-type"
	trackKind "genoscope/models/constants/track-kind"
	"genoscope/tracks"

	"github.com/stretchr/testify/assert"
)

func TestProjectBasics(t *testing.T) {
	// Window [0,1000) on a 1000px track, feature 101..200.
	left, width, ok := Project(1000, 0, 1000, 101, 200)
	assert.True(t, ok)
	assert.Equal(t, 100, left)
	assert.Equal(t, 100, width)

	// Fully outside the window.
	_, _, ok = Project(1000, 0, 1000, 2001, 2100)
	assert.False(t, ok)

	// Straddling the left edge clamps to the window.
	left, width, ok = Project(1000, 100, 1100, 51, 200)
	assert.True(t, ok)
	assert.Equal(t, 0, left)
	assert.Equal(t, 100, width)
}

func TestProjectMinimumWidth(t *testing.T) {
	// A 1bp feature in a 100kb window projects far under half a
	// percent of 1000px and gets the 8px floor.
	left, width, ok := Project(1000, 0, 100000, 50001, 50001)
	assert.True(t, ok)
	assert.Equal(t, minVisiblePx, width)
	assert.LessOrEqual(t, left+width, 1000)

	// A feature at the right edge keeps the floor without escaping
	// the track.
	left, width, ok = Project(1000, 0, 100000, 100000, 100000)
	assert.True(t, ok)
	assert.Equal(t, minVisiblePx, width)
	assert.Equal(t, 1000, left+width)
}

func TestRulerTicks(t *testing.T) {
	ticks := RulerTicks(1000, 0, 10000)
	assert.Len(t, ticks, 10)
	assert.Equal(t, 0, ticks[0].X)
	assert.Equal(t, 1, ticks[0].Pos)
	assert.Equal(t, "1", ticks[0].Label)
	assert.Equal(t, 900, ticks[9].X)
	assert.Equal(t, 9001, ticks[9].Pos)

	assert.Equal(t, "12.3k", formatPosition(12345))
	assert.Equal(t, "1.23M", formatPosition(1234567))
	assert.Equal(t, "9999", formatPosition(9999))
}

func TestPackLanes(t *testing.T) {
	lanes, count := packLanes([]interval{
		{start: 1, end: 100},
		{start: 50, end: 150},  // overlaps the first
		{start: 101, end: 200}, // fits after the first
		{start: 120, end: 180}, // overlaps both
	})
	assert.Equal(t, []int{0, 1, 0, 2}, lanes)
	assert.Equal(t, 3, count)

	lanes, count = packLanes(nil)
	assert.Empty(t, lanes)
	assert.Equal(t, 0, count)
}

func TestGeneLabelTiers(t *testing.T) {
	f := &models.Feature{Type: featureType.Gene, Qualifiers: map[string]string{"gene": "dnaA_replication"}}

	// Wide enough for the full tier but capped at 12 chars.
	assert.Equal(t, "dnaA_replic", geneLabel(f, 30, 1000)[:11])
	assert.Len(t, geneLabel(f, 30, 1000), labelCap)

	// Between the tiers: 3-char abbreviation.
	assert.Equal(t, "dna", geneLabel(f, 10, 1000))

	// Under the abbreviation tier: blank.
	assert.Equal(t, "", geneLabel(f, 5, 1000))

	// Priority order falls through gene > locus_tag > product.
	lt := &models.Feature{Type: featureType.CDS, Qualifiers: map[string]string{"locus_tag": "b0001", "product": "thr operon"}}
	assert.Equal(t, "b0001", geneLabel(lt, 100, 1000))
}

func newTestRenderer(t *testing.T) (*Renderer, *genome.Store) {
	t.Helper()
	store := genome.NewStore()
	store.PutSequence("chr1", strings.Repeat("ACGT", 2500)) // 10kb
	store.PutFeatures("chr1", []models.Feature{
		{Type: featureType.Gene, Start: 1, End: 900, Strand: constants.StrandForward,
			Qualifiers: map[string]string{"gene": "alpha"}},
		{Type: featureType.CDS, Start: 100, End: 108, Strand: constants.StrandForward,
			Qualifiers: map[string]string{"gene": "alpha"}},
		{Type: featureType.Gene, Start: 500, End: 1500, Strand: constants.StrandReverse,
			Qualifiers: map[string]string{"gene": "beta"}},
	})
	return NewRenderer(store), store
}

func baseRequest(state *tracks.State) Request {
	return Request{Chrom: "chr1", Start: 0, End: 10000, Width: 1000, State: state, SequenceCols: 60}
}

func TestRenderTrackStack(t *testing.T) {
	renderer, _ := newTestRenderer(t)
	layout := renderer.Render(baseRequest(tracks.DefaultState()))

	// Default visibility is ruler, genes, GC.
	assert.Len(t, layout.Tracks, 3)
	assert.Equal(t, trackKind.Ruler, layout.Tracks[0].Kind)
	assert.Equal(t, trackKind.Genes, layout.Tracks[1].Kind)
	assert.Equal(t, trackKind.GC, layout.Tracks[2].Kind)
	assert.Len(t, layout.Tracks[0].Ticks, 10)
	assert.Nil(t, layout.Sequence)
}

func TestRenderGenesLanesAndFilter(t *testing.T) {
	renderer, _ := newTestRenderer(t)
	state := tracks.DefaultState()

	// The gene class is filtered off by default, leaving the CDS.
	layout := renderer.Render(baseRequest(state))
	assert.Len(t, layout.Tracks[1].Elements, 1)

	state.SetFeatureVisible(featureType.Gene, true)
	layout = renderer.Render(baseRequest(state))
	genes := layout.Tracks[1]
	// The two genes overlap, so three elements across at least two
	// lanes.
	assert.Len(t, genes.Elements, 3)
	assert.GreaterOrEqual(t, genes.Lanes, 2)
	assert.Equal(t, genes.Lanes*tracks.LaneHeight+tracks.MinHeight, genes.Height)

	// Hiding CDS drops the CDS glyph.
	state.SetFeatureVisible(featureType.CDS, false)
	layout = renderer.Render(baseRequest(state))
	assert.Len(t, layout.Tracks[1].Elements, 2)
	for _, el := range layout.Tracks[1].Elements {
		assert.GreaterOrEqual(t, el.Index, 0)
	}
}

func TestRenderGCHueRamp(t *testing.T) {
	store := genome.NewStore()
	// First half pure AT, second half pure GC.
	store.PutSequence("chr1", strings.Repeat("AT", 500)+strings.Repeat("GC", 500))
	renderer := NewRenderer(store)

	state := tracks.DefaultState()
	layout := renderer.Render(Request{Chrom: "chr1", Start: 0, End: 1000, Width: 1000, State: state})
	gc := layout.Tracks[2]
	assert.NotEmpty(t, gc.Elements)

	first := gc.Elements[0]
	last := gc.Elements[len(gc.Elements)-1]
	assert.InDelta(t, 0.0, first.Value, 0.01)
	assert.InDelta(t, 120.0, first.Hue, 1.0)
	assert.InDelta(t, 1.0, last.Value, 0.01)
	assert.InDelta(t, 0.0, last.Hue, 1.0)
	// Hue is monotone non-increasing in GC.
	assert.GreaterOrEqual(t, first.Hue, last.Hue)
}

func TestRenderUnknownChromosome(t *testing.T) {
	renderer, _ := newTestRenderer(t)
	req := baseRequest(tracks.DefaultState())
	req.Chrom = "chrMissing"
	layout := renderer.Render(req)
	for _, track := range layout.Tracks {
		if track.Kind == trackKind.Ruler {
			continue
		}
		assert.Empty(t, track.Elements, "track %s", track.Kind)
	}
}

func TestRenderCacheIdempotence(t *testing.T) {
	renderer, store := newTestRenderer(t)
	req := baseRequest(tracks.DefaultState())

	first := renderer.Render(req)
	second := renderer.Render(req)
	assert.Same(t, first, second)

	// A model write invalidates via the version in the key.
	store.PutVariants("chr1", []models.Variant{{Chrom: "chr1", Pos: 50, Ref: "A", Alt: "T"}})
	third := renderer.Render(req)
	assert.NotSame(t, first, third)
	assert.Equal(t, store.Version(), third.Version)
}

func TestRenderVariantsAndReads(t *testing.T) {
	renderer, store := newTestRenderer(t)
	store.PutVariants("chr1", []models.Variant{
		{Chrom: "chr1", Pos: 100, Id: "rs1", Ref: "AT", Alt: "A"},
		{Chrom: "chr1", Pos: 5000, Id: "rs2", Ref: "G", Alt: "C"},
	})
	store.PutReads("chr1", []models.Read{
		{Name: "r1", Chrom: "chr1", Start: 90, End: 190, Strand: constants.StrandForward},
		{Name: "r2", Chrom: "chr1", Start: 150, End: 250, Strand: constants.StrandReverse},
	})
	state := tracks.DefaultState()
	state.SetVisible(trackKind.Variants, true)
	state.SetVisible(trackKind.Reads, true)

	layout := renderer.Render(baseRequest(state))
	byKind := map[constants.TrackKind]TrackLayout{}
	for _, track := range layout.Tracks {
		byKind[track.Kind] = track
	}

	variants := byKind[trackKind.Variants]
	assert.Len(t, variants.Elements, 2)
	assert.Equal(t, "rs1", variants.Elements[0].Label)
	assert.Equal(t, 0, variants.Elements[0].Index)

	reads := byKind[trackKind.Reads]
	assert.Len(t, reads.Elements, 2)
	assert.Equal(t, 2, reads.Lanes)
}

func TestProteinTrackAndTranslation(t *testing.T) {
	store := genome.NewStore()
	store.PutSequence("chr1", "ATGAAATAG"+strings.Repeat("C", 91))
	store.PutFeatures("chr1", []models.Feature{
		{Type: featureType.CDS, Start: 1, End: 9, Strand: constants.StrandForward,
			Qualifiers: map[string]string{"gene": "tiny"}},
	})
	renderer := NewRenderer(store)

	state := tracks.DefaultState()
	state.SetVisible(trackKind.Proteins, true)
	layout := renderer.Render(Request{Chrom: "chr1", Start: 0, End: 100, Width: 1000, State: state})

	var proteins TrackLayout
	for _, track := range layout.Tracks {
		if track.Kind == trackKind.Proteins {
			proteins = track
		}
	}
	assert.Len(t, proteins.Elements, 1)

	protein, ok := renderer.ProteinForFeature("chr1", proteins.Elements[0].Index)
	assert.True(t, ok)
	assert.Equal(t, "MK*", protein)

	_, ok = renderer.ProteinForFeature("chr1", 99)
	assert.False(t, ok)
}

func TestSequencePanelModes(t *testing.T) {
	store := genome.NewStore()
	store.PutSequence("chr1", "ATGAAATAG"+strings.Repeat("ACGT", 2300))
	store.PutFeatures("chr1", []models.Feature{
		{Type: featureType.CDS, Start: 1, End: 9, Strand: constants.StrandForward,
			Qualifiers: map[string]string{"gene": "tiny"}},
	})
	renderer := NewRenderer(store)
	state := tracks.DefaultState()
	state.SetVisible(trackKind.SequenceDetail, true)

	// <= 500bp: detail mode with translations.
	layout := renderer.Render(Request{Chrom: "chr1", Start: 0, End: 400, Width: 1000, State: state, SequenceCols: 60})
	assert.Equal(t, ModeDetail, layout.Sequence.Mode)
	assert.Equal(t, 1, layout.Sequence.Lines[0].Position)
	assert.Len(t, layout.Sequence.Lines[0].Bases, 60)
	assert.Len(t, layout.Sequence.Translations, 1)
	assert.Equal(t, "MK*", layout.Sequence.Translations[0].Protein)

	// <= 2000bp: wrapped, no translations.
	layout = renderer.Render(Request{Chrom: "chr1", Start: 0, End: 1500, Width: 1000, State: state, SequenceCols: 80})
	assert.Equal(t, ModeWrapped, layout.Sequence.Mode)
	assert.Empty(t, layout.Sequence.Translations)
	assert.Equal(t, 81, layout.Sequence.Lines[1].Position)

	// > 2000bp: density line at most Width cells.
	layout = renderer.Render(Request{Chrom: "chr1", Start: 0, End: 9000, Width: 500, State: state, SequenceCols: 80})
	assert.Equal(t, ModeDensity, layout.Sequence.Mode)
	assert.Empty(t, layout.Sequence.Lines)
	assert.Len(t, layout.Sequence.Density, 500)
}

func TestWrapCols(t *testing.T) {
	assert.Equal(t, 40, WrapCols(10))
	assert.Equal(t, 77, WrapCols(77))
	assert.Equal(t, 120, WrapCols(500))
}

func TestDensityLine(t *testing.T) {
	// Short input passes through untouched.
	assert.Equal(t, "ACGT", densityLine("ACGT", 10))

	// Dominant base per bin.
	line := densityLine(strings.Repeat("A", 50)+strings.Repeat("G", 50), 2)
	assert.Equal(t, "AG", line)
}
