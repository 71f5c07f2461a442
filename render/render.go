// Package render projects model slices into positioned elements, one
// layout per (viewport, tracks, heights, model version) tuple. The
// projection is idempotent and memoized.
package render

import (
	"genoscope/genome"
	"genoscope/models"
	"genoscope/models/constants"
	featureType "genoscope/models/constants/feature-type"
	trackKind "genoscope/models/constants/track-kind"
	"genoscope/seq"
	"genoscope/tracks"
	"genoscope/utils"
)

// Label display tiers, as fractions of the track width.
const (
	labelFullTier   = 0.02
	labelAbbrevTier = 0.008
	labelCap        = 12
	labelAbbrev     = 3
)

// Element is one positioned glyph. Index points back into the
// per-track record list (feature/variant/read order as stored), never
// an owning reference.
type Element struct {
	Left   int              `json:"left"`
	Width  int              `json:"width"`
	Lane   int              `json:"lane"`
	Label  string           `json:"label,omitempty"`
	Strand constants.Strand `json:"strand,omitempty"`
	Index  int              `json:"index"`
	Value  float64          `json:"value,omitempty"`
	Hue    float64          `json:"hue,omitempty"`
}

type TrackLayout struct {
	Kind     constants.TrackKind `json:"kind"`
	Height   int                 `json:"height"`
	Lanes    int                 `json:"lanes"`
	Ticks    []Tick              `json:"ticks,omitempty"`
	Elements []Element           `json:"elements,omitempty"`
}

type Layout struct {
	Chrom    string        `json:"chrom"`
	Start    int           `json:"start"`
	End      int           `json:"end"`
	Width    int           `json:"width"`
	Version  uint64        `json:"version"`
	Tracks   []TrackLayout `json:"tracks"`
	Sequence *SequencePanel `json:"sequence,omitempty"`
}

type Renderer struct {
	store *genome.Store
	cache *layoutCache
}

func NewRenderer(store *genome.Store) *Renderer {
	return &Renderer{store: store, cache: newLayoutCache(64)}
}

// Request fixes everything a layout depends on.
type Request struct {
	Chrom      string
	Start, End int
	Width      int
	State      *tracks.State
	// SequenceCols is the wrap width for the sequence panel, already
	// derived from the container (40-120).
	SequenceCols int
}

// Render produces (or recalls) the layout for req. A chromosome
// absent from the store yields empty tracks, not an error.
func (r *Renderer) Render(req Request) *Layout {
	version := r.store.Version()
	key := cacheKey(req, version)
	if cached, ok := r.cache.get(key); ok {
		return cached
	}

	layout := &Layout{
		Chrom:   req.Chrom,
		Start:   req.Start,
		End:     req.End,
		Width:   req.Width,
		Version: version,
	}
	for _, kind := range req.State.VisibleStack() {
		track := TrackLayout{Kind: kind, Height: req.State.Height(kind)}
		switch kind {
		case trackKind.Ruler:
			track.Ticks = RulerTicks(req.Width, req.Start, req.End)
			if track.Height == 0 {
				track.Height = tracks.MinHeight
			}
		case trackKind.Genes:
			track.Elements, track.Lanes = r.renderGenes(req)
		case trackKind.GC:
			track.Elements = r.renderGC(req)
		case trackKind.Variants:
			track.Elements = r.renderVariants(req)
		case trackKind.Reads:
			track.Elements, track.Lanes = r.renderReads(req)
		case trackKind.Proteins:
			track.Elements = r.renderProteins(req)
		}
		if track.Height == 0 && track.Lanes > 0 {
			track.Height = track.Lanes*tracks.LaneHeight + tracks.MinHeight
		}
		layout.Tracks = append(layout.Tracks, track)
	}
	if req.State.Visible(trackKind.SequenceDetail) {
		layout.Sequence = r.renderSequence(req)
	}

	r.cache.put(key, layout)
	return layout
}

// geneVisible applies the allow-list and the user's per-class filter.
func geneVisible(state *tracks.State, f *models.Feature) bool {
	allowed := false
	for _, ft := range featureType.RenderAllowList() {
		if f.Type == ft {
			allowed = true
			break
		}
	}
	return allowed && state.FeatureVisible(f.Type)
}

func (r *Renderer) renderGenes(req Request) ([]Element, int) {
	features := r.store.FeaturesOverlapping(req.Chrom, req.Start, req.End)
	all := r.store.AllFeatures(req.Chrom)

	var elements []Element
	var spans []interval
	for _, f := range features {
		if !geneVisible(req.State, &f) {
			continue
		}
		left, width, ok := Project(req.Width, req.Start, req.End, f.Start, f.End)
		if !ok {
			continue
		}
		elements = append(elements, Element{
			Left:   left,
			Width:  width,
			Label:  geneLabel(&f, width, req.Width),
			Strand: f.Strand,
			Index:  featureIndexOf(all, &f),
		})
		spans = append(spans, interval{start: f.Start, end: f.End})
	}
	laneNumbers, laneCount := packLanes(spans)
	for i := range elements {
		elements[i].Lane = laneNumbers[i]
	}
	return elements, laneCount
}

// geneLabel picks from qualifiers in priority order and applies the
// display tiers: full (12-char cap), 3-char abbreviation, blank.
func geneLabel(f *models.Feature, widthPx, trackWidth int) string {
	label := ""
	for _, key := range []string{"gene", "locus_tag", "product"} {
		if v := f.Qualifiers[key]; v != "" {
			label = v
			break
		}
	}
	if label == "" {
		label = string(f.Type)
	}

	fraction := float64(widthPx) / float64(trackWidth)
	switch {
	case fraction >= labelFullTier:
		if len(label) > labelCap {
			label = label[:labelCap]
		}
		return label
	case fraction >= labelAbbrevTier:
		if len(label) > labelAbbrev {
			label = label[:labelAbbrev]
		}
		return label
	default:
		return ""
	}
}

// featureIndexOf locates a feature in the full list by identity of
// coordinates and type; overlapping queries preserve order, so scan
// from the front.
func featureIndexOf(all []models.Feature, f *models.Feature) int {
	for i := range all {
		if all[i].Start == f.Start && all[i].End == f.End && all[i].Type == f.Type {
			return i
		}
	}
	return -1
}

func (r *Renderer) renderGC(req Request) []Element {
	bases := r.store.Slice(req.Chrom, req.Start, req.End)
	if bases == "" {
		return nil
	}
	bins := seq.GCBins(bases)
	window := len(bases) / 100
	if window < 1 {
		window = 1
	}
	var elements []Element
	for i, gc := range bins {
		binStart := req.Start + i*window
		binEnd := binStart + window
		if binEnd > req.End {
			binEnd = req.End
		}
		left, width, ok := Project(req.Width, req.Start, req.End, binStart+1, binEnd)
		if !ok {
			continue
		}
		elements = append(elements, Element{
			Left:  left,
			Width: width,
			Index: i,
			Value: gc,
			// Monotonic hue ramp, green at low GC through red at high.
			Hue: 120 - 120*gc,
		})
	}
	return elements
}

func (r *Renderer) renderVariants(req Request) []Element {
	variants := r.store.VariantsOverlapping(req.Chrom, req.Start, req.End)
	all := r.store.VariantsOverlapping(req.Chrom, 0, r.store.SequenceLength(req.Chrom))
	var elements []Element
	for _, v := range variants {
		left, width, ok := Project(req.Width, req.Start, req.End, v.Pos, v.End())
		if !ok {
			continue
		}
		index := -1
		for i := range all {
			if all[i].Pos == v.Pos && all[i].Ref == v.Ref && all[i].Alt == v.Alt {
				index = i
				break
			}
		}
		elements = append(elements, Element{
			Left:  left,
			Width: width,
			Label: v.Id,
			Index: index,
		})
	}
	return elements
}

func (r *Renderer) renderReads(req Request) ([]Element, int) {
	reads := r.store.ReadsOverlapping(req.Chrom, req.Start, req.End)
	var elements []Element
	var spans []interval
	for i, read := range reads {
		left, width, ok := Project(req.Width, req.Start, req.End, read.Start, read.End)
		if !ok {
			continue
		}
		elements = append(elements, Element{
			Left:   left,
			Width:  width,
			Strand: read.Strand,
			Index:  i,
			Label:  read.Name,
		})
		spans = append(spans, interval{start: read.Start, end: read.End})
	}
	laneNumbers, laneCount := packLanes(spans)
	for i := range elements {
		elements[i].Lane = laneNumbers[i]
	}
	return elements, laneCount
}

// renderProteins emits one glyph per CDS passing the gene filter.
func (r *Renderer) renderProteins(req Request) []Element {
	features := r.store.FeaturesOverlapping(req.Chrom, req.Start, req.End)
	all := r.store.AllFeatures(req.Chrom)
	var elements []Element
	for _, f := range features {
		if f.Type != featureType.CDS || !req.State.FeatureVisible(featureType.CDS) {
			continue
		}
		left, width, ok := Project(req.Width, req.Start, req.End, f.Start, f.End)
		if !ok {
			continue
		}
		elements = append(elements, Element{
			Left:   left,
			Width:  width,
			Label:  geneLabel(&f, width, req.Width),
			Strand: f.Strand,
			Index:  featureIndexOf(all, &f),
		})
	}
	return elements
}

// ProteinForFeature translates the CDS at index in chrom's feature
// list, strand-aware via the standard genetic code.
func (r *Renderer) ProteinForFeature(chrom string, index int) (string, bool) {
	all := r.store.AllFeatures(chrom)
	if index < 0 || index >= len(all) {
		return "", false
	}
	f := all[index]
	bases := r.store.Slice(chrom, f.Start-1, f.End)
	if bases == "" {
		return "", false
	}
	return seq.TranslateCDS(bases, f.Strand == constants.StrandReverse), true
}

// cacheKey folds everything Render depends on into a string.
func cacheKey(req Request, version uint64) string {
	return utils.HashParts(
		req.Chrom, req.Start, req.End, req.Width, version, req.SequenceCols,
		req.State.VisibleStack(), req.State.Filters(), heightsOf(req.State),
	)
}

func heightsOf(state *tracks.State) map[constants.TrackKind]int {
	heights := map[constants.TrackKind]int{}
	for _, kind := range trackKind.VerticalOrder() {
		if h := state.Height(kind); h > 0 {
			heights[kind] = h
		}
	}
	return heights
}
