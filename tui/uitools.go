package tui

import (
	"fmt"
	"sort"
	"strings"

	"genoscope/genome"
	"genoscope/models"
	"genoscope/models/constants"
	featureType "genoscope/models/constants/feature-type"
	trackKind "genoscope/models/constants/track-kind"
	"genoscope/models/dtos"
	"genoscope/models/dtos/errors"

	"github.com/mitchellh/mapstructure"
)

// executeUITool answers one server-dispatched tool against the live
// model. It runs inside Update, so state access needs no locking.
func (m *Model) executeUITool(name string, params map[string]interface{}) (interface{}, error) {
	switch name {
	case "get_browser_state":
		return m.browserState(), nil

	case "get_sequence_region":
		var p struct {
			Chromosome string `mapstructure:"chromosome"`
			Start      int    `mapstructure:"start"`
			End        int    `mapstructure:"end"`
		}
		if err := mapstructure.WeakDecode(params, &p); err != nil {
			return nil, errors.NewInvalidParams(err.Error())
		}
		if !m.store.HasChromosome(p.Chromosome) {
			return nil, errors.NewNotFound(fmt.Sprintf("unknown chromosome %q", p.Chromosome))
		}
		if p.Start < 1 || p.End < p.Start {
			return nil, errors.NewInvalidParams("start and end must be 1-based with start <= end")
		}
		bases := m.store.Slice(p.Chromosome, p.Start-1, p.End)
		return map[string]interface{}{
			"chromosome": p.Chromosome,
			"start":      p.Start,
			"end":        p.Start + len(bases) - 1,
			"sequence":   bases,
		}, nil

	case "navigate_to":
		var p struct {
			Position string `mapstructure:"position"`
		}
		if err := mapstructure.WeakDecode(params, &p); err != nil {
			return nil, errors.NewInvalidParams(err.Error())
		}
		if err := m.vc.Goto(p.Position); err != nil {
			return nil, errors.NewInvalidParams(err.Error())
		}
		return m.browserState(), nil

	case "search_features":
		var p struct {
			Query                    string `mapstructure:"query"`
			CaseSensitive            bool   `mapstructure:"case_sensitive"`
			IncludeReverseComplement bool   `mapstructure:"include_reverse_complement"`
		}
		if err := mapstructure.WeakDecode(params, &p); err != nil {
			return nil, errors.NewInvalidParams(err.Error())
		}
		hits, err := m.vc.Search(p.Query, p.CaseSensitive, p.IncludeReverseComplement)
		if err != nil {
			return nil, errors.NewInvalidParams(err.Error())
		}
		return map[string]interface{}{"hits": hits, "count": len(hits)}, nil

	case "create_annotation":
		var p struct {
			Chromosome string `mapstructure:"chromosome"`
			Start      int    `mapstructure:"start"`
			End        int    `mapstructure:"end"`
			Type       string `mapstructure:"type"`
			Name       string `mapstructure:"name"`
		}
		if err := mapstructure.WeakDecode(params, &p); err != nil {
			return nil, errors.NewInvalidParams(err.Error())
		}
		if err := addAnnotation(m.store, p.Chromosome, p.Start, p.End, p.Type, p.Name); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"chromosome": p.Chromosome,
			"start":      p.Start,
			"end":        p.End,
			"name":       p.Name,
		}, nil

	case "set_track_visibility":
		var p struct {
			Track   string `mapstructure:"track"`
			Visible bool   `mapstructure:"visible"`
		}
		if err := mapstructure.WeakDecode(params, &p); err != nil {
			return nil, errors.NewInvalidParams(err.Error())
		}
		kind, ok := trackKind.CastToTrackKind(p.Track)
		if !ok {
			return nil, errors.NewInvalidParams(fmt.Sprintf("unknown track %q", p.Track))
		}
		m.state.SetVisible(kind, p.Visible)
		return map[string]interface{}{"track": string(kind), "visible": m.state.Visible(kind)}, nil

	case "get_genome_overview":
		return m.store.Overview(), nil
	}
	return nil, errors.NewInvalidParams(fmt.Sprintf("unknown UI tool %q", name))
}

// addAnnotation appends a user feature, 1-based inclusive.
func addAnnotation(store *genome.Store, chrom string, start, end int, featureKind, name string) error {
	if !store.HasChromosome(chrom) {
		return errors.NewNotFound(fmt.Sprintf("unknown chromosome %q", chrom))
	}
	length := store.SequenceLength(chrom)
	if start < 1 || end < start || end > length {
		return errors.NewInvalidParams(fmt.Sprintf("range %d-%d out of bounds for %s (1-%d)", start, end, chrom, length))
	}
	if strings.TrimSpace(name) == "" {
		return errors.NewInvalidParams("annotation name must not be empty")
	}
	if featureKind == "" {
		featureKind = "misc_feature"
	}
	store.AppendFeatures(chrom, []models.Feature{{
		Type:   featureType.CastToFeatureType(featureKind),
		Start:  start,
		End:    end,
		Strand: constants.StrandForward,
		Qualifiers: map[string]string{
			"name": name,
			"note": "user annotation",
		},
	}})
	return nil
}

func (m *Model) browserState() *dtos.BrowserState {
	start, end := m.vc.Window()
	state := &dtos.BrowserState{
		Chromosome:    m.vc.Chromosome(),
		Start:         start + 1,
		End:           end,
		LoadedFiles:   append([]string(nil), m.loadedFiles...),
		VisibleTracks: m.state.VisibleStack(),
	}
	return state
}

// pushState notifies the tool server that browser state changed.
func (m Model) pushState() Model {
	if m.bridge != nil {
		m.bridge.pushState(m.browserState())
	}
	return m
}

func (m Model) saveLayout() {
	_ = m.state.Save(layoutPath(m.cfg))
}

// trackWidth is the usable width for track columns after the gutter.
func (m Model) trackWidth() int {
	width := m.width - 2
	if width < 20 {
		width = 80
	}
	return width
}

// describeElement builds the detail overlay text for a clicked glyph.
func (m Model) describeElement(kind constants.TrackKind, index int) string {
	chrom := m.vc.Chromosome()
	switch kind {
	case trackKind.Genes, trackKind.Proteins:
		all := m.store.AllFeatures(chrom)
		if index < 0 || index >= len(all) {
			return ""
		}
		f := all[index]
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s\n", f.Type, f.Label())
		fmt.Fprintf(&b, "%s:%d-%d strand %+d\n", chrom, f.Start, f.End, f.Strand)
		keys := make([]string, 0, len(f.Qualifiers))
		for key := range f.Qualifiers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(&b, "  /%s=%s\n", key, f.Qualifiers[key])
		}
		if f.Type == featureType.CDS {
			if protein, ok := m.renderer.ProteinForFeature(chrom, index); ok {
				fmt.Fprintf(&b, "translation: %s\n", abbreviate(protein, 60))
			}
		}
		return b.String()
	case trackKind.Variants:
		length := m.store.SequenceLength(chrom)
		variants := m.store.VariantsOverlapping(chrom, 0, length)
		if index < 0 || index >= len(variants) {
			return ""
		}
		v := variants[index]
		qual := "."
		if v.Qual != nil {
			qual = fmt.Sprintf("%.1f", *v.Qual)
		}
		return fmt.Sprintf("variant %s\n%s:%d %s>%s\nqual %s filter %s\n%s\n",
			v.Id, chrom, v.Pos, v.Ref, v.Alt, qual, v.Filter, v.Info)
	case trackKind.Reads:
		start, end := m.vc.Window()
		reads := m.store.ReadsOverlapping(chrom, start, end)
		if index < 0 || index >= len(reads) {
			return ""
		}
		r := reads[index]
		return fmt.Sprintf("read %s\n%s:%d-%d strand %+d\nmapq %d cigar %s\n",
			r.Name, chrom, r.Start, r.End, r.Strand, r.MapQ, r.Cigar)
	}
	return ""
}

func abbreviate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
