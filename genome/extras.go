package genome

import (
	"fmt"
	"strings"

	"github.com/ahmetb/go-linq"
	"gonum.org/v1/gonum/stat"

	"genoscope/models"
	"genoscope/models/constants"
	"genoscope/seq"
)

// ExportFASTA renders the 0-based half-open window [start,end) as a
// single FASTA record with a 1-based header.
func (s *Store) ExportFASTA(chrom string, start, end int) (string, error) {
	length := s.SequenceLength(chrom)
	if length == 0 {
		return "", fmt.Errorf("unknown chromosome %q", chrom)
	}
	bases := s.Slice(chrom, start, end)
	if bases == "" {
		return "", fmt.Errorf("empty window %d-%d on %s", start, end, chrom)
	}
	if start < 0 {
		start = 0
	}
	return fmt.Sprintf(">%s:%d-%d\n%s", chrom, start+1, start+len(bases), bases), nil
}

// Overview summarizes every chromosome; the aggregate GC statistics
// feed the genome overview tool and the TUI header.
func (s *Store) Overview() models.GenomeOverview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	overview := models.GenomeOverview{}
	var gcs []float64
	for _, chrom := range s.order {
		bases := s.sequences[chrom]
		gc := seq.GCFraction(bases) * 100
		gcs = append(gcs, gc)
		overview.Chromosomes = append(overview.Chromosomes, models.ChromosomeSummary{
			Name:         chrom,
			Length:       len(bases),
			FeatureCount: len(s.features[chrom]),
			VariantCount: len(s.variants[chrom]),
			ReadCount:    len(s.reads[chrom]),
			GCPercent:    gc,
		})
	}
	if len(gcs) > 0 {
		overview.MeanGC = stat.Mean(gcs, nil)
		if len(gcs) > 1 {
			overview.StdDevGC = stat.StdDev(gcs, nil)
		}
	}
	return overview
}

// QualifierHit is one feature whose well-known qualifiers matched a
// search query.
type QualifierHit struct {
	Feature   models.Feature `json:"feature"`
	Qualifier string         `json:"qualifier"`
	Value     string         `json:"value"`
}

// SearchQualifiers scans a chromosome's features for a substring
// match on the well-known qualifier keys.
func (s *Store) SearchQualifiers(chrom, query string, caseSensitive bool) []QualifierHit {
	features := s.AllFeatures(chrom)
	needle := query
	if !caseSensitive {
		needle = strings.ToLower(query)
	}

	var hits []QualifierHit
	linq.From(features).
		SelectMany(func(item interface{}) linq.Query {
			f := item.(models.Feature)
			var matches []interface{}
			for _, key := range constants.WellKnownQualifiers {
				value, ok := f.Qualifiers[key]
				if !ok {
					continue
				}
				haystack := value
				if !caseSensitive {
					haystack = strings.ToLower(value)
				}
				if strings.Contains(haystack, needle) {
					matches = append(matches, QualifierHit{Feature: f, Qualifier: key, Value: value})
				}
			}
			return linq.From(matches)
		}).
		ToSlice(&hits)
	return hits
}
