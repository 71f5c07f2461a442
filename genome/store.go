// Package genome holds the in-memory model: sequences, features,
// variants and reads keyed by chromosome. Queries are shared-read;
// loads take a brief writer slot so readers never observe a torn mix.
package genome

import (
	"sync"

	"genoscope/models"
)

// indexThreshold is the per-chromosome feature count above which an
// interval tree is built. Correctness never depends on the index.
const indexThreshold = 10000

type Store struct {
	mu        sync.RWMutex
	sequences map[string]string
	order     []string
	features  map[string][]models.Feature
	variants  map[string][]models.Variant
	reads     map[string][]models.Read
	indexes   map[string]*featureIndex
	version   uint64
}

func NewStore() *Store {
	return &Store{
		sequences: map[string]string{},
		features:  map[string][]models.Feature{},
		variants:  map[string][]models.Variant{},
		reads:     map[string][]models.Read{},
		indexes:   map[string]*featureIndex{},
	}
}

// Version increases on every mutation; render caches key on it.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) PutSequence(chrom, bases string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, seen := s.sequences[chrom]; !seen {
		s.order = append(s.order, chrom)
	}
	s.sequences[chrom] = bases
	s.version++
}

// PutFeatures replaces the feature list of a chromosome.
func (s *Store) PutFeatures(chrom string, features []models.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features[chrom] = append([]models.Feature(nil), features...)
	delete(s.indexes, chrom)
	s.version++
}

// AppendFeatures adds to the existing list, preserving file order
// across loads (GFF/BED layer on top of GenBank annotations).
func (s *Store) AppendFeatures(chrom string, features []models.Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.features[chrom] = append(s.features[chrom], features...)
	delete(s.indexes, chrom)
	s.version++
}

func (s *Store) PutVariants(chrom string, variants []models.Variant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variants[chrom] = append([]models.Variant(nil), variants...)
	s.version++
}

func (s *Store) PutReads(chrom string, reads []models.Read) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[chrom] = append([]models.Read(nil), reads...)
	s.version++
}

// Reset drops everything (file reset); track state is not ours.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences = map[string]string{}
	s.order = nil
	s.features = map[string][]models.Feature{}
	s.variants = map[string][]models.Variant{}
	s.reads = map[string][]models.Read{}
	s.indexes = map[string]*featureIndex{}
	s.version++
}

// Chromosomes returns names in first-load order.
func (s *Store) Chromosomes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

func (s *Store) HasChromosome(chrom string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sequences[chrom]
	return ok
}

func (s *Store) SequenceLength(chrom string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sequences[chrom])
}

// Slice returns the bases of the 0-based half-open window [start,end),
// clamped to the sequence. Unknown chromosomes yield "".
func (s *Store) Slice(chrom string, start, end int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bases, ok := s.sequences[chrom]
	if !ok {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end > len(bases) {
		end = len(bases)
	}
	if start >= end {
		return ""
	}
	return bases[start:end]
}

// overlaps tests a 0-based half-open query [qs,qe) against a 1-based
// inclusive record [fs,fe].
func overlaps(fs, fe, qs, qe int) bool {
	return fs <= qe && fe >= qs+1
}

// FeaturesOverlapping returns the features of chrom intersecting the
// half-open window [start,end), in file order. A missing chromosome
// yields an empty result, not an error.
func (s *Store) FeaturesOverlapping(chrom string, start, end int) []models.Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	features := s.features[chrom]
	if len(features) > indexThreshold {
		return s.indexedOverlap(chrom, features, start, end)
	}
	var hits []models.Feature
	for _, f := range features {
		if overlaps(f.Start, f.End, start, end) {
			hits = append(hits, f)
		}
	}
	return hits
}

func (s *Store) VariantsOverlapping(chrom string, start, end int) []models.Variant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hits []models.Variant
	for _, v := range s.variants[chrom] {
		if overlaps(v.Pos, v.End(), start, end) {
			hits = append(hits, v)
		}
	}
	return hits
}

func (s *Store) ReadsOverlapping(chrom string, start, end int) []models.Read {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hits []models.Read
	for _, r := range s.reads[chrom] {
		if overlaps(r.Start, r.End, start, end) {
			hits = append(hits, r)
		}
	}
	return hits
}

// AllFeatures returns a copy of a chromosome's feature list.
func (s *Store) AllFeatures(chrom string) []models.Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Feature(nil), s.features[chrom]...)
}
