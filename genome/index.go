package genome

import (
	"sort"

	"github.com/biogo/store/interval"

	"genoscope/models"
)

// featureIndex is a lazily built interval tree over one chromosome's
// feature list. UIDs are list positions so tree hits can be restored
// to file order.
type featureIndex struct {
	tree    *interval.IntTree
	version uint64
}

type featureInterval struct {
	start, end int
	uid        uintptr
}

func (iv featureInterval) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return iv.end > b.Start && iv.start < b.End
}

func (iv featureInterval) ID() uintptr { return iv.uid }

func (iv featureInterval) Range() interval.IntRange {
	return interval.IntRange{Start: iv.start, End: iv.end}
}

func buildFeatureIndex(features []models.Feature) *featureIndex {
	tree := &interval.IntTree{}
	for i, f := range features {
		// Store 1-based inclusive records as 0-based half-open.
		iv := featureInterval{start: f.Start - 1, end: f.End, uid: uintptr(i)}
		if err := tree.Insert(iv, false); err != nil {
			// Degenerate interval; the linear path still sees it.
			continue
		}
	}
	tree.AdjustRanges()
	return &featureIndex{tree: tree}
}

// query returns the indices of features overlapping the 0-based
// half-open window [start,end), sorted back into file order.
func (idx *featureIndex) query(start, end int) []int {
	probe := featureInterval{start: start, end: end}
	var positions []int
	for _, hit := range idx.tree.Get(probe) {
		positions = append(positions, int(hit.ID()))
	}
	sort.Ints(positions)
	return positions
}

// indexedOverlap consults (building on first use) the interval tree.
// Caller holds at least the read lock; the index map write is guarded
// by a second check under the full lock.
func (s *Store) indexedOverlap(chrom string, features []models.Feature, start, end int) []models.Feature {
	idx := s.indexes[chrom]
	if idx == nil {
		// Upgrade: drop the read lock, build against the captured
		// slice, publish only if no load raced in between.
		version := s.version
		s.mu.RUnlock()
		built := buildFeatureIndex(features)
		built.version = version
		s.mu.Lock()
		if s.indexes[chrom] == nil && s.version == version {
			s.indexes[chrom] = built
		}
		s.mu.Unlock()
		s.mu.RLock()
		idx = built
	}
	var hits []models.Feature
	for _, pos := range idx.query(start, end) {
		if pos < len(features) {
			hits = append(hits, features[pos])
		}
	}
	return hits
}
