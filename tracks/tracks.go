// Package tracks owns the track stack: which kinds are visible, their
// fixed vertical order, explicit heights and the splitter commit
// rules. Track state outlives file loads.
package tracks

import (
	"gopkg.in/fatih/set.v0"

	"genoscope/models/constants"
	featureType "genoscope/models/constants/feature-type"
	trackKind "genoscope/models/constants/track-kind"
)

const (
	// MinHeight is the explicit-height floor for any track.
	MinHeight = 30
	// SplitterThreshold is the minimum splitter travel before a
	// resize commits; shorter drags are treated as clicks.
	SplitterThreshold = 5
	// autoFitPadding is added above the lane stack on auto-fit.
	autoFitPadding = 12
	// LaneHeight is the per-lane spacing used by auto-fit.
	LaneHeight = 14
)

type State struct {
	visible       set.Interface
	heights       map[constants.TrackKind]int // 0 = auto
	filters       map[constants.FeatureType]bool
	sequencePanel bool
}

// DefaultState applies the standardized defaults: visible {Genes, GC},
// feature filter `gene` off and `CDS` on, sequence panel off.
func DefaultState() *State {
	s := &State{
		visible: set.New(set.ThreadSafe),
		heights: map[constants.TrackKind]int{},
		filters: map[constants.FeatureType]bool{},
	}
	s.visible.Add(trackKind.Genes, trackKind.GC)
	for _, ft := range featureType.RenderAllowList() {
		s.filters[ft] = true
	}
	s.filters[featureType.Gene] = false
	s.filters[featureType.CDS] = true
	return s
}

// Visible reports whether kind is shown. Ruler is always present and
// not toggleable.
func (s *State) Visible(kind constants.TrackKind) bool {
	if kind == trackKind.Ruler {
		return true
	}
	if kind == trackKind.SequenceDetail {
		return s.sequencePanel
	}
	return s.visible.Has(kind)
}

func (s *State) SetVisible(kind constants.TrackKind, visible bool) {
	switch kind {
	case trackKind.Ruler:
		return
	case trackKind.SequenceDetail:
		s.sequencePanel = visible
		return
	}
	if visible {
		s.visible.Add(kind)
	} else {
		s.visible.Remove(kind)
	}
}

func (s *State) Toggle(kind constants.TrackKind) {
	s.SetVisible(kind, !s.Visible(kind))
}

// VisibleStack returns the shown track kinds in fixed vertical order.
func (s *State) VisibleStack() []constants.TrackKind {
	var stack []constants.TrackKind
	for _, kind := range trackKind.VerticalOrder() {
		if s.Visible(kind) {
			stack = append(stack, kind)
		}
	}
	return stack
}

// Height returns the explicit height of kind, 0 meaning auto.
func (s *State) Height(kind constants.TrackKind) int {
	return s.heights[kind]
}

// SetHeight records an explicit height, clamped to the floor. Zero
// resets the track to auto.
func (s *State) SetHeight(kind constants.TrackKind, height int) {
	if height <= 0 {
		delete(s.heights, kind)
		return
	}
	if height < MinHeight {
		height = MinHeight
	}
	s.heights[kind] = height
}

// CommitSplitterDrag applies a splitter drag between the upper and
// lower track: no-op within the threshold, otherwise both adjacent
// heights change by exactly ±delta, clamped to the floor.
func (s *State) CommitSplitterDrag(upper, lower constants.TrackKind, upperHeight, lowerHeight, delta int) bool {
	if delta >= -SplitterThreshold && delta <= SplitterThreshold {
		return false
	}
	newUpper := upperHeight + delta
	newLower := lowerHeight - delta
	if newUpper < MinHeight {
		newUpper = MinHeight
	}
	if newLower < MinHeight {
		newLower = MinHeight
	}
	s.heights[upper] = newUpper
	s.heights[lower] = newLower
	return true
}

// AutoFit sets kind's height to the smallest value accommodating
// laneCount lanes plus fixed padding (splitter double-click).
func (s *State) AutoFit(kind constants.TrackKind, laneCount int) {
	if laneCount < 1 {
		laneCount = 1
	}
	height := laneCount*LaneHeight + autoFitPadding
	if height < MinHeight {
		height = MinHeight
	}
	s.heights[kind] = height
}

// FeatureVisible consults the per-class filter; unknown classes
// default to visible.
func (s *State) FeatureVisible(ft constants.FeatureType) bool {
	if enabled, ok := s.filters[ft]; ok {
		return enabled
	}
	return true
}

func (s *State) SetFeatureVisible(ft constants.FeatureType, visible bool) {
	s.filters[ft] = visible
}

// Filters returns a copy of the per-class filter map.
func (s *State) Filters() map[constants.FeatureType]bool {
	copied := map[constants.FeatureType]bool{}
	for k, v := range s.filters {
		copied[k] = v
	}
	return copied
}
