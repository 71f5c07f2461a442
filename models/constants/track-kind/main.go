package trackKind

import (
	"strings"

	"genoscope/models/constants"
)

const (
	Ruler          constants.TrackKind = "ruler"
	Genes          constants.TrackKind = "genes"
	GC             constants.TrackKind = "gc"
	Variants       constants.TrackKind = "variants"
	Reads          constants.TrackKind = "reads"
	Proteins       constants.TrackKind = "proteins"
	SequenceDetail constants.TrackKind = "sequence"
)

// VerticalOrder is the fixed top-to-bottom ordering of the track
// stack. SequenceDetail is a bottom panel toggled independently and
// is deliberately not part of the stack.
func VerticalOrder() []constants.TrackKind {
	return []constants.TrackKind{Ruler, Genes, GC, Variants, Reads, Proteins}
}

func CastToTrackKind(text string) (constants.TrackKind, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "ruler":
		return Ruler, true
	case "genes":
		return Genes, true
	case "gc":
		return GC, true
	case "variants":
		return Variants, true
	case "reads":
		return Reads, true
	case "proteins":
		return Proteins, true
	case "sequence":
		return SequenceDetail, true
	default:
		return "", false
	}
}
