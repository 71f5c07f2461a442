package featureType

import (
	"strings"

	"genoscope/models/constants"
)

const (
	Gene         constants.FeatureType = "gene"
	CDS          constants.FeatureType = "CDS"
	MRNA         constants.FeatureType = "mRNA"
	TRNA         constants.FeatureType = "tRNA"
	RRNA         constants.FeatureType = "rRNA"
	MiscFeature  constants.FeatureType = "misc_feature"
	Regulatory   constants.FeatureType = "regulatory"
	Promoter     constants.FeatureType = "promoter"
	Terminator   constants.FeatureType = "terminator"
	RepeatRegion constants.FeatureType = "repeat_region"
	BedFeature   constants.FeatureType = "BED_feature"
)

// RenderAllowList enumerates the feature classes the gene track is
// willing to draw; anything else (free-string types included) is
// filtered out before lane packing.
func RenderAllowList() []constants.FeatureType {
	return []constants.FeatureType{
		Gene, CDS, MRNA, TRNA, RRNA, MiscFeature,
		Regulatory, Promoter, Terminator, RepeatRegion, BedFeature,
	}
}

// CastToFeatureType normalizes a raw type token from a GenBank/GFF/GTF
// row. Unrecognized tokens are kept verbatim as free-string types.
func CastToFeatureType(text string) constants.FeatureType {
	trimmed := strings.TrimSpace(text)
	switch strings.ToLower(trimmed) {
	case "gene":
		return Gene
	case "cds":
		return CDS
	case "mrna":
		return MRNA
	case "trna":
		return TRNA
	case "rrna":
		return RRNA
	case "misc_feature":
		return MiscFeature
	case "regulatory":
		return Regulatory
	case "promoter":
		return Promoter
	case "terminator":
		return Terminator
	case "repeat_region":
		return RepeatRegion
	default:
		return constants.FeatureType(trimmed)
	}
}
