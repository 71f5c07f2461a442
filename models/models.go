package models

import (
	"genoscope/models/constants"
)

// Feature is an annotated genomic interval. Coordinates are 1-based
// inclusive, matching the user-visible convention; parsers convert
// from whatever the source format uses.
type Feature struct {
	Type       constants.FeatureType `json:"type"`
	Start      int                   `json:"start"`
	End        int                   `json:"end"`
	Strand     constants.Strand      `json:"strand"`
	Qualifiers map[string]string     `json:"qualifiers"`
}

// Label picks the display name for a feature, probing qualifiers in
// priority order and falling back to the type token.
func (f *Feature) Label() string {
	for _, key := range []string{"gene", "locus_tag", "product"} {
		if v, ok := f.Qualifiers[key]; ok && v != "" {
			return v
		}
	}
	return string(f.Type)
}

type Variant struct {
	Chrom  string   `json:"chrom"`
	Pos    int      `json:"pos"`
	Id     string   `json:"id"`
	Ref    string   `json:"ref"`
	Alt    string   `json:"alt"`
	Qual   *float64 `json:"qual"`
	Filter string   `json:"filter"`
	Info   string   `json:"info"`
}

// End is derived: the last reference base touched by the variant.
func (v *Variant) End() int {
	return v.Pos + len(v.Ref) - 1
}

type Read struct {
	Name   string           `json:"name"`
	Chrom  string           `json:"chrom"`
	Start  int              `json:"start"`
	End    int              `json:"end"`
	Strand constants.Strand `json:"strand"`
	MapQ   int              `json:"mapq"`
	Cigar  string           `json:"cigar"`
	Seq    string           `json:"seq"`
	Quals  string           `json:"quals"`
}

// ChromosomeSummary backs the genome overview tool and the TUI header.
type ChromosomeSummary struct {
	Name         string  `json:"name"`
	Length       int     `json:"length"`
	FeatureCount int     `json:"featureCount"`
	VariantCount int     `json:"variantCount"`
	ReadCount    int     `json:"readCount"`
	GCPercent    float64 `json:"gcPercent"`
}

type GenomeOverview struct {
	Chromosomes []ChromosomeSummary `json:"chromosomes"`
	MeanGC      float64             `json:"meanGC"`
	StdDevGC    float64             `json:"stdDevGC"`
}
