package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout Genoscope and its
	associated services.
*/
type TrackKind string
type FeatureType string
type DispatchTarget string
type ErrorKind string

type Strand int8

const (
	StrandForward Strand = 1
	StrandReverse Strand = -1
)

// Fixed leading columns of the formats that carry per-sample
// or per-read payloads after the well-known headers.
var VcfHeaders = []string{"chrom", "pos", "id", "ref", "alt", "qual", "filter", "info", "format"}
var SamHeaders = []string{"qname", "flag", "rname", "pos", "mapq", "cigar", "rnext", "pnext", "tlen", "seq", "qual"}

// Qualifier keys probed, in order, when searching features or
// choosing a rendered label.
var WellKnownQualifiers = []string{"gene", "locus_tag", "product", "note", "name"}
