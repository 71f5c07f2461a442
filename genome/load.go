package genome

import (
	"genoscope/format"
	"genoscope/models"
)

// Apply merges one parsed file into the store with the lifecycle
// semantics of each format: FASTA and GenBank replace sequence plus
// features for their chromosomes, GFF/BED add features, VCF sets
// variants, SAM sets reads.
func (s *Store) Apply(load *format.Load) {
	switch load.Kind {
	case format.KindFasta:
		for _, chrom := range load.Fasta.Order {
			s.PutSequence(chrom, load.Fasta.Sequences[chrom])
			s.PutFeatures(chrom, nil)
		}
	case format.KindGenBank:
		for _, record := range load.GenBank.Records {
			s.PutSequence(record.Locus, record.Sequence)
			s.PutFeatures(record.Locus, clampFeatures(record.Features, len(record.Sequence)))
		}
	case format.KindGFF, format.KindBED:
		for chrom, features := range load.Features.ByChrom {
			s.AppendFeatures(chrom, clampFeatures(features, s.SequenceLength(chrom)))
		}
	case format.KindVCF:
		for chrom, variants := range load.Variants.ByChrom {
			s.PutVariants(chrom, clampVariants(variants, s.SequenceLength(chrom)))
		}
	case format.KindSAM:
		for chrom, reads := range load.Reads.ByChrom {
			s.PutReads(chrom, clampReads(reads, s.SequenceLength(chrom)))
		}
	}
}

// clampFeatures enforces 1 <= start <= end <= len(sequence). When no
// sequence is loaded yet (length 0) the upper bound is unknown and
// features pass through untouched; the dependent track renders empty
// until the sequence arrives.
func clampFeatures(features []models.Feature, length int) []models.Feature {
	var kept []models.Feature
	for _, f := range features {
		if f.Start < 1 || f.End < f.Start {
			continue
		}
		if length > 0 && f.End > length {
			if f.Start > length {
				continue
			}
			f.End = length
		}
		kept = append(kept, f)
	}
	return kept
}

// clampVariants drops records that fall outside the loaded sequence.
// A variant cannot be trimmed since its Ref allele must match the
// reference bases it spans.
func clampVariants(variants []models.Variant, length int) []models.Variant {
	var kept []models.Variant
	for _, v := range variants {
		if v.Pos < 1 {
			continue
		}
		if length > 0 && v.End() > length {
			continue
		}
		kept = append(kept, v)
	}
	return kept
}

// clampReads trims alignments to the loaded sequence and drops those
// starting beyond it.
func clampReads(reads []models.Read, length int) []models.Read {
	var kept []models.Read
	for _, r := range reads {
		if r.Start < 1 || r.End < r.Start {
			continue
		}
		if length > 0 {
			if r.Start > length {
				continue
			}
			if r.End > length {
				r.End = length
			}
		}
		kept = append(kept, r)
	}
	return kept
}
