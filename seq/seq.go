// Package seq provides the DNA primitives shared by the renderer and
// the local tool handlers: complementing, translation via the standard
// genetic code, and GC arithmetic.
package seq

import "strings"

// Standard genetic code: DNA codon to amino acid (single letter).
var codonTable = map[string]byte{
	"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
	"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
	"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
	"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',

	"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
	"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
	"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
	"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

var complementMap = map[byte]byte{
	'A': 'T', 'T': 'A', 'G': 'C', 'C': 'G',
	'a': 't', 't': 'a', 'g': 'c', 'c': 'g',
	'N': 'N', 'n': 'n',
}

// Complement returns the complement of a single base. Ambiguity codes
// and anything else unrecognized pass through unchanged.
func Complement(base byte) byte {
	if c, ok := complementMap[base]; ok {
		return c
	}
	return base
}

// ReverseComplement complements each base and reverses the order.
// Involutive on ACGT input.
func ReverseComplement(dna string) string {
	out := make([]byte, len(dna))
	for i := 0; i < len(dna); i++ {
		out[len(dna)-1-i] = Complement(dna[i])
	}
	return string(out)
}

// TranslateCodon translates one codon; 'X' for unknown, '*' for stop.
func TranslateCodon(codon string) byte {
	if len(codon) != 3 {
		return 'X'
	}
	if aa, ok := codonTable[strings.ToUpper(codon)]; ok {
		return aa
	}
	return 'X'
}

// Translate translates a DNA string three bases per codon. The
// trailing partial codon, if any, is ignored, so the protein length is
// always len(dna)/3.
func Translate(dna string) string {
	var protein strings.Builder
	protein.Grow(len(dna) / 3)
	for i := 0; i+3 <= len(dna); i += 3 {
		protein.WriteByte(TranslateCodon(dna[i : i+3]))
	}
	return protein.String()
}

// TranslateCDS translates a coding sequence strand-aware: reverse
// strand sequences are reverse-complemented before translation.
func TranslateCDS(dna string, reverse bool) string {
	if reverse {
		dna = ReverseComplement(dna)
	}
	return Translate(dna)
}

// GCFraction returns the fraction of G and C bases, 0 for empty input.
func GCFraction(dna string) float64 {
	if len(dna) == 0 {
		return 0
	}
	gc := 0
	for i := 0; i < len(dna); i++ {
		switch dna[i] {
		case 'G', 'C', 'g', 'c':
			gc++
		}
	}
	return float64(gc) / float64(len(dna))
}

// GCBins splits the sequence into ~100 sub-windows (window size
// max(1, len/100)) and returns the GC fraction of each.
func GCBins(dna string) []float64 {
	if len(dna) == 0 {
		return nil
	}
	window := len(dna) / 100
	if window < 1 {
		window = 1
	}
	var bins []float64
	for i := 0; i < len(dna); i += window {
		end := i + window
		if end > len(dna) {
			end = len(dna)
		}
		bins = append(bins, GCFraction(dna[i:end]))
	}
	return bins
}

// IsPureACGT reports whether the string is non-empty and contains only
// unambiguous bases; the reverse-complement leg of a search is only
// attempted for such queries.
func IsPureACGT(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		default:
			return false
		}
	}
	return true
}
