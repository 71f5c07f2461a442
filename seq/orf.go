package seq

import "genoscope/models/constants"

// ORF is an open reading frame found by scanning all six frames:
// ATG through the next in-frame stop. Coordinates are 1-based
// inclusive on the forward strand regardless of the ORF's own strand.
type ORF struct {
	Start   int              `json:"start"`
	End     int              `json:"end"`
	Strand  constants.Strand `json:"strand"`
	Frame   int              `json:"frame"`
	Length  int              `json:"length"`
	Protein string           `json:"protein"`
}

// FindORFs scans both strands for ORFs of at least minLength bases
// (stop codon included). minLength <= 0 defaults to 300, roughly the
// conventional 100-residue floor.
func FindORFs(dna string, minLength int) []ORF {
	if minLength <= 0 {
		minLength = 300
	}
	upper := []byte(dna)
	for i, b := range upper {
		if b >= 'a' && b <= 'z' {
			upper[i] = b - 32
		}
	}
	forward := string(upper)
	reverse := ReverseComplement(forward)

	var orfs []ORF
	orfs = append(orfs, scanStrand(forward, constants.StrandForward, len(dna), minLength)...)
	orfs = append(orfs, scanStrand(reverse, constants.StrandReverse, len(dna), minLength)...)
	return orfs
}

func scanStrand(dna string, strand constants.Strand, total, minLength int) []ORF {
	var orfs []ORF
	for frame := 0; frame < 3; frame++ {
		for i := frame; i+3 <= len(dna); i += 3 {
			if dna[i:i+3] != "ATG" {
				continue
			}
			for j := i + 3; j+3 <= len(dna); j += 3 {
				if aa := TranslateCodon(dna[j : j+3]); aa != '*' {
					continue
				}
				length := j + 3 - i
				if length >= minLength {
					start, end := i+1, j+3
					if strand == constants.StrandReverse {
						// Map back onto forward coordinates.
						start, end = total-(j+3)+1, total-i
					}
					orfs = append(orfs, ORF{
						Start:   start,
						End:     end,
						Strand:  strand,
						Frame:   frame + 1,
						Length:  length,
						Protein: Translate(dna[i : j+3]),
					})
				}
				// Next ATG after this stop.
				i = j
				break
			}
		}
	}
	return orfs
}
