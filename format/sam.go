package format

import (
	"errors"
	"strconv"
	"strings"

	"genoscope/models"
	"genoscope/models/constants"

	"github.com/biogo/hts/sam"
)

type ReadResult struct {
	ByChrom map[string][]models.Read
	// Unmapped counts reads discarded for rname `*` or position 0;
	// they are expected input, not diagnostics.
	Unmapped int
	Diagnostics
}

const samFlagReverse = 0x10

// ParseSAM decodes SAM alignment rows: at least eleven tab-separated
// columns, `@` header lines skipped, unmapped reads discarded. The
// read end is CIGAR-precise when the CIGAR parses, approximated as
// pos+len(seq)-1 otherwise.
func ParseSAM(data string) (*ReadResult, error) {
	if strings.TrimSpace(data) == "" {
		return nil, errors.New("empty SAM input")
	}

	result := &ReadResult{ByChrom: map[string][]models.Read{}}
	for _, line := range splitLines(data) {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "@") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 11 {
			result.skip("SAM row with %d columns", len(cols))
			continue
		}
		flag, errF := strconv.Atoi(cols[1])
		pos, errP := strconv.Atoi(cols[3])
		if errF != nil || errP != nil {
			result.skip("SAM row with bad flag/pos %q/%q", cols[1], cols[3])
			continue
		}
		if cols[2] == "*" || pos == 0 {
			result.Unmapped++
			continue
		}
		mapq, _ := strconv.Atoi(cols[4])

		strand := constants.StrandForward
		if flag&samFlagReverse != 0 {
			strand = constants.StrandReverse
		}

		read := models.Read{
			Name:   cols[0],
			Chrom:  cols[2],
			Start:  pos,
			End:    readEnd(pos, cols[5], cols[9]),
			Strand: strand,
			MapQ:   mapq,
			Cigar:  cols[5],
			Seq:    cols[9],
			Quals:  cols[10],
		}
		result.ByChrom[read.Chrom] = append(result.ByChrom[read.Chrom], read)
	}

	if len(result.ByChrom) == 0 && result.Unmapped == 0 {
		return nil, errors.New("no SAM records found")
	}
	return result, nil
}

// readEnd computes the last reference base covered by the alignment
// from the reference-consuming CIGAR operations.
func readEnd(pos int, cigar, seq string) int {
	if cigar != "" && cigar != "*" {
		if ops, err := sam.ParseCigar([]byte(cigar)); err == nil {
			ref := 0
			for _, co := range ops {
				ref += co.Len() * co.Type().Consumes().Reference
			}
			if ref > 0 {
				return pos + ref - 1
			}
		}
	}
	if seq == "*" || len(seq) == 0 {
		return pos
	}
	return pos + len(seq) - 1
}
