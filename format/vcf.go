package format

import (
	"errors"
	"strconv"
	"strings"

	"genoscope/models"
)

type VariantResult struct {
	ByChrom map[string][]models.Variant
	Diagnostics
}

// ParseVCF decodes VCF rows: at least eight tab-separated columns,
// 1-based positions, `.` meaning absent for id and quality.
func ParseVCF(data string) (*VariantResult, error) {
	if strings.TrimSpace(data) == "" {
		return nil, errors.New("empty VCF input")
	}

	result := &VariantResult{ByChrom: map[string][]models.Variant{}}
	for _, line := range splitLines(data) {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 8 {
			result.skip("VCF row with %d columns", len(cols))
			continue
		}
		pos, err := strconv.Atoi(cols[1])
		if err != nil || pos < 1 {
			result.skip("VCF row with bad position %q", cols[1])
			continue
		}
		variant := models.Variant{
			Chrom:  cols[0],
			Pos:    pos,
			Ref:    cols[3],
			Alt:    cols[4],
			Filter: cols[6],
			Info:   cols[7],
		}
		if cols[2] != "." {
			variant.Id = cols[2]
		}
		if cols[5] != "." {
			if qual, err := strconv.ParseFloat(cols[5], 64); err == nil {
				variant.Qual = &qual
			} else {
				result.skip("VCF row with bad quality %q", cols[5])
				continue
			}
		}
		result.ByChrom[variant.Chrom] = append(result.ByChrom[variant.Chrom], variant)
	}

	if len(result.ByChrom) == 0 {
		return nil, errors.New("no VCF records found")
	}
	return result, nil
}
