package format

import (
	"errors"
	"strconv"
	"strings"

	"genoscope/models"
	"genoscope/models/constants"
	featureType "genoscope/models/constants/feature-type"
)

// ParseBED decodes BED rows: at least chrom/start/end, optional
// name/score/strand. BED is 0-based half-open on disk; records are
// converted to 1-based inclusive (start+1, end).
func ParseBED(data string) (*FeatureResult, error) {
	if strings.TrimSpace(data) == "" {
		return nil, errors.New("empty BED input")
	}

	result := &FeatureResult{ByChrom: map[string][]models.Feature{}}
	for _, line := range splitLines(data) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "track") || strings.HasPrefix(trimmed, "browser") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 3 {
			result.skip("BED row with %d columns", len(cols))
			continue
		}
		start, errS := strconv.Atoi(cols[1])
		end, errE := strconv.Atoi(cols[2])
		if errS != nil || errE != nil || start < 0 || end <= start {
			result.skip("BED row with bad interval %q-%q", cols[1], cols[2])
			continue
		}
		feature := models.Feature{
			Type:       featureType.BedFeature,
			Start:      start + 1,
			End:        end,
			Strand:     constants.StrandForward,
			Qualifiers: map[string]string{},
		}
		if len(cols) > 3 && cols[3] != "" && cols[3] != "." {
			feature.Qualifiers["name"] = cols[3]
		}
		if len(cols) > 4 && cols[4] != "" && cols[4] != "." {
			feature.Qualifiers["score"] = cols[4]
		}
		if len(cols) > 5 && cols[5] == "-" {
			feature.Strand = constants.StrandReverse
		}
		result.ByChrom[cols[0]] = append(result.ByChrom[cols[0]], feature)
	}

	if len(result.ByChrom) == 0 {
		return nil, errors.New("no BED records found")
	}
	return result, nil
}
