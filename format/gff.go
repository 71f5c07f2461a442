package format

import (
	"errors"
	"strconv"
	"strings"

	"genoscope/models"
	"genoscope/models/constants"
	featureType "genoscope/models/constants/feature-type"
)

type FeatureResult struct {
	// ByChrom preserves file order within each chromosome.
	ByChrom map[string][]models.Feature
	Diagnostics
}

// ParseGFF decodes GFF3/GTF: nine tab-separated columns, 1-based
// inclusive coordinates, attributes split on ';' then on '=' (GFF3)
// with a fallback to the first whitespace (GTF). Quotes stripped.
func ParseGFF(data string) (*FeatureResult, error) {
	if strings.TrimSpace(data) == "" {
		return nil, errors.New("empty GFF input")
	}

	result := &FeatureResult{ByChrom: map[string][]models.Feature{}}
	for _, line := range splitLines(data) {
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 9 {
			result.skip("GFF row with %d columns", len(cols))
			continue
		}
		start, errS := strconv.Atoi(cols[3])
		end, errE := strconv.Atoi(cols[4])
		if errS != nil || errE != nil || start < 1 || end < start {
			result.skip("GFF row with bad coordinates %q..%q", cols[3], cols[4])
			continue
		}
		strand := constants.StrandForward
		if cols[6] == "-" {
			strand = constants.StrandReverse
		}
		feature := models.Feature{
			Type:       featureType.CastToFeatureType(cols[2]),
			Start:      start,
			End:        end,
			Strand:     strand,
			Qualifiers: parseAttributes(cols[8]),
		}
		result.ByChrom[cols[0]] = append(result.ByChrom[cols[0]], feature)
	}

	if len(result.ByChrom) == 0 {
		return nil, errors.New("no GFF records found")
	}
	return result, nil
}

// parseAttributes handles both the GFF3 `key=value` and the GTF
// `key "value"` flavors; keys are lowercased so qualifier lookups are
// uniform across formats.
func parseAttributes(clump string) map[string]string {
	attrs := map[string]string{}
	for _, item := range strings.Split(clump, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		var key, value string
		if idx := strings.Index(item, "="); idx >= 0 {
			key, value = item[:idx], item[idx+1:]
		} else if idx := strings.IndexAny(item, " \t"); idx >= 0 {
			key, value = item[:idx], item[idx+1:]
		} else {
			key = item
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		attrs[key] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return attrs
}
