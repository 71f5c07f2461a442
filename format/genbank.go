package format

import (
	"errors"
	"strconv"
	"strings"

	"genoscope/models"
	"genoscope/models/constants"
	featureType "genoscope/models/constants/feature-type"
)

type GenBankRecord struct {
	Locus    string
	Sequence string
	Features []models.Feature
}

type GenBankResult struct {
	Records []GenBankRecord
	Diagnostics
}

type genbankState int

const (
	statePreamble genbankState = iota
	stateFeatures
	stateOrigin
)

// ParseGenBank runs the line-prefix state machine over GenBank text.
// `LOCUS ` at column 0 starts a record, `FEATURES` and `ORIGIN`
// switch sections, `//` terminates. Feature lines start with exactly
// five spaces and a word; qualifier continuations with 21 spaces and
// a slash. Unparseable locations are dropped and counted.
func ParseGenBank(data string) (*GenBankResult, error) {
	if strings.TrimSpace(data) == "" {
		return nil, errors.New("empty GenBank input")
	}

	result := &GenBankResult{}
	state := statePreamble

	var record *GenBankRecord
	var sequence strings.Builder
	var pending *models.Feature
	pendingValid := false

	flushFeature := func() {
		if pending == nil {
			return
		}
		if pendingValid && record != nil {
			record.Features = append(record.Features, *pending)
		} else if !pendingValid {
			result.skip("unparseable location for %s feature", pending.Type)
		}
		pending = nil
	}
	flushRecord := func() {
		flushFeature()
		if record == nil {
			return
		}
		record.Sequence = sequence.String()
		sequence.Reset()
		result.Records = append(result.Records, *record)
		record = nil
	}

	for _, line := range splitLines(data) {
		switch {
		case strings.HasPrefix(line, "LOCUS "):
			flushRecord()
			state = statePreamble
			record = &GenBankRecord{}
			if fields := strings.Fields(line); len(fields) > 1 {
				record.Locus = fields[1]
			}

		case strings.HasPrefix(line, "FEATURES"):
			state = stateFeatures

		case strings.HasPrefix(line, "ORIGIN"):
			flushFeature()
			state = stateOrigin

		case strings.HasPrefix(line, "//"):
			flushRecord()
			state = statePreamble

		case state == stateFeatures && record != nil:
			if isFeatureStart(line) {
				flushFeature()
				fields := strings.Fields(line)
				if len(fields) < 2 {
					result.skip("feature line with no location: %q", strings.TrimSpace(line))
					continue
				}
				start, end, strand, ok := parseLocation(fields[1])
				pending = &models.Feature{
					Type:       featureType.CastToFeatureType(fields[0]),
					Start:      start,
					End:        end,
					Strand:     strand,
					Qualifiers: map[string]string{},
				}
				pendingValid = ok
			} else if pending != nil && strings.HasPrefix(line, strings.Repeat(" ", 21)+"/") {
				key, value := parseQualifier(strings.TrimSpace(line))
				if key != "" {
					pending.Qualifiers[key] = value
				}
			}

		case state == stateOrigin && record != nil:
			for _, ch := range line {
				if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
					sequence.WriteRune(toUpperRune(ch))
				}
			}
		}
	}
	flushRecord()

	if len(result.Records) == 0 {
		return nil, errors.New("no GenBank records found")
	}
	return result, nil
}

// isFeatureStart matches exactly five leading spaces followed by a
// word character.
func isFeatureStart(line string) bool {
	if len(line) < 6 || !strings.HasPrefix(line, "     ") {
		return false
	}
	ch := line[5]
	return ch != ' ' && ch != '/'
}

// parseLocation recognizes N..M, complement(N..M) and bare N.
// complement sets the reverse strand. Anything else is unparseable.
func parseLocation(loc string) (start, end int, strand constants.Strand, ok bool) {
	strand = constants.StrandForward
	if strings.HasPrefix(loc, "complement(") && strings.HasSuffix(loc, ")") {
		strand = constants.StrandReverse
		loc = strings.TrimSuffix(strings.TrimPrefix(loc, "complement("), ")")
	}

	if n, err := strconv.Atoi(loc); err == nil {
		return n, n, strand, true
	}
	parts := strings.SplitN(loc, "..", 2)
	if len(parts) != 2 {
		return 0, 0, strand, false
	}
	// Tolerate partial-end markers (<1..>500).
	s, errS := strconv.Atoi(strings.TrimLeft(parts[0], "<>"))
	e, errE := strconv.Atoi(strings.TrimLeft(parts[1], "<>"))
	if errS != nil || errE != nil {
		return 0, 0, strand, false
	}
	return s, e, strand, true
}

// parseQualifier splits `/key=value`, stripping double quotes from
// the value. A bare `/key` flag yields an empty value.
func parseQualifier(text string) (string, string) {
	text = strings.TrimPrefix(text, "/")
	parts := strings.SplitN(text, "=", 2)
	key := strings.TrimSpace(parts[0])
	if len(parts) == 1 {
		return key, ""
	}
	return key, strings.Trim(strings.TrimSpace(parts[1]), `"`)
}
