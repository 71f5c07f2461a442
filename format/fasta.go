package format

import (
	"errors"
	"strings"
)

type FastaResult struct {
	// Sequences maps identifier to uppercased bases; Order preserves
	// the order records appeared in the file.
	Sequences map[string]string
	Order     []string
	Diagnostics
}

// ParseFasta decodes FASTA text. The identifier is the header line
// minus '>' split on the first whitespace; sequence lines are
// uppercased and whitespace-stripped. Fails only on empty input.
func ParseFasta(data string) (*FastaResult, error) {
	if strings.TrimSpace(data) == "" {
		return nil, errors.New("empty FASTA input")
	}

	result := &FastaResult{Sequences: map[string]string{}}
	var current string
	var builder strings.Builder

	flush := func() {
		if current == "" {
			return
		}
		if _, seen := result.Sequences[current]; !seen {
			result.Order = append(result.Order, current)
		}
		result.Sequences[current] += builder.String()
		builder.Reset()
	}

	for _, line := range splitLines(data) {
		if strings.HasPrefix(line, ">") {
			flush()
			header := strings.TrimSpace(line[1:])
			if fields := strings.Fields(header); len(fields) > 0 {
				current = fields[0]
			} else {
				current = ""
				result.skip("header with no identifier")
			}
			continue
		}
		if current == "" {
			if strings.TrimSpace(line) != "" {
				result.skip("sequence data before any header")
			}
			continue
		}
		for _, ch := range line {
			if ch == ' ' || ch == '\t' {
				continue
			}
			builder.WriteRune(toUpperRune(ch))
		}
	}
	flush()

	if len(result.Sequences) == 0 {
		return nil, errors.New("no FASTA records found")
	}
	return result, nil
}

func toUpperRune(ch rune) rune {
	if ch >= 'a' && ch <= 'z' {
		return ch - 32
	}
	return ch
}
