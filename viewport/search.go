package viewport

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"genoscope/seq"
)

// HitClass separates sequence matches from feature-qualifier matches.
type HitClass string

const (
	HitSequence          HitClass = "sequence"
	HitReverseComplement HitClass = "sequence_rc"
	HitFeature           HitClass = "feature"
)

// Hit is one search result; Position is 1-based.
type Hit struct {
	Position int      `json:"position"`
	Length   int      `json:"length"`
	Class    HitClass `json:"class"`
	Label    string   `json:"label,omitempty"`
}

// ParseGotoExpr recognizes `N`, `N-M` and `chrom:N[-M]`, 1-based.
// A bare position expands by GotoMargin each side. The returned chrom
// is empty when the expression carries none.
func ParseGotoExpr(expr string) (chrom string, start1, end1 int, err error) {
	text := strings.TrimSpace(expr)
	if text == "" {
		return "", 0, 0, fmt.Errorf("empty position expression")
	}
	if idx := strings.LastIndex(text, ":"); idx >= 0 {
		chrom = strings.TrimSpace(text[:idx])
		text = text[idx+1:]
		if chrom == "" {
			return "", 0, 0, fmt.Errorf("empty chromosome in %q", expr)
		}
	}
	text = strings.ReplaceAll(text, ",", "")
	if dash := strings.Index(text, "-"); dash >= 0 {
		start, errS := strconv.Atoi(strings.TrimSpace(text[:dash]))
		end, errE := strconv.Atoi(strings.TrimSpace(text[dash+1:]))
		if errS != nil || errE != nil || start < 1 || end < 1 {
			return "", 0, 0, fmt.Errorf("invalid range expression %q", expr)
		}
		return chrom, start, end, nil
	}
	pos, errP := strconv.Atoi(strings.TrimSpace(text))
	if errP != nil || pos < 1 {
		return "", 0, 0, fmt.Errorf("invalid position expression %q", expr)
	}
	start1 = pos - GotoMargin
	if start1 < 1 {
		start1 = 1
	}
	return chrom, start1, pos + GotoMargin, nil
}

// Search runs a literal substring search over the current chromosome,
// optionally adding the reverse-complement leg for pure ACGT queries,
// plus feature-qualifier matches as a separate hit class. Results are
// union-sorted by position and become the navigable hit list.
func (c *Controller) Search(query string, caseSensitive, includeRC bool) ([]Hit, error) {
	if c.chrom == "" {
		return nil, fmt.Errorf("no chromosome selected")
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}

	bases := c.store.Slice(c.chrom, 0, c.store.SequenceLength(c.chrom))
	haystack := bases
	needle := query
	if !caseSensitive {
		haystack = strings.ToUpper(bases)
		needle = strings.ToUpper(query)
	}

	var hits []Hit
	for _, pos := range findAll(haystack, needle) {
		hits = append(hits, Hit{Position: pos + 1, Length: len(needle), Class: HitSequence})
	}
	if includeRC && seq.IsPureACGT(query) {
		rc := seq.ReverseComplement(needle)
		if rc != needle {
			for _, pos := range findAll(haystack, rc) {
				hits = append(hits, Hit{Position: pos + 1, Length: len(rc), Class: HitReverseComplement})
			}
		}
	}
	for _, match := range c.store.SearchQualifiers(c.chrom, query, caseSensitive) {
		hits = append(hits, Hit{
			Position: match.Feature.Start,
			Length:   match.Feature.End - match.Feature.Start + 1,
			Class:    HitFeature,
			Label:    fmt.Sprintf("%s=%s", match.Qualifier, match.Value),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Position < hits[j].Position })

	c.searchResults = hits
	c.searchIndex = -1
	return hits, nil
}

// SearchResults returns the current hit list.
func (c *Controller) SearchResults() []Hit { return c.searchResults }

// GotoResult centers the window around hit i and records the cursor.
func (c *Controller) GotoResult(i int) error {
	if i < 0 || i >= len(c.searchResults) {
		return fmt.Errorf("search result %d out of range", i)
	}
	hit := c.searchResults[i]
	start1 := hit.Position - GotoMargin
	if start1 < 1 {
		start1 = 1
	}
	if err := c.SetWindow(c.chrom, start1, hit.Position+hit.Length-1+GotoMargin); err != nil {
		return err
	}
	c.searchIndex = i
	return nil
}

// NextResult advances the search cursor, wrapping.
func (c *Controller) NextResult() error {
	if len(c.searchResults) == 0 {
		return fmt.Errorf("no search results")
	}
	return c.GotoResult((c.searchIndex + 1) % len(c.searchResults))
}

// PrevResult steps the search cursor back, wrapping.
func (c *Controller) PrevResult() error {
	if len(c.searchResults) == 0 {
		return fmt.Errorf("no search results")
	}
	i := c.searchIndex - 1
	if i < 0 {
		i = len(c.searchResults) - 1
	}
	return c.GotoResult(i)
}

// SearchIndex returns the cursor into the hit list, -1 before any
// navigation.
func (c *Controller) SearchIndex() int { return c.searchIndex }

// findAll returns every (possibly overlapping) 0-based index of
// needle in haystack.
func findAll(haystack, needle string) []int {
	var positions []int
	offset := 0
	for {
		idx := strings.Index(haystack[offset:], needle)
		if idx < 0 {
			return positions
		}
		positions = append(positions, offset+idx)
		offset += idx + 1
	}
}
