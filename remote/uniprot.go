package remote

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"genoscope/models/dtos/errors"

	"github.com/Jeffail/gabs"
)

// UniProtAdapter answers protein queries against the UniProtKB REST
// service.
type UniProtAdapter struct {
	client  *Client
	baseUrl string
}

func NewUniProtAdapter(client *Client, baseUrl string) *UniProtAdapter {
	return &UniProtAdapter{client: client, baseUrl: strings.TrimRight(baseUrl, "/")}
}

type UniProtEntry struct {
	Accession   string `json:"accession"`
	Name        string `json:"name"`
	Gene        string `json:"gene,omitempty"`
	Organism    string `json:"organism,omitempty"`
	Length      int    `json:"length,omitempty"`
	Description string `json:"description,omitempty"`
}

type UniProtDetail struct {
	UniProtEntry
	Sequence string           `json:"sequence,omitempty"`
	Features []UniProtFeature `json:"features,omitempty"`
}

type UniProtFeature struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// BuildQuery assembles the UniProt query string. A multi-word
// organism is quoted so the service treats it as one phrase.
func BuildQuery(query, organism string) string {
	clauses := []string{query}
	if organism != "" {
		clauses = append(clauses, fmt.Sprintf("organism_name:%s", quoteIfSpaced(organism)))
	}
	return strings.Join(clauses, " AND ")
}

func (a *UniProtAdapter) Search(ctx context.Context, query, organism string, limit int) ([]UniProtEntry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.NewInvalidParams("query must not be empty")
	}
	if limit <= 0 {
		limit = 10
	}
	values := url.Values{}
	values.Set("query", BuildQuery(query, organism))
	values.Set("size", fmt.Sprintf("%d", limit))
	values.Set("format", "json")

	parsed, err := a.client.GetJson(ctx, fmt.Sprintf("%s/uniprotkb/search?%s", a.baseUrl, values.Encode()), nil)
	if err != nil {
		return nil, err
	}

	var entries []UniProtEntry
	results, _ := parsed.Path("results").Children()
	for _, result := range results {
		entries = append(entries, entryOf(result))
	}
	return entries, nil
}

func (a *UniProtAdapter) Detail(ctx context.Context, accession string, includeSequence, includeFeatures bool) (*UniProtDetail, error) {
	accession = strings.TrimSpace(accession)
	if accession == "" {
		return nil, errors.NewInvalidParams("accession must not be empty")
	}
	parsed, err := a.client.GetJson(ctx, fmt.Sprintf("%s/uniprotkb/%s.json", a.baseUrl, url.PathEscape(accession)), nil)
	if err != nil {
		return nil, err
	}

	detail := &UniProtDetail{UniProtEntry: entryOf(parsed)}
	if includeSequence {
		detail.Sequence = stringAt(parsed, "sequence.value")
	}
	if includeFeatures {
		features, _ := parsed.Path("features").Children()
		for _, feature := range features {
			detail.Features = append(detail.Features, UniProtFeature{
				Type:        stringAt(feature, "type"),
				Description: stringAt(feature, "description"),
				Start:       int(floatAt(feature, "location.start.value")),
				End:         int(floatAt(feature, "location.end.value")),
			})
		}
	}
	return detail, nil
}

func entryOf(result *gabs.Container) UniProtEntry {
	entry := UniProtEntry{
		Accession:   stringAt(result, "primaryAccession"),
		Name:        stringAt(result, "uniProtkbId"),
		Organism:    stringAt(result, "organism.scientificName"),
		Description: stringAt(result, "proteinDescription.recommendedName.fullName.value"),
		Length:      int(floatAt(result, "sequence.length")),
	}
	if genes, _ := result.Path("genes").Children(); len(genes) > 0 {
		entry.Gene = stringAt(genes[0], "geneName.value")
	}
	return entry
}
