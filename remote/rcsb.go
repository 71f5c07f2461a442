package remote

import (
	"context"
	"fmt"
	"strings"

	"genoscope/models/dtos/errors"
)

// RcsbAdapter talks to the three RCSB PDB endpoints: the search
// service, the data service and the structure file archive.
type RcsbAdapter struct {
	client    *Client
	searchUrl string
	dataUrl   string
	filesUrl  string
}

func NewRcsbAdapter(client *Client, searchUrl, dataUrl, filesUrl string) *RcsbAdapter {
	return &RcsbAdapter{
		client:    client,
		searchUrl: strings.TrimRight(searchUrl, "/"),
		dataUrl:   strings.TrimRight(dataUrl, "/"),
		filesUrl:  strings.TrimRight(filesUrl, "/"),
	}
}

type PdbHit struct {
	PdbId string  `json:"pdbId"`
	Score float64 `json:"score"`
	Title string  `json:"title,omitempty"`
}

type PdbStructure struct {
	PdbId    string `json:"pdbId"`
	Format   string `json:"format"`
	Contents string `json:"contents"`
}

// searchPayload is the RCSB search API request document for a
// full-text query.
func searchPayload(query string, limit int) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"type":    "terminal",
			"service": "full_text",
			"parameters": map[string]interface{}{
				"value": query,
			},
		},
		"return_type": "entry",
		"request_options": map[string]interface{}{
			"paginate": map[string]interface{}{
				"start": 0,
				"rows":  limit,
			},
		},
	}
}

func (a *RcsbAdapter) Search(ctx context.Context, query string, limit int) ([]PdbHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.NewInvalidParams("query must not be empty")
	}
	if limit <= 0 {
		limit = 10
	}
	parsed, err := a.client.PostJson(ctx,
		fmt.Sprintf("%s/rcsbsearch/v2/query", a.searchUrl), searchPayload(query, limit), nil)
	if err != nil {
		return nil, err
	}

	var hits []PdbHit
	results, _ := parsed.Path("result_set").Children()
	for _, result := range results {
		hit := PdbHit{
			PdbId: stringAt(result, "identifier"),
			Score: floatAt(result, "score"),
		}
		if hit.PdbId == "" {
			continue
		}
		if title, titleErr := a.entryTitle(ctx, hit.PdbId); titleErr == nil {
			hit.Title = title
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// entryTitle asks the data service for the entry's citation title.
func (a *RcsbAdapter) entryTitle(ctx context.Context, pdbId string) (string, error) {
	parsed, err := a.client.GetJson(ctx,
		fmt.Sprintf("%s/rest/v1/core/entry/%s", a.dataUrl, strings.ToUpper(pdbId)), nil)
	if err != nil {
		return "", err
	}
	return stringAt(parsed, "struct.title"), nil
}

func (a *RcsbAdapter) FetchStructure(ctx context.Context, pdbId, format string) (*PdbStructure, error) {
	pdbId = strings.ToUpper(strings.TrimSpace(pdbId))
	if len(pdbId) != 4 {
		return nil, errors.NewInvalidParams("pdb_id must be a 4-character identifier")
	}
	if format == "" {
		format = "pdb"
	}
	if format != "pdb" && format != "cif" {
		return nil, errors.NewInvalidParams("format must be 'pdb' or 'cif'")
	}

	contents, err := a.client.GetText(ctx, fmt.Sprintf("%s/download/%s.%s", a.filesUrl, pdbId, format))
	if err != nil {
		return nil, err
	}
	return &PdbStructure{PdbId: pdbId, Format: format, Contents: contents}, nil
}
