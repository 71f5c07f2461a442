package remote

import (
	"context"
	"fmt"
	"strings"

	"genoscope/models/dtos/errors"
)

// AlphaFoldAdapter resolves a gene name to a UniProt accession, then
// fetches the predicted structure from the AlphaFold database.
type AlphaFoldAdapter struct {
	client  *Client
	uniprot *UniProtAdapter
	baseUrl string
}

func NewAlphaFoldAdapter(client *Client, uniprot *UniProtAdapter, baseUrl string) *AlphaFoldAdapter {
	return &AlphaFoldAdapter{client: client, uniprot: uniprot, baseUrl: strings.TrimRight(baseUrl, "/")}
}

type AlphaFoldStructure struct {
	Gene      string  `json:"gene"`
	Accession string  `json:"accession"`
	EntryId   string  `json:"entryId"`
	Format    string  `json:"format"`
	Contents  string  `json:"contents"`
	Pae       string  `json:"pae,omitempty"`
	Version   float64 `json:"version,omitempty"`
}

func (a *AlphaFoldAdapter) Structure(ctx context.Context, gene, organism, format string, includePae bool) (*AlphaFoldStructure, error) {
	gene = strings.TrimSpace(gene)
	if gene == "" {
		return nil, errors.NewInvalidParams("gene must not be empty")
	}
	if format == "" {
		format = "pdb"
	}
	if format != "pdb" && format != "cif" {
		return nil, errors.NewInvalidParams("format must be 'pdb' or 'cif'")
	}

	entries, err := a.uniprot.Search(ctx, fmt.Sprintf("gene:%s AND reviewed:true", gene), organism, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.NewNotFound(fmt.Sprintf("no reviewed UniProt entry for gene '%s'", gene))
	}
	accession := entries[0].Accession

	prediction, err := a.client.GetJson(ctx, fmt.Sprintf("%s/api/prediction/%s", a.baseUrl, accession), nil)
	if err != nil {
		return nil, err
	}
	models, _ := prediction.Children()
	if len(models) == 0 {
		return nil, errors.NewNotFound(fmt.Sprintf("AlphaFold has no model for %s", accession))
	}
	model := models[0]

	structureUrl := stringAt(model, "pdbUrl")
	if format == "cif" {
		structureUrl = stringAt(model, "cifUrl")
	}
	if structureUrl == "" {
		return nil, errors.NewUpstream(fmt.Sprintf("AlphaFold model for %s carries no %s url", accession, format))
	}
	contents, err := a.client.GetText(ctx, structureUrl)
	if err != nil {
		return nil, err
	}

	structure := &AlphaFoldStructure{
		Gene:      gene,
		Accession: accession,
		EntryId:   stringAt(model, "entryId"),
		Format:    format,
		Contents:  contents,
		Version:   floatAt(model, "latestVersion"),
	}
	if includePae {
		if paeUrl := stringAt(model, "paeDocUrl"); paeUrl != "" {
			if pae, paeErr := a.client.GetText(ctx, paeUrl); paeErr == nil {
				structure.Pae = pae
			}
		}
	}
	return structure, nil
}
