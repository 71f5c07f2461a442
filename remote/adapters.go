package remote

import (
	"context"
	"fmt"

	"genoscope/models"
	"genoscope/models/dtos/errors"

	"github.com/mitchellh/mapstructure"
)

// Adapters bundles every external integration behind one dispatch
// entry point keyed by tool name.
type Adapters struct {
	UniProt   *UniProtAdapter
	Rcsb      *RcsbAdapter
	AlphaFold *AlphaFoldAdapter
	InterPro  *InterProAdapter
	Evo2      *Evo2Adapter
}

func NewAdapters(cfg *models.Config) *Adapters {
	client := NewClient()
	uniprot := NewUniProtAdapter(client, cfg.External.UniProtUrl)
	return &Adapters{
		UniProt:   uniprot,
		Rcsb:      NewRcsbAdapter(client, cfg.External.RcsbUrl, cfg.External.RcsbDataUrl, cfg.External.RcsbFilesUrl),
		AlphaFold: NewAlphaFoldAdapter(client, uniprot, cfg.External.AlphaFoldUrl),
		InterPro:  NewInterProAdapter(client, cfg.External.InterProUrl, cfg.External.InterProMail),
		Evo2:      NewEvo2Adapter(client, cfg.External.Evo2Url, cfg.External.Evo2ApiKey),
	}
}

func decodeParams(args map[string]interface{}, target interface{}) error {
	if err := mapstructure.WeakDecode(args, target); err != nil {
		return errors.NewInvalidParams(fmt.Sprintf("bad arguments: %s", err))
	}
	return nil
}

// Dispatch runs the remote tool name against its adapter.
func (a *Adapters) Dispatch(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	switch name {
	case "uniprot_search":
		var p struct {
			Query    string `mapstructure:"query"`
			Organism string `mapstructure:"organism"`
			Limit    int    `mapstructure:"limit"`
		}
		if err := decodeParams(args, &p); err != nil {
			return nil, err
		}
		entries, err := a.UniProt.Search(ctx, p.Query, p.Organism, p.Limit)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"results": entries, "count": len(entries)}, nil

	case "uniprot_detail":
		var p struct {
			Accession       string `mapstructure:"accession"`
			IncludeSequence bool   `mapstructure:"include_sequence"`
			IncludeFeatures bool   `mapstructure:"include_features"`
		}
		if err := decodeParams(args, &p); err != nil {
			return nil, err
		}
		return a.UniProt.Detail(ctx, p.Accession, p.IncludeSequence, p.IncludeFeatures)

	case "pdb_search":
		var p struct {
			Query string `mapstructure:"query"`
			Limit int    `mapstructure:"limit"`
		}
		if err := decodeParams(args, &p); err != nil {
			return nil, err
		}
		hits, err := a.Rcsb.Search(ctx, p.Query, p.Limit)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"results": hits, "count": len(hits)}, nil

	case "pdb_fetch_structure":
		var p struct {
			PdbId  string `mapstructure:"pdb_id"`
			Format string `mapstructure:"format"`
		}
		if err := decodeParams(args, &p); err != nil {
			return nil, err
		}
		return a.Rcsb.FetchStructure(ctx, p.PdbId, p.Format)

	case "alphafold_structure":
		var p struct {
			Gene       string `mapstructure:"gene"`
			Organism   string `mapstructure:"organism"`
			Format     string `mapstructure:"format"`
			IncludePae bool   `mapstructure:"include_pae"`
		}
		if err := decodeParams(args, &p); err != nil {
			return nil, err
		}
		return a.AlphaFold.Structure(ctx, p.Gene, p.Organism, p.Format, p.IncludePae)

	case "interproscan_analyze":
		var p struct {
			Sequence string `mapstructure:"sequence"`
			GoTerms  bool   `mapstructure:"goterms"`
			Pathways bool   `mapstructure:"pathways"`
		}
		if err := decodeParams(args, &p); err != nil {
			return nil, err
		}
		return a.InterPro.Analyze(ctx, p.Sequence, p.GoTerms, p.Pathways)

	case "evo2_generate":
		var p struct {
			Sequence    string  `mapstructure:"sequence"`
			NumTokens   int     `mapstructure:"num_tokens"`
			Temperature float64 `mapstructure:"temperature"`
		}
		if err := decodeParams(args, &p); err != nil {
			return nil, err
		}
		return a.Evo2.Generate(ctx, p.Sequence, p.NumTokens, p.Temperature)
	}
	return nil, errors.NewInvalidParams(fmt.Sprintf("unknown remote tool '%s'", name))
}
