package tools

import (
	"context"
	"fmt"
	"strings"

	"genoscope/models/dtos/errors"
	"genoscope/seq"
	"genoscope/viewport"

	"github.com/mitchellh/mapstructure"
)

func decodeArgs(args map[string]interface{}, target interface{}) error {
	if err := mapstructure.WeakDecode(args, target); err != nil {
		return errors.NewInvalidParams(fmt.Sprintf("bad arguments: %s", err))
	}
	return nil
}

type dnaParams struct {
	Dna string `mapstructure:"dna"`
}

func reverseComplementHandler(_ context.Context, args map[string]interface{}) (interface{}, error) {
	var p dnaParams
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	dna := strings.ToUpper(strings.TrimSpace(p.Dna))
	if dna == "" {
		return nil, errors.NewInvalidParams("dna must be a non-empty sequence")
	}
	return map[string]interface{}{
		"dna":                dna,
		"reverse_complement": seq.ReverseComplement(dna),
		"length":             len(dna),
	}, nil
}

type translateParams struct {
	Dna     string `mapstructure:"dna"`
	Reverse bool   `mapstructure:"reverse_complement"`
}

func translateHandler(_ context.Context, args map[string]interface{}) (interface{}, error) {
	var p translateParams
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	dna := strings.ToUpper(strings.TrimSpace(p.Dna))
	if dna == "" {
		return nil, errors.NewInvalidParams("dna must be a non-empty sequence")
	}
	protein := seq.TranslateCDS(dna, p.Reverse)
	return map[string]interface{}{
		"protein": protein,
		"length":  len(protein),
	}, nil
}

func gcContentHandler(_ context.Context, args map[string]interface{}) (interface{}, error) {
	var p dnaParams
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	dna := strings.ToUpper(strings.TrimSpace(p.Dna))
	if dna == "" {
		return nil, errors.NewInvalidParams("dna must be a non-empty sequence")
	}
	fraction := seq.GCFraction(dna)
	return map[string]interface{}{
		"gc_fraction": fraction,
		"gc_percent":  fraction * 100,
		"length":      len(dna),
	}, nil
}

type findOrfsParams struct {
	Dna       string `mapstructure:"dna"`
	MinLength int    `mapstructure:"min_length"`
}

func findOrfsHandler(_ context.Context, args map[string]interface{}) (interface{}, error) {
	var p findOrfsParams
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	dna := strings.ToUpper(strings.TrimSpace(p.Dna))
	if dna == "" {
		return nil, errors.NewInvalidParams("dna must be a non-empty sequence")
	}
	orfs := seq.FindORFs(dna, p.MinLength)
	return map[string]interface{}{
		"orfs":  orfs,
		"count": len(orfs),
	}, nil
}

type parseRegionParams struct {
	Expression string `mapstructure:"expression"`
}

func parseRegionHandler(_ context.Context, args map[string]interface{}) (interface{}, error) {
	var p parseRegionParams
	if err := decodeArgs(args, &p); err != nil {
		return nil, err
	}
	chrom, start, end, err := viewport.ParseGotoExpr(p.Expression)
	if err != nil {
		return nil, errors.NewInvalidParams(err.Error())
	}
	return map[string]interface{}{
		"chromosome": chrom,
		"start":      start,
		"end":        end,
	}, nil
}
