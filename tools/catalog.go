package tools

import (
	"context"

	dispatchTarget "genoscope/models/constants/dispatch-target"
)

// Dispatcher executes one named call on behalf of a set of tools; the
// server injects one for the UI round-trip and one per remote adapter
// family.
type Dispatcher func(ctx context.Context, name string, args map[string]interface{}) (interface{}, error)

func stringProp(description string) *Schema {
	return &Schema{Type: "string", Description: description}
}

func numberProp(description string, defaultValue interface{}) *Schema {
	return &Schema{Type: "number", Description: description, Default: defaultValue}
}

func boolProp(description string, defaultValue bool) *Schema {
	return &Schema{Type: "boolean", Description: description, Default: defaultValue}
}

func objectSchema(required []string, properties map[string]*Schema) *Schema {
	return &Schema{Type: "object", Properties: properties, Required: required}
}

// RegisterLocals installs the pure-compute tools; these run in-process
// and never touch browser state.
func RegisterLocals(registry *Registry) {
	registry.Register(&Tool{
		Name:        "reverse_complement",
		Description: "Reverse complement a DNA sequence",
		Target:      dispatchTarget.Local,
		InputSchema: objectSchema([]string{"dna"}, map[string]*Schema{
			"dna": stringProp("DNA sequence (ACGT alphabet)"),
		}),
		Handler: reverseComplementHandler,
	})
	registry.Register(&Tool{
		Name:        "translate_sequence",
		Description: "Translate a DNA sequence to protein using the standard genetic code",
		Target:      dispatchTarget.Local,
		InputSchema: objectSchema([]string{"dna"}, map[string]*Schema{
			"dna":                stringProp("DNA sequence to translate"),
			"reverse_complement": boolProp("Translate the reverse complement strand", false),
		}),
		Handler: translateHandler,
	})
	registry.Register(&Tool{
		Name:        "gc_content",
		Description: "Compute the GC fraction of a DNA sequence",
		Target:      dispatchTarget.Local,
		InputSchema: objectSchema([]string{"dna"}, map[string]*Schema{
			"dna": stringProp("DNA sequence"),
		}),
		Handler: gcContentHandler,
	})
	registry.Register(&Tool{
		Name:        "find_orfs",
		Description: "Find open reading frames in all six frames",
		Target:      dispatchTarget.Local,
		InputSchema: objectSchema([]string{"dna"}, map[string]*Schema{
			"dna":        stringProp("DNA sequence to scan"),
			"min_length": numberProp("Minimum ORF length in nucleotides", 300),
		}),
		Handler: findOrfsHandler,
	})
	registry.Register(&Tool{
		Name:        "parse_region",
		Description: "Parse a location expression (position, range, or chrom:range)",
		Target:      dispatchTarget.Local,
		InputSchema: objectSchema([]string{"expression"}, map[string]*Schema{
			"expression": stringProp("Location expression, e.g. '1000', '1000-2000', 'chr1:1000-2000'"),
		}),
		Handler: parseRegionHandler,
	})
}

// RegisterUI installs the browser-state tools; every call round-trips
// to the connected UI client through dispatch.
func RegisterUI(registry *Registry, dispatch Dispatcher) {
	uiTools := []*Tool{
		{
			Name:        "get_browser_state",
			Description: "Current chromosome, window, loaded files and visible tracks",
			InputSchema: objectSchema(nil, map[string]*Schema{}),
		},
		{
			Name:        "get_sequence_region",
			Description: "Fetch the bases for a chromosome region from the loaded genome",
			InputSchema: objectSchema([]string{"chromosome", "start", "end"}, map[string]*Schema{
				"chromosome": stringProp("Chromosome name"),
				"start":      numberProp("1-based inclusive start", nil),
				"end":        numberProp("1-based inclusive end", nil),
			}),
		},
		{
			Name:        "navigate_to",
			Description: "Move the browser window to a location expression",
			InputSchema: objectSchema([]string{"position"}, map[string]*Schema{
				"position": stringProp("Location expression, e.g. 'chr1:1000-2000'"),
			}),
		},
		{
			Name:        "search_features",
			Description: "Search the current chromosome for a sequence motif or feature name",
			InputSchema: objectSchema([]string{"query"}, map[string]*Schema{
				"query":                      stringProp("Sequence motif or qualifier text"),
				"case_sensitive":             boolProp("Match qualifiers case-sensitively", false),
				"include_reverse_complement": boolProp("Also search the reverse complement of a pure-ACGT query", true),
			}),
		},
		{
			Name:        "create_annotation",
			Description: "Add a user annotation feature to the loaded genome",
			InputSchema: objectSchema([]string{"chromosome", "start", "end", "name"}, map[string]*Schema{
				"chromosome": stringProp("Chromosome name"),
				"start":      numberProp("1-based inclusive start", nil),
				"end":        numberProp("1-based inclusive end", nil),
				"name":       stringProp("Annotation label"),
				"type":       &Schema{Type: "string", Description: "Feature type", Default: "misc_feature"},
			}),
		},
		{
			Name:        "set_track_visibility",
			Description: "Show or hide one track",
			InputSchema: objectSchema([]string{"track", "visible"}, map[string]*Schema{
				"track": &Schema{
					Type: "string",
					Enum: []interface{}{"genes", "gc", "variants", "reads", "proteins"},
				},
				"visible": boolProp("Whether the track is shown", true),
			}),
		},
		{
			Name:        "get_genome_overview",
			Description: "Per-chromosome summary statistics for the loaded genome",
			InputSchema: objectSchema(nil, map[string]*Schema{}),
		},
	}
	for _, tool := range uiTools {
		tool.Target = dispatchTarget.UI
		tool.Handler = bindDispatcher(tool.Name, dispatch)
		registry.Register(tool)
	}
}

// RegisterRemote installs the external-service tools.
func RegisterRemote(registry *Registry, dispatch Dispatcher) {
	remoteTools := []*Tool{
		{
			Name:        "uniprot_search",
			Description: "Search UniProtKB for proteins",
			InputSchema: objectSchema([]string{"query"}, map[string]*Schema{
				"query":    stringProp("Free-text or field query"),
				"organism": stringProp("Restrict to an organism name"),
				"limit":    numberProp("Maximum results", 10),
			}),
		},
		{
			Name:        "uniprot_detail",
			Description: "Fetch one UniProtKB entry by accession",
			InputSchema: objectSchema([]string{"accession"}, map[string]*Schema{
				"accession":        stringProp("UniProt accession, e.g. P0A7G6"),
				"include_sequence": boolProp("Include the protein sequence", false),
				"include_features": boolProp("Include sequence features", false),
			}),
		},
		{
			Name:        "pdb_search",
			Description: "Full-text search of RCSB PDB structures",
			InputSchema: objectSchema([]string{"query"}, map[string]*Schema{
				"query": stringProp("Free-text query"),
				"limit": numberProp("Maximum results", 10),
			}),
		},
		{
			Name:        "pdb_fetch_structure",
			Description: "Download one PDB structure file",
			InputSchema: objectSchema([]string{"pdb_id"}, map[string]*Schema{
				"pdb_id": stringProp("4-character PDB id"),
				"format": &Schema{
					Type:    "string",
					Enum:    []interface{}{"pdb", "cif"},
					Default: "pdb",
				},
			}),
		},
		{
			Name:        "alphafold_structure",
			Description: "Fetch the AlphaFold predicted structure for a gene",
			InputSchema: objectSchema([]string{"gene"}, map[string]*Schema{
				"gene":     stringProp("Gene name, e.g. dnaA"),
				"organism": stringProp("Organism name for the UniProt lookup"),
				"format": &Schema{
					Type:    "string",
					Enum:    []interface{}{"pdb", "cif"},
					Default: "pdb",
				},
				"include_pae": boolProp("Also fetch the predicted aligned error matrix", false),
			}),
		},
		{
			Name:        "interproscan_analyze",
			Description: "Run an InterProScan domain analysis on a protein sequence",
			InputSchema: objectSchema([]string{"sequence"}, map[string]*Schema{
				"sequence": stringProp("Protein sequence, single-letter code"),
				"goterms":  boolProp("Include GO term annotations", true),
				"pathways": boolProp("Include pathway annotations", false),
			}),
		},
		{
			Name:        "evo2_generate",
			Description: "Generate a DNA continuation with the NVIDIA Evo2 model",
			InputSchema: objectSchema([]string{"sequence"}, map[string]*Schema{
				"sequence":   stringProp("DNA prompt sequence"),
				"num_tokens": numberProp("Number of bases to generate", 100),
				"temperature": &Schema{
					Type:        "number",
					Description: "Sampling temperature",
					Default:     0.7,
				},
			}),
		},
	}
	for _, tool := range remoteTools {
		tool.Target = dispatchTarget.Remote
		tool.Handler = bindDispatcher(tool.Name, dispatch)
		registry.Register(tool)
	}
}

func bindDispatcher(name string, dispatch Dispatcher) Handler {
	if dispatch == nil {
		return nil
	}
	return func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return dispatch(ctx, name, args)
	}
}
