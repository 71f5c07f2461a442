package genome

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"genoscope/format"
	"genoscope/models"
	featureType "genoscope/models/constants/feature-type"
)

func feature(start, end int, name string) models.Feature {
	return models.Feature{
		Type:       featureType.Gene,
		Start:      start,
		End:        end,
		Strand:     1,
		Qualifiers: map[string]string{"gene": name},
	}
}

func TestOverlapQueries(t *testing.T) {
	s := NewStore()
	s.PutSequence("chr1", strings.Repeat("A", 1000))
	s.PutFeatures("chr1", []models.Feature{
		feature(1, 100, "a"),
		feature(50, 150, "b"),
		feature(500, 600, "c"),
	})

	t.Run("half-open query vs inclusive records", func(t *testing.T) {
		// window [99,100) covers 1-based position 100 only
		hits := s.FeaturesOverlapping("chr1", 99, 100)
		assert.Len(t, hits, 2)

		// window [100,101) covers position 101: feature a (1..100) excluded
		hits = s.FeaturesOverlapping("chr1", 100, 101)
		assert.Len(t, hits, 1)
		assert.Equal(t, "b", hits[0].Qualifiers["gene"])
	})

	t.Run("result order is file order", func(t *testing.T) {
		hits := s.FeaturesOverlapping("chr1", 0, 1000)
		names := []string{}
		for _, h := range hits {
			names = append(names, h.Qualifiers["gene"])
		}
		assert.Equal(t, []string{"a", "b", "c"}, names)
	})

	t.Run("missing chromosome yields empty not error", func(t *testing.T) {
		assert.Empty(t, s.FeaturesOverlapping("chrN", 0, 100))
		assert.Empty(t, s.VariantsOverlapping("chrN", 0, 100))
		assert.Empty(t, s.ReadsOverlapping("chrN", 0, 100))
	})
}

func TestIndexedOverlapMatchesLinear(t *testing.T) {
	s := NewStore()
	var features []models.Feature
	for i := 0; i < indexThreshold+500; i++ {
		start := (i % 5000) * 10
		features = append(features, feature(start+1, start+25, fmt.Sprintf("f%d", i)))
	}
	s.PutSequence("chr1", strings.Repeat("A", 60000))
	s.PutFeatures("chr1", features)

	// Compute the expected answer with the plain predicate.
	qs, qe := 1200, 1600
	var want []string
	for _, f := range features {
		if f.Start <= qe && f.End >= qs+1 {
			want = append(want, f.Qualifiers["gene"])
		}
	}

	hits := s.FeaturesOverlapping("chr1", qs, qe)
	var got []string
	for _, h := range hits {
		got = append(got, h.Qualifiers["gene"])
	}
	assert.Equal(t, want, got)
}

func TestSlice(t *testing.T) {
	s := NewStore()
	s.PutSequence("chr1", "ACGTACGT")
	assert.Equal(t, "ACGT", s.Slice("chr1", 0, 4))
	assert.Equal(t, "CG", s.Slice("chr1", 1, 3))
	assert.Equal(t, "ACGTACGT", s.Slice("chr1", -5, 100))
	assert.Equal(t, "", s.Slice("chr1", 6, 3))
	assert.Equal(t, "", s.Slice("chrX", 0, 4))
}

func TestVersionBumps(t *testing.T) {
	s := NewStore()
	v0 := s.Version()
	s.PutSequence("chr1", "ACGT")
	assert.Greater(t, s.Version(), v0)
	v1 := s.Version()
	s.PutVariants("chr1", nil)
	assert.Greater(t, s.Version(), v1)
}

func TestExportFastaRoundTrip(t *testing.T) {
	s := NewStore()
	original := "ACGTACGTGGCC"
	s.PutSequence("chr1", original)

	exported, err := s.ExportFASTA("chr1", 0, len(original))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(exported, ">chr1:1-12\n"))

	parsed, err := format.ParseFasta(exported)
	assert.NoError(t, err)
	assert.Equal(t, original, parsed.Sequences["chr1:1-12"])

	_, err = s.ExportFASTA("nope", 0, 10)
	assert.Error(t, err)
}

func TestApplyLifecycle(t *testing.T) {
	s := NewStore()

	fasta, err := format.ParseFasta(">chr1\nACGTACGTACGT\n")
	assert.NoError(t, err)
	s.Apply(&format.Load{Kind: format.KindFasta, Fasta: fasta})
	assert.Equal(t, []string{"chr1"}, s.Chromosomes())

	gff, err := format.ParseGFF("chr1\tsrc\tgene\t2\t8\t.\t+\t.\tID=g1\n")
	assert.NoError(t, err)
	s.Apply(&format.Load{Kind: format.KindGFF, Features: gff})
	assert.Len(t, s.AllFeatures("chr1"), 1)

	t.Run("features past sequence end are clamped", func(t *testing.T) {
		gff, err := format.ParseGFF("chr1\tsrc\tgene\t10\t999\t.\t+\t.\tID=g2\n")
		assert.NoError(t, err)
		s.Apply(&format.Load{Kind: format.KindGFF, Features: gff})
		feats := s.AllFeatures("chr1")
		assert.Len(t, feats, 2)
		assert.Equal(t, 12, feats[1].End)
	})

	t.Run("fasta reload replaces features", func(t *testing.T) {
		fasta, err := format.ParseFasta(">chr1\nAC\n")
		assert.NoError(t, err)
		s.Apply(&format.Load{Kind: format.KindFasta, Fasta: fasta})
		assert.Empty(t, s.AllFeatures("chr1"))
		assert.Equal(t, 2, s.SequenceLength("chr1"))
	})
}

func TestApplyClampsVariantsAndReads(t *testing.T) {
	s := NewStore()
	s.PutSequence("chr1", "ACGTACGTACGT")

	vcf, err := format.ParseVCF(strings.Join([]string{
		"chr1\t2\t.\tC\tT\t.\tPASS\t.",
		"chr1\t10\t.\tACGTT\tA\t.\tPASS\t.",
		"chr1\t20\t.\tA\tG\t.\tPASS\t.",
		"chr2\t50\t.\tA\tG\t.\tPASS\t.",
	}, "\n")+"\n")
	assert.NoError(t, err)
	s.Apply(&format.Load{Kind: format.KindVCF, Variants: vcf})

	variants := s.VariantsOverlapping("chr1", 0, 100)
	if assert.Len(t, variants, 1) {
		assert.Equal(t, 2, variants[0].Pos)
	}
	t.Run("no sequence means no upper bound", func(t *testing.T) {
		assert.Len(t, s.VariantsOverlapping("chr2", 0, 100), 1)
	})

	samText := strings.Join([]string{
		"r1\t0\tchr1\t3\t60\t4M\t*\t0\t0\tACGT\tIIII",
		"r2\t0\tchr1\t10\t60\t8M\t*\t0\t0\tACGTACGT\tIIIIIIII",
		"r3\t0\tchr1\t20\t60\t4M\t*\t0\t0\tACGT\tIIII",
	}, "\n") + "\n"
	reads, err := format.ParseSAM(samText)
	assert.NoError(t, err)
	s.Apply(&format.Load{Kind: format.KindSAM, Reads: reads})

	kept := s.ReadsOverlapping("chr1", 0, 100)
	if assert.Len(t, kept, 2) {
		assert.Equal(t, 6, kept[0].End)
		// alignment running past the sequence is trimmed to it
		assert.Equal(t, 12, kept[1].End)
	}
}

func TestOverviewAndSearch(t *testing.T) {
	s := NewStore()
	s.PutSequence("chr1", "GGCC")
	s.PutSequence("chr2", "AATT")
	s.PutFeatures("chr1", []models.Feature{
		feature(1, 2, "DnaA"),
		feature(3, 4, "RpoB"),
	})

	overview := s.Overview()
	assert.Len(t, overview.Chromosomes, 2)
	assert.Equal(t, 100.0, overview.Chromosomes[0].GCPercent)
	assert.Equal(t, 50.0, overview.MeanGC)

	t.Run("qualifier search", func(t *testing.T) {
		hits := s.SearchQualifiers("chr1", "dnaa", false)
		if assert.Len(t, hits, 1) {
			assert.Equal(t, "gene", hits[0].Qualifier)
			assert.Equal(t, "DnaA", hits[0].Value)
		}
		assert.Empty(t, s.SearchQualifiers("chr1", "dnaa", true))
	})
}
