package viewport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"genoscope/genome"
	"genoscope/models"
	featureType "genoscope/models/constants/feature-type"
)

func newTestController(length int) (*genome.Store, *Controller) {
	store := genome.NewStore()
	store.PutSequence("chr1", strings.Repeat("A", length))
	return store, NewController(store)
}

func TestSelectAndReset(t *testing.T) {
	_, c := newTestController(50000)
	assert.NoError(t, c.Select("chr1"))
	start, end := c.Window()
	assert.Equal(t, 0, start)
	assert.Equal(t, 10000, end)

	c.Pan(5000)
	assert.NoError(t, c.Reset())
	start, end = c.Window()
	assert.Equal(t, 0, start)
	assert.Equal(t, 10000, end)

	assert.Error(t, c.Select("chrX"))

	t.Run("short chromosome capped at length", func(t *testing.T) {
		store := genome.NewStore()
		store.PutSequence("tiny", strings.Repeat("A", 300))
		c := NewController(store)
		assert.NoError(t, c.Select("tiny"))
		_, end := c.Window()
		assert.Equal(t, 300, end)
	})
}

func TestPanClamps(t *testing.T) {
	_, c := newTestController(50000)
	assert.NoError(t, c.Select("chr1"))

	c.Pan(-500)
	start, _ := c.Window()
	assert.Equal(t, 0, start)

	c.Pan(1000000)
	start, end := c.Window()
	assert.Equal(t, 40000, start)
	assert.Equal(t, 50000, end)
	assert.Equal(t, 10000, c.Width())
}

func TestZoomFloorAndCeiling(t *testing.T) {
	_, c := newTestController(50000)
	assert.NoError(t, c.SetWindow("chr1", 1001, 1200))
	assert.Equal(t, 200, c.Width())

	// zoom in once: 100 bp centered on the original midpoint
	c.ZoomIn()
	start, end := c.Window()
	assert.Equal(t, 100, c.Width())
	assert.Equal(t, (1000+1200)/2, (start+end)/2)

	// zoom in again: pinned at the floor
	c.ZoomIn()
	assert.Equal(t, 100, c.Width())

	t.Run("zoom out caps at chromosome length", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			c.ZoomOut()
		}
		assert.Equal(t, 50000, c.Width())
	})
}

func TestChangeEventPerMutation(t *testing.T) {
	_, c := newTestController(50000)
	events := 0
	c.OnChange(func() { events++ })

	assert.NoError(t, c.Select("chr1"))
	assert.Equal(t, 1, events)
	c.Pan(100)
	assert.Equal(t, 2, events)
	c.ZoomIn()
	assert.Equal(t, 3, events)

	// clamped-to-identity pan emits nothing
	c.Pan(0)
	assert.Equal(t, 3, events)
}

func TestParseGotoExpr(t *testing.T) {
	chrom, s, e, err := ParseGotoExpr("1500")
	assert.NoError(t, err)
	assert.Equal(t, "", chrom)
	assert.Equal(t, 1000, s)
	assert.Equal(t, 2000, e)

	chrom, s, e, err = ParseGotoExpr("100-900")
	assert.NoError(t, err)
	assert.Equal(t, 100, s)
	assert.Equal(t, 900, e)

	chrom, s, e, err = ParseGotoExpr("chr2:5000")
	assert.NoError(t, err)
	assert.Equal(t, "chr2", chrom)
	assert.Equal(t, 4500, s)
	assert.Equal(t, 5500, e)

	chrom, s, e, err = ParseGotoExpr("chr2:1,000-2,000")
	assert.NoError(t, err)
	assert.Equal(t, "chr2", chrom)
	assert.Equal(t, 1000, s)
	assert.Equal(t, 2000, e)

	for _, bad := range []string{"", "abc", "chr1:", "0", "-5", "chr1:x-y"} {
		_, _, _, err := ParseGotoExpr(bad)
		assert.Error(t, err, bad)
	}
}

func TestGotoLeavesStateOnError(t *testing.T) {
	_, c := newTestController(50000)
	assert.NoError(t, c.Select("chr1"))
	start, end := c.Window()

	assert.Error(t, c.Goto("not a position"))
	s2, e2 := c.Window()
	assert.Equal(t, start, s2)
	assert.Equal(t, end, e2)

	assert.NoError(t, c.Goto("20000"))
	s3, e3 := c.Window()
	assert.Equal(t, 19499, s3)
	assert.Equal(t, 20500, e3)
}

func TestSearchWithReverseComplement(t *testing.T) {
	store := genome.NewStore()
	store.PutSequence("chr1", "AAAAGGGGCCCCTTTT")
	c := NewController(store)
	assert.NoError(t, c.Select("chr1"))

	hits, err := c.Search("AAAA", false, true)
	assert.NoError(t, err)
	if assert.Len(t, hits, 2) {
		assert.Equal(t, 1, hits[0].Position)
		assert.Equal(t, HitSequence, hits[0].Class)
		assert.Equal(t, 13, hits[1].Position)
		assert.Equal(t, HitReverseComplement, hits[1].Class)
	}

	t.Run("without RC only the literal hit", func(t *testing.T) {
		hits, err := c.Search("AAAA", false, false)
		assert.NoError(t, err)
		assert.Len(t, hits, 1)
	})

	t.Run("result navigation", func(t *testing.T) {
		_, err := c.Search("AAAA", false, true)
		assert.NoError(t, err)
		assert.NoError(t, c.NextResult())
		assert.Equal(t, 0, c.SearchIndex())
		assert.NoError(t, c.NextResult())
		assert.Equal(t, 1, c.SearchIndex())
		assert.NoError(t, c.NextResult())
		assert.Equal(t, 0, c.SearchIndex())
	})
}

func TestSearchQualifierClass(t *testing.T) {
	store := genome.NewStore()
	store.PutSequence("chr1", strings.Repeat("A", 1000))
	store.PutFeatures("chr1", []models.Feature{{
		Type:       featureType.Gene,
		Start:      200,
		End:        400,
		Strand:     1,
		Qualifiers: map[string]string{"gene": "dnaK"},
	}})
	c := NewController(store)
	assert.NoError(t, c.Select("chr1"))

	hits, err := c.Search("dnaK", true, false)
	assert.NoError(t, err)
	if assert.Len(t, hits, 1) {
		assert.Equal(t, HitFeature, hits[0].Class)
		assert.Equal(t, 200, hits[0].Position)
		assert.Equal(t, "gene=dnaK", hits[0].Label)
	}
}
