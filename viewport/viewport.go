// Package viewport tracks the visible genomic window: chromosome,
// 0-based half-open [start,end), and the search cursor. Every
// successful mutation emits exactly one change event; invalid input
// is a recoverable error that leaves state untouched.
package viewport

import (
	"fmt"

	"genoscope/genome"
)

const (
	// MinWidth is the zoom floor in bases (unless the chromosome is
	// itself shorter).
	MinWidth = 100
	// DefaultWidth is the initial window on chromosome selection.
	DefaultWidth = 10000
	// GotoMargin is the half-window placed around a bare position or
	// a search hit.
	GotoMargin = 500
)

type Controller struct {
	store *genome.Store

	chrom string
	start int
	end   int

	searchResults []Hit
	searchIndex   int

	onChange func()
}

func NewController(store *genome.Store) *Controller {
	return &Controller{store: store, searchIndex: -1}
}

// OnChange registers the single change listener (the UI); each
// mutation fires it exactly once.
func (c *Controller) OnChange(fn func()) { c.onChange = fn }

func (c *Controller) emit() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controller) Chromosome() string { return c.chrom }

// Window returns the 0-based half-open [start,end).
func (c *Controller) Window() (int, int) { return c.start, c.end }

func (c *Controller) Width() int { return c.end - c.start }

// Select makes chrom current with the default window.
func (c *Controller) Select(chrom string) error {
	length := c.store.SequenceLength(chrom)
	if length == 0 {
		return fmt.Errorf("unknown chromosome %q", chrom)
	}
	c.chrom = chrom
	c.start = 0
	c.end = length
	if c.end > DefaultWidth {
		c.end = DefaultWidth
	}
	c.searchResults = nil
	c.searchIndex = -1
	c.emit()
	return nil
}

// Reset re-selects the current chromosome.
func (c *Controller) Reset() error {
	if c.chrom == "" {
		return fmt.Errorf("no chromosome selected")
	}
	return c.Select(c.chrom)
}

// Pan shifts the window by delta bases, clamped, preserving width.
func (c *Controller) Pan(delta int) {
	if c.chrom == "" {
		return
	}
	length := c.store.SequenceLength(c.chrom)
	width := c.Width()
	start := c.start + delta
	if start < 0 {
		start = 0
	}
	if start+width > length {
		start = length - width
	}
	if start == c.start {
		return
	}
	c.start = start
	c.end = start + width
	c.emit()
}

// ZoomIn halves the window width down to the floor, centered.
func (c *Controller) ZoomIn() {
	c.zoomTo(c.Width() / 2)
}

// ZoomOut doubles the window width up to the chromosome, centered.
func (c *Controller) ZoomOut() {
	c.zoomTo(c.Width() * 2)
}

func (c *Controller) zoomTo(width int) {
	if c.chrom == "" {
		return
	}
	length := c.store.SequenceLength(c.chrom)
	if width < MinWidth {
		width = MinWidth
	}
	if width > length {
		width = length
	}
	center := (c.start + c.end) / 2
	start := center - width/2
	if start < 0 {
		start = 0
	}
	if start+width > length {
		start = length - width
	}
	if start == c.start && start+width == c.end {
		return
	}
	c.start = start
	c.end = start + width
	c.emit()
}

// SetWindow applies an explicit 1-based inclusive range, clamped to
// the chromosome and widened to the zoom floor.
func (c *Controller) SetWindow(chrom string, start1, end1 int) error {
	length := c.store.SequenceLength(chrom)
	if length == 0 {
		return fmt.Errorf("unknown chromosome %q", chrom)
	}
	if start1 > end1 {
		start1, end1 = end1, start1
	}
	start := start1 - 1
	end := end1
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	if end-start < MinWidth {
		pad := (MinWidth - (end - start)) / 2
		start -= pad
		end = start + MinWidth
		if start < 0 {
			start = 0
			end = MinWidth
		}
		if end > length {
			end = length
			start = end - MinWidth
			if start < 0 {
				start = 0
			}
		}
	}
	if start >= end {
		return fmt.Errorf("empty window on %q", chrom)
	}
	c.chrom = chrom
	c.start = start
	c.end = end
	c.emit()
	return nil
}

// Goto parses and applies a position expression: `N`, `N-M` or
// `chrom:N[-M]`, all 1-based; a bare position expands by the goto
// margin on each side.
func (c *Controller) Goto(expr string) error {
	chrom, start1, end1, err := ParseGotoExpr(expr)
	if err != nil {
		return err
	}
	if chrom == "" {
		chrom = c.chrom
		if chrom == "" {
			return fmt.Errorf("no chromosome selected")
		}
	}
	return c.SetWindow(chrom, start1, end1)
}
