// Package format decodes the six supported bioinformatics text
// formats into the canonical record types. Parsers are pure functions
// over a string buffer: malformed individual records are skipped and
// counted, never fatal; only an empty or unreadable buffer surfaces
// as an error.
package format

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
)

type Kind string

const (
	KindFasta   Kind = "fasta"
	KindGenBank Kind = "genbank"
	KindGFF     Kind = "gff"
	KindBED     Kind = "bed"
	KindVCF     Kind = "vcf"
	KindSAM     Kind = "sam"
	KindUnknown Kind = "unknown"
)

// Diagnostics aggregates the non-fatal record failures of one parse.
type Diagnostics struct {
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

func (d *Diagnostics) skip(format string, args ...interface{}) {
	d.Skipped++
	if len(d.Warnings) < 50 {
		d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
	}
}

// Open opens path and transparently decompresses gzip input, sniffing
// the magic bytes rather than trusting the extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	if magic, _ := br.Peek(2); len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &gzipReadCloser{gz: gz, file: f}, nil
	}
	return &bufferedReadCloser{br: br, file: f}, nil
}

type gzipReadCloser struct {
	gz   *gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.gz.Read(p) }
func (g *gzipReadCloser) Close() error {
	g.gz.Close()
	return g.file.Close()
}

type bufferedReadCloser struct {
	br   *bufio.Reader
	file *os.File
}

func (b *bufferedReadCloser) Read(p []byte) (int, error) { return b.br.Read(p) }
func (b *bufferedReadCloser) Close() error               { return b.file.Close() }

// Detect guesses the format from the file extension, falling back to
// the first non-blank line of content.
func Detect(path, content string) Kind {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".gz") {
		name = strings.TrimSuffix(name, ".gz")
	}
	switch filepath.Ext(name) {
	case ".fa", ".fasta", ".fna", ".ffn", ".faa":
		return KindFasta
	case ".gb", ".gbk", ".genbank":
		return KindGenBank
	case ".gff", ".gff3", ".gtf":
		return KindGFF
	case ".bed":
		return KindBED
	case ".vcf":
		return KindVCF
	case ".sam":
		return KindSAM
	}
	for _, line := range splitLines(content) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, ">"):
			return KindFasta
		case strings.HasPrefix(trimmed, "LOCUS "):
			return KindGenBank
		case strings.HasPrefix(trimmed, "##fileformat=VCF"):
			return KindVCF
		case strings.HasPrefix(trimmed, "##gff-version"):
			return KindGFF
		case strings.HasPrefix(trimmed, "@HD") || strings.HasPrefix(trimmed, "@SQ"):
			return KindSAM
		}
		break
	}
	return KindUnknown
}

// splitLines splits on newline, stripping a trailing carriage return
// from each line so CRLF input parses identically to LF input.
func splitLines(data string) []string {
	lines := strings.Split(data, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
