package format

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Load is the outcome of parsing one file, exactly one of the result
// fields set according to Kind.
type Load struct {
	Path     string
	Kind     Kind
	Fasta    *FastaResult
	GenBank  *GenBankResult
	Features *FeatureResult
	Variants *VariantResult
	Reads    *ReadResult
}

// Summary is a short human-readable description for the status sink.
func (l *Load) Summary() string {
	switch l.Kind {
	case KindFasta:
		return fmt.Sprintf("%s: %d sequence(s), %d skipped", l.Path, len(l.Fasta.Sequences), l.Fasta.Skipped)
	case KindGenBank:
		return fmt.Sprintf("%s: %d record(s), %d skipped", l.Path, len(l.GenBank.Records), l.GenBank.Skipped)
	case KindGFF, KindBED:
		total := 0
		for _, feats := range l.Features.ByChrom {
			total += len(feats)
		}
		return fmt.Sprintf("%s: %d feature(s), %d skipped", l.Path, total, l.Features.Skipped)
	case KindVCF:
		total := 0
		for _, vars := range l.Variants.ByChrom {
			total += len(vars)
		}
		return fmt.Sprintf("%s: %d variant(s), %d skipped", l.Path, total, l.Variants.Skipped)
	case KindSAM:
		total := 0
		for _, reads := range l.Reads.ByChrom {
			total += len(reads)
		}
		return fmt.Sprintf("%s: %d read(s), %d unmapped, %d skipped", l.Path, total, l.Reads.Unmapped, l.Reads.Skipped)
	}
	return l.Path
}

// Parse dispatches content to the parser for kind.
func Parse(path string, kind Kind, content string) (*Load, error) {
	load := &Load{Path: path, Kind: kind}
	var err error
	switch kind {
	case KindFasta:
		load.Fasta, err = ParseFasta(content)
	case KindGenBank:
		load.GenBank, err = ParseGenBank(content)
	case KindGFF:
		load.Features, err = ParseGFF(content)
	case KindBED:
		load.Features, err = ParseBED(content)
	case KindVCF:
		load.Variants, err = ParseVCF(content)
	case KindSAM:
		load.Reads, err = ParseSAM(content)
	default:
		err = fmt.Errorf("unrecognized format for %s", path)
	}
	if err != nil {
		return nil, err
	}
	return load, nil
}

// LoadFile opens, sniffs and parses one file. progress, if non-nil,
// receives the running byte count while the (possibly gzipped) file
// streams in, so an interactive caller can stay responsive.
func LoadFile(path string, progress func(bytesRead int)) (*Load, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var builder strings.Builder
	buf := make([]byte, 256*1024)
	total := 0
	for {
		n, readErr := rc.Read(buf)
		if n > 0 {
			builder.Write(buf[:n])
			total += n
			if progress != nil {
				progress(total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, readErr
		}
	}

	content := builder.String()
	return Parse(path, Detect(path, content), content)
}

// LoadFiles parses several files concurrently (at most four at a
// time) and returns the loads in argument order. The first hard
// failure cancels the remaining work.
func LoadFiles(paths []string, progress func(path string, bytesRead int)) ([]*Load, error) {
	loads := make([]*Load, len(paths))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(4)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			var cb func(int)
			if progress != nil {
				cb = func(n int) { progress(path, n) }
			}
			load, err := LoadFile(path, cb)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			mu.Lock()
			loads[i] = load
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return loads, nil
}
