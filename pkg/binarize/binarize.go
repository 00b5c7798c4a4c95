// Package binarize converts segmented text into integer-id sequences using
// a finalized dictionary, and persists them in a framed binary container.
//
// Out-of-vocabulary symbols map to the unknown id; that is the expected
// mechanism, never an error, and each substitution is tracked in Stats so
// the caller can report how lossy the conversion was.
package binarize

import (
	"bufio"
	"fmt"
	"os"

	"github.com/seqtools/bpeprep/pkg/dict"
	"github.com/seqtools/bpeprep/pkg/token"
)

// Stats accumulates per-invocation binarization statistics.
type Stats struct {
	Sentences int            // input lines processed
	Tokens    int            // ids emitted, eos included
	UnkCounts map[string]int // surface form -> substitution count
}

// UnkTotal returns the total number of unknown-id substitutions.
func (s *Stats) UnkTotal() int {
	total := 0
	for _, n := range s.UnkCounts {
		total += n
	}
	return total
}

// UnkPercent returns the percentage of emitted tokens replaced by the
// unknown id. A zero-token input yields 0 rather than dividing by zero.
func (s *Stats) UnkPercent() float64 {
	if s.Tokens == 0 {
		return 0
	}
	return 100.0 * float64(s.UnkTotal()) / float64(s.Tokens)
}

// Summary formats the diagnostic line reported after binarizing path.
func (s *Stats) Summary(path string) string {
	return fmt.Sprintf("built a binary dataset for %s: %d sentences, %d tokens, %.3f%% replaced by unknown token",
		path, s.Sentences, s.Tokens, s.UnkPercent())
}

// Line converts one segmented line into ids, updating stats. A token that
// resolves to the unknown id while its surface form differs from the
// unknown symbol counts as a substitution. A blank line yields an empty
// (or eos-only) sequence and still counts as one sentence.
func Line(line string, d *dict.Dictionary, appendEOS bool, stats *Stats) []uint32 {
	syms := token.Tokenize(line)

	n := len(syms)
	if appendEOS {
		n++
	}
	ids := make([]uint32, 0, n)
	for _, sym := range syms {
		id := d.Lookup(sym)
		if id == dict.UnkID && sym != dict.UnkWord {
			stats.UnkCounts[sym]++
		}
		ids = append(ids, uint32(id))
	}
	if appendEOS {
		ids = append(ids, uint32(dict.EosID))
	}

	stats.Sentences++
	stats.Tokens += len(ids)
	return ids
}

// File binarizes a segmented file into outPath using a finalized
// dictionary, one id sequence per input line. The output container is
// written atomically once the whole input has been processed.
func File(inPath, outPath string, d *dict.Dictionary, appendEOS bool) (*Stats, error) {
	if !d.Finalized() {
		return nil, dict.ErrNotFinalized
	}

	in, err := os.Open(inPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	stats := &Stats{UnkCounts: make(map[string]int)}
	var sentences [][]uint32

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		sentences = append(sentences, Line(scanner.Text(), d, appendEOS, stats))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := writeDataset(outPath, sentences); err != nil {
		return nil, err
	}
	return stats, nil
}
