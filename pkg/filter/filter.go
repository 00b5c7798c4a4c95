// Package filter replaces low-frequency symbols in segmented text with a
// sentinel marker.
//
// This is the joint-vocabulary gate: when source and target share one merge
// table, each language's segmented training text is re-filtered against its
// own frequency listing before id assignment, so that symbols too rare to
// keep are frozen out of the vocabulary while line and token structure stay
// intact. Filtering never merges or drops tokens, it only substitutes the
// surface form.
package filter

import (
	"bufio"
	"os"
	"strings"

	"github.com/seqtools/bpeprep/pkg/freq"
	"github.com/seqtools/bpeprep/pkg/token"
)

// Sentinel is the surface form substituted for low-frequency symbols.
const Sentinel = "@@UNKNOWN@@"

// Line rewrites one segmented line, replacing every symbol whose recorded
// frequency (0 if unlisted) is below threshold with Sentinel.
func Line(line string, table freq.Table, threshold int) string {
	syms := token.Tokenize(line)
	if len(syms) == 0 {
		return ""
	}
	out := make([]string, len(syms))
	for i, sym := range syms {
		if table[sym] >= threshold {
			out[i] = sym
		} else {
			out[i] = Sentinel
		}
	}
	return strings.Join(out, " ")
}

// File filters a segmented file line by line into outPath. The output is
// written atomically via a temporary file and rename.
func File(inPath, outPath string, table freq.Table, threshold int) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := outPath + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		w.WriteString(Line(scanner.Text(), table, threshold))
		w.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, outPath)
}
