// Package segment applies a learned merge-rule table to raw text,
// producing one line of whitespace-separated subword symbols per input
// line.
//
// Learning the merge rules is outside this package: a Codes table is read
// from a codes file produced elsewhere and applied deterministically. Each
// line is segmented independently of every other line.
package segment

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/seqtools/bpeprep/pkg/token"
)

// Segmenter rewrites one raw line into one segmented line of
// whitespace-separated symbols. Implementations are deterministic and
// stateless per line.
type Segmenter interface {
	Segment(line string) string
}

const (
	// endOfWord marks a word-final character during merging.
	endOfWord = "</w>"
	// continuation is appended to every non-final subword unit.
	continuation = "@@"
)

type pair struct {
	left, right string
}

// Codes is an ordered merge-rule table. Lower rank merges first.
type Codes struct {
	ranks map[pair]int
}

// LoadCodes reads a merge-rule table: one "left right" pair per line in
// merge priority order. Blank lines and "#version" headers are skipped;
// any other malformed line is a fatal parse error carrying path and line
// number. The first occurrence of a duplicated pair keeps its rank.
func LoadCodes(path string) (*Codes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c := &Codes{ranks: make(map[pair]int)}
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#version") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, fmt.Errorf("segment: %s:%d: expected \"left right\", got %q", path, lineno, line)
		}
		p := pair{parts[0], parts[1]}
		if _, ok := c.ranks[p]; !ok {
			c.ranks[p] = len(c.ranks)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// Len returns the number of merge rules in the table.
func (c *Codes) Len() int {
	return len(c.ranks)
}

// Segment applies the merge table to every word of line, joining subword
// units with spaces and marking non-final units with the continuation
// suffix. A blank line segments to the empty string.
func (c *Codes) Segment(line string) string {
	words := token.Tokenize(line)
	if len(words) == 0 {
		return ""
	}

	var out []string
	for _, word := range words {
		units := c.segmentWord(word)
		for i, u := range units {
			if i < len(units)-1 {
				out = append(out, u+continuation)
			} else {
				out = append(out, u)
			}
		}
	}
	return strings.Join(out, " ")
}

// segmentWord splits a word into characters with an end-of-word marker on
// the last one, then repeatedly merges the adjacent pair with the lowest
// rank until no listed pair remains.
func (c *Codes) segmentWord(word string) []string {
	runes := []rune(word)
	if len(runes) == 0 {
		return nil
	}

	units := make([]string, len(runes))
	for i, r := range runes {
		units[i] = string(r)
	}
	units[len(units)-1] += endOfWord

	for len(units) > 1 {
		best := -1
		bestRank := 0
		for i := 0; i < len(units)-1; i++ {
			rank, ok := c.ranks[pair{units[i], units[i+1]}]
			if ok && (best < 0 || rank < bestRank) {
				best = i
				bestRank = rank
			}
		}
		if best < 0 {
			break
		}

		merged := units[best] + units[best+1]
		next := make([]string, 0, len(units)-1)
		i := 0
		for i < len(units) {
			if i < len(units)-1 && units[i] == units[best] && units[i+1] == units[best+1] {
				next = append(next, merged)
				i += 2
			} else {
				next = append(next, units[i])
				i++
			}
		}
		units = next
	}

	// Strip the end-of-word marker from the final unit.
	last := len(units) - 1
	units[last] = strings.TrimSuffix(units[last], endOfWord)
	if units[last] == "" {
		units = units[:last]
	}
	return units
}

// ApplyFile segments a raw text file line by line into outPath. The output
// is written atomically via a temporary file and rename.
func ApplyFile(seg Segmenter, inPath, outPath string) error {
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
		w.WriteString(seg.Segment(scanner.Text()))
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
