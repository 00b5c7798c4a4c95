// Package freq counts symbol frequencies in segmented text and reads and
// writes the "symbol count" vocabulary listing format.
package freq

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/seqtools/bpeprep/pkg/token"
)

// Table maps a symbol to its occurrence count.
type Table map[string]int

// Count scans a segmented file and tallies every symbol.
func Count(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table := make(Table)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		for _, sym := range token.Tokenize(scanner.Text()) {
			table[sym]++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadTable reads a vocabulary listing: one "symbol count" pair per line.
// A line with the wrong field count or a non-integer count is a fatal
// parse error reported with path and line number.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table := make(Table)
	scanner := bufio.NewScanner(f)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, fmt.Errorf("freq: %s:%d: expected \"symbol count\", got %q", path, lineno, line)
		}
		count, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("freq: %s:%d: invalid count %q", path, lineno, parts[1])
		}
		table[parts[0]] = count
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return table, nil
}

// SaveTable writes a vocabulary listing, most frequent symbols first,
// ties broken by symbol. The file is written atomically.
func SaveTable(table Table, path string) error {
	syms := make([]string, 0, len(table))
	for sym := range table {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		if table[syms[i]] != table[syms[j]] {
			return table[syms[i]] > table[syms[j]]
		}
		return syms[i] < syms[j]
	})

	var buf strings.Builder
	for _, sym := range syms {
		fmt.Fprintf(&buf, "%s %d\n", sym, table[sym])
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(buf.String()), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
