// Package dict implements the symbol dictionary used for binarization.
//
// A Dictionary owns the symbol<->id bijection and the per-symbol occurrence
// counts. It is populated incrementally from segmented training text, pruned
// exactly once by Finalize, persisted as a plain text file, and then used
// read-only to binarize every data split.
//
// Ids 0..NumSpecials-1 are reserved for the control symbols pad, unknown,
// begin-of-sequence and end-of-sequence, in that order. Their ids never
// change: not across Finalize, and not across Save/Load.
package dict

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Special symbol surface forms.
const (
	PadWord = "<pad>"
	UnkWord = "<unk>"
	BosWord = "<s>"
	EosWord = "</s>"
)

// Special symbol ids, fixed at construction.
const (
	PadID = 0
	UnkID = 1
	BosID = 2
	EosID = 3

	// NumSpecials is the size of the reserved id block.
	NumSpecials = 4
)

// specialCount outranks any real occurrence count so specials survive
// every prune.
const specialCount = math.MaxInt

var (
	ErrFinalized    = errors.New("dict: dictionary already finalized")
	ErrNotFinalized = errors.New("dict: dictionary not finalized")
)

type entry struct {
	word  string
	count int
}

// Dictionary maps symbols to dense integer ids. A single growable entry
// slice carries the id->symbol/count view; the index map is a hash view
// into the same slice, never a second copy of the symbol set.
type Dictionary struct {
	entries   []entry
	index     map[string]int
	finalized bool
}

// New creates an empty dictionary holding only the special symbols.
func New() *Dictionary {
	d := &Dictionary{
		index: make(map[string]int),
	}
	for _, w := range []string{PadWord, UnkWord, BosWord, EosWord} {
		d.index[w] = len(d.entries)
		d.entries = append(d.entries, entry{word: w, count: specialCount})
	}
	return d
}

// AddWord records one occurrence of word and returns its id. A known word
// only has its count incremented; a new word is appended at the next free
// id with count 1. Returns ErrFinalized once Finalize has run.
func (d *Dictionary) AddWord(word string) (int, error) {
	if d.finalized {
		return -1, ErrFinalized
	}
	if id, ok := d.index[word]; ok {
		d.entries[id].count++
		return id, nil
	}
	id := len(d.entries)
	d.index[word] = id
	d.entries = append(d.entries, entry{word: word, count: 1})
	return id, nil
}

// Finalize prunes the dictionary to a bounded vocabulary. Non-special
// symbols are ordered by count descending, with original insertion order
// breaking ties so ids are reproducible run to run. At most
// maxSize-NumSpecials non-specials are retained (maxSize < 0 means no cap;
// a cap below NumSpecials retains specials only), then any retained symbol
// with count below threshold is dropped. Retained symbols get dense ids
// immediately after the specials block.
//
// Finalize may run once; the dictionary is immutable afterwards.
func (d *Dictionary) Finalize(threshold, maxSize int) error {
	if d.finalized {
		return ErrFinalized
	}

	words := d.entries[NumSpecials:]

	// Explicit secondary key: insertion index. sort.Slice is not stable,
	// so the tie-break must be part of the comparison.
	order := make([]int, len(words))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if words[i].count != words[j].count {
			return words[i].count > words[j].count
		}
		return i < j
	})

	keep := len(order)
	if maxSize >= 0 {
		limit := maxSize - NumSpecials
		if limit < 0 {
			limit = 0
		}
		if limit < keep {
			keep = limit
		}
	}

	pruned := d.entries[:NumSpecials:NumSpecials]
	index := make(map[string]int, keep+NumSpecials)
	for id := 0; id < NumSpecials; id++ {
		index[d.entries[id].word] = id
	}
	for _, i := range order[:keep] {
		if words[i].count < threshold {
			continue
		}
		index[words[i].word] = len(pruned)
		pruned = append(pruned, words[i])
	}

	d.entries = pruned
	d.index = index
	d.finalized = true
	return nil
}

// Finalized reports whether Finalize has run.
func (d *Dictionary) Finalized() bool {
	return d.finalized
}

// Len returns the total number of symbols, specials included.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Lookup returns the id of word, or the unknown id if absent.
func (d *Dictionary) Lookup(word string) int {
	if id, ok := d.index[word]; ok {
		return id
	}
	return UnkID
}

// Contains reports whether word has its own id.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.index[word]
	return ok
}

// Word returns the symbol for id, or the unknown surface form for an
// out-of-range id.
func (d *Dictionary) Word(id int) string {
	if id < 0 || id >= len(d.entries) {
		return UnkWord
	}
	return d.entries[id].word
}

// Count returns the occurrence count recorded for id, or 0 if out of range.
func (d *Dictionary) Count(id int) int {
	if id < 0 || id >= len(d.entries) {
		return 0
	}
	return d.entries[id].count
}

// Save writes the non-special entries in id order, one "symbol count" pair
// per line. Specials are not serialized; Load reconstructs them. The file
// is written atomically via a temporary file and rename.
func (d *Dictionary) Save(path string) error {
	var buf strings.Builder
	for _, e := range d.entries[NumSpecials:] {
		fmt.Fprintf(&buf, "%s %d\n", e.word, e.count)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(buf.String()), 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Load reads a dictionary previously written by Save. The returned
// dictionary is finalized: ids are fixed by line order after the specials
// block, and AddWord is rejected.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := New()
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
			return nil, fmt.Errorf("dict: %s:%d: expected \"symbol count\", got %q", path, lineno, line)
		}
		count, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("dict: %s:%d: invalid count %q", path, lineno, parts[1])
		}
		if _, ok := d.index[parts[0]]; ok {
			return nil, fmt.Errorf("dict: %s:%d: duplicate symbol %q", path, lineno, parts[0])
		}
		d.index[parts[0]] = len(d.entries)
		d.entries = append(d.entries, entry{word: parts[0], count: count})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	d.finalized = true
	return d, nil
}
