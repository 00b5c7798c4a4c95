package segment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCodes(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codes")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadCodes(t *testing.T, lines ...string) *Codes {
	t.Helper()
	c, err := LoadCodes(writeCodes(t, lines...))
	if err != nil {
		t.Fatalf("LoadCodes: %v", err)
	}
	return c
}

func TestLoadCodes(t *testing.T) {
	c := loadCodes(t, "#version: 0.2", "l o", "lo w", "", "e r</w>")
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestLoadCodesDuplicateKeepsFirstRank(t *testing.T) {
	c := loadCodes(t, "a b", "a b", "c d")
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestLoadCodesMalformed(t *testing.T) {
	testCases := []struct {
		name string
		line string
	}{
		{"one field", "lonely"},
		{"three fields", "a b c"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeCodes(t, tc.line)
			_, err := LoadCodes(path)
			if err == nil {
				t.Fatal("LoadCodes accepted malformed file")
			}
			if !strings.Contains(err.Error(), path+":1") {
				t.Errorf("error %q does not carry path and line number", err)
			}
		})
	}
}

func TestLoadCodesMissingFile(t *testing.T) {
	_, err := LoadCodes(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("LoadCodes of missing file succeeded")
	}
}

func TestSegment(t *testing.T) {
	// Merges building up "low" and the word-final "er".
	c := loadCodes(t, "l o", "lo w</w>", "e r</w>")

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{"full word merge", "low", "low"},
		{"partial merge", "lower", "lo@@ w@@ er"},
		{"no rules apply", "xyz", "x@@ y@@ z"},
		{"multiple words", "low low", "low low"},
		{"whitespace normalized", "  low\tlow ", "low low"},
		{"blank line", "   ", ""},
		{"empty line", "", ""},
		{"single char word", "a", "a"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Segment(tc.input)
			if got != tc.want {
				t.Errorf("Segment(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSegmentRankOrder(t *testing.T) {
	// "a b" outranks "b c</w>": in "abc" the left pair merges first, so
	// the word-final rule never fires.
	c := loadCodes(t, "a b", "b c</w>", "ab c</w>")
	if got := c.Segment("abc"); got != "abc" {
		t.Errorf("Segment(abc) = %q, want %q", got, "abc")
	}

	// Swap priority: now "b c</w>" wins and "a" is left alone.
	c2 := loadCodes(t, "b c</w>", "a b")
	if got := c2.Segment("abc"); got != "a@@ bc" {
		t.Errorf("Segment(abc) = %q, want %q", got, "a@@ bc")
	}
}

func TestSegmentDeterministicAndStateless(t *testing.T) {
	c := loadCodes(t, "l o", "lo w</w>")

	first := c.Segment("low lower")
	for i := 0; i < 5; i++ {
		if got := c.Segment("low lower"); got != first {
			t.Fatalf("call %d: %q, want %q", i, got, first)
		}
	}

	// Interleaved different input must not affect later calls.
	c.Segment("completely different text")
	if got := c.Segment("low lower"); got != first {
		t.Errorf("state leaked between calls: %q vs %q", got, first)
	}
}

func TestSegmentUnicode(t *testing.T) {
	c := loadCodes(t, "ü b")
	if got := c.Segment("übe"); got != "üb@@ e" {
		t.Errorf("Segment(übe) = %q, want %q", got, "üb@@ e")
	}
}

func TestApplyFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "train.en")
	out := filepath.Join(dir, "train.bpe.en")

	if err := os.WriteFile(in, []byte("low\nlower low\n\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c := loadCodes(t, "l o", "lo w</w>", "e r</w>")
	if err := ApplyFile(c, in, out); err != nil {
		t.Fatalf("ApplyFile: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "low\nlo@@ w@@ er low\n\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}
}

func TestApplyFileMissingInput(t *testing.T) {
	dir := t.TempDir()
	c := loadCodes(t, "a b")
	if err := ApplyFile(c, filepath.Join(dir, "nope"), filepath.Join(dir, "out")); err == nil {
		t.Error("ApplyFile with missing input succeeded")
	}
}
