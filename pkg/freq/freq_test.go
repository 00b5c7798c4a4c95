package freq

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCount(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    Table
	}{
		{
			name:    "basic",
			content: "a a b\nb c\n",
			want:    Table{"a": 2, "b": 2, "c": 1},
		},
		{
			name:    "whitespace runs and blank lines",
			content: "  a\t a  \n\n a \n",
			want:    Table{"a": 3},
		},
		{
			name:    "empty file",
			content: "",
			want:    Table{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "corpus.txt", tc.content)
			got, err := Count(path)
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Count = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCountMissingFile(t *testing.T) {
	_, err := Count(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Error("Count of missing file succeeded")
	}
}

func TestLoadTable(t *testing.T) {
	path := writeFile(t, "vocab.en", "the 100\na@@ 40\nfox 2\n")

	got, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	want := Table{"the": 100, "a@@": 40, "fox": 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadTable = %v, want %v", got, want)
	}
}

func TestLoadTableMalformed(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"missing count", "the\n"},
		{"extra field", "the 10 20\n"},
		{"non-integer count", "the many\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "vocab.bad", tc.content)
			_, err := LoadTable(path)
			if err == nil {
				t.Fatal("LoadTable accepted malformed file")
			}
			if !strings.Contains(err.Error(), path+":1") {
				t.Errorf("error %q does not carry path and line number", err)
			}
		})
	}
}

func TestSaveTableOrderAndRoundTrip(t *testing.T) {
	table := Table{"low": 1, "high": 50, "mid": 7, "also-mid": 7}
	path := filepath.Join(t.TempDir(), "vocab.out")

	if err := SaveTable(table, path); err != nil {
		t.Fatalf("SaveTable: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Most frequent first, ties by symbol.
	want := "high 50\nalso-mid 7\nmid 7\nlow 1\n"
	if string(data) != want {
		t.Errorf("file content = %q, want %q", data, want)
	}

	loaded, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if !reflect.DeepEqual(loaded, table) {
		t.Errorf("round trip = %v, want %v", loaded, table)
	}
}
