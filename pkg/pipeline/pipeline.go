// Package pipeline wires the preprocessing stages into the two supported
// workflows: independent per-language merge tables, and a joint table
// shared by source and target with a frequency-gated vocabulary.
//
// Each run segments every configured split, builds and finalizes one
// dictionary per language from the training split only, and binarizes all
// splits against that fixed dictionary. Every output file is written
// atomically, so a failure in one split leaves earlier outputs intact.
package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/seqtools/bpeprep/pkg/binarize"
	"github.com/seqtools/bpeprep/pkg/dict"
	"github.com/seqtools/bpeprep/pkg/filter"
	"github.com/seqtools/bpeprep/pkg/freq"
	"github.com/seqtools/bpeprep/pkg/segment"
	"github.com/seqtools/bpeprep/pkg/token"
)

var (
	ErrNoLang  = errors.New("pipeline: source and target languages are required")
	ErrNoTrain = errors.New("pipeline: a train prefix is required")
	ErrNoCodes = errors.New("pipeline: no merge-rule codes configured")
)

// Config is the invocation surface the orchestration layer fills in.
// Raw input files are resolved as "<prefix>.<lang>"; splits with an empty
// prefix are skipped.
type Config struct {
	SourceLang string
	TargetLang string

	TrainPrefix     string
	TinyTrainPrefix string
	ValidPrefix     string
	TestPrefix      string

	DestDir string

	// Finalize parameters, per language. A negative NumWords means no cap.
	ThresholdSrc int
	ThresholdTgt int
	NumWordsSrc  int
	NumWordsTgt  int

	// Per-language merge tables (ignored when JointVocab is set).
	CodesSrc string
	CodesTgt string

	// Joint workflow: one shared merge table plus a frequency gate applied
	// to every segmented split before dictionary building.
	JointVocab     bool
	Codes          string
	VocabThreshold int

	Quiet bool
	Log   io.Writer // defaults to os.Stderr
}

type split struct {
	name   string
	prefix string
}

func (c *Config) splits() []split {
	all := []split{
		{"train", c.TrainPrefix},
		{"valid", c.ValidPrefix},
		{"test", c.TestPrefix},
		{"tiny_train", c.TinyTrainPrefix},
	}
	configured := all[:0]
	for _, s := range all {
		if s.prefix != "" {
			configured = append(configured, s)
		}
	}
	return configured
}

func (c *Config) logf(format string, args ...interface{}) {
	if c.Quiet {
		return
	}
	w := c.Log
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// Run executes the full preprocessing pipeline described by cfg.
func Run(cfg Config) error {
	if cfg.SourceLang == "" || cfg.TargetLang == "" {
		return ErrNoLang
	}
	if cfg.TrainPrefix == "" {
		return ErrNoTrain
	}

	if err := os.MkdirAll(cfg.DestDir, 0755); err != nil {
		return err
	}

	langs := []string{cfg.SourceLang, cfg.TargetLang}

	codes, err := cfg.loadCodes()
	if err != nil {
		return err
	}

	// Segment every configured split for both languages.
	for _, lang := range langs {
		for _, s := range cfg.splits() {
			in := s.prefix + "." + lang
			out := filepath.Join(cfg.DestDir, s.name+".bpe."+lang)
			cfg.logf("segmenting %s -> %s", in, out)
			if err := segment.ApplyFile(codes[lang], in, out); err != nil {
				return err
			}
		}
	}

	// Joint workflow: extract per-language vocabulary listings from the
	// segmented training data, then gate every split against them.
	if cfg.JointVocab {
		for _, lang := range langs {
			trainPath := filepath.Join(cfg.DestDir, "train.bpe."+lang)
			table, err := freq.Count(trainPath)
			if err != nil {
				return err
			}
			vocabPath := filepath.Join(cfg.DestDir, "vocab."+lang)
			if err := freq.SaveTable(table, vocabPath); err != nil {
				return err
			}
			cfg.logf("extracted vocabulary %s (%d symbols)", vocabPath, len(table))

			for _, s := range cfg.splits() {
				path := filepath.Join(cfg.DestDir, s.name+".bpe."+lang)
				if err := filter.File(path, path, table, cfg.VocabThreshold); err != nil {
					return err
				}
			}
		}
	}

	// Build one dictionary per language from the training split only,
	// then binarize every split against it.
	for _, lang := range langs {
		threshold, numWords := cfg.ThresholdSrc, cfg.NumWordsSrc
		if lang == cfg.TargetLang {
			threshold, numWords = cfg.ThresholdTgt, cfg.NumWordsTgt
		}

		trainPath := filepath.Join(cfg.DestDir, "train.bpe."+lang)
		d, err := buildDictionary(trainPath)
		if err != nil {
			return err
		}
		if err := d.Finalize(threshold, numWords); err != nil {
			return err
		}
		dictPath := filepath.Join(cfg.DestDir, "dict."+lang)
		if err := d.Save(dictPath); err != nil {
			return err
		}
		cfg.logf("built dictionary %s (%d symbols)", dictPath, d.Len())

		for _, s := range cfg.splits() {
			in := filepath.Join(cfg.DestDir, s.name+".bpe."+lang)
			out := filepath.Join(cfg.DestDir, s.name+".bin."+lang)
			stats, err := binarize.File(in, out, d, true)
			if err != nil {
				return err
			}
			cfg.logf("%s", stats.Summary(in))
		}
	}

	return nil
}

// loadCodes resolves the merge table for each language: one shared table
// in the joint workflow, otherwise an independent table per language.
func (c *Config) loadCodes() (map[string]*segment.Codes, error) {
	out := make(map[string]*segment.Codes, 2)
	if c.JointVocab {
		if c.Codes == "" {
			return nil, ErrNoCodes
		}
		shared, err := segment.LoadCodes(c.Codes)
		if err != nil {
			return nil, err
		}
		out[c.SourceLang] = shared
		out[c.TargetLang] = shared
		return out, nil
	}

	if c.CodesSrc == "" || c.CodesTgt == "" {
		return nil, ErrNoCodes
	}
	src, err := segment.LoadCodes(c.CodesSrc)
	if err != nil {
		return nil, err
	}
	tgt, err := segment.LoadCodes(c.CodesTgt)
	if err != nil {
		return nil, err
	}
	out[c.SourceLang] = src
	out[c.TargetLang] = tgt
	return out, nil
}

// buildDictionary populates a fresh dictionary from a segmented file.
func buildDictionary(path string) (*dict.Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := dict.New()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		for _, sym := range token.Tokenize(scanner.Text()) {
			if _, err := d.AddWord(sym); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return d, nil
}
