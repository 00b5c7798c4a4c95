// Command bpeprep converts parallel-corpus text files into binarized,
// model-ready datasets using subword segmentation.
//
// Usage:
//
//	bpeprep -source-lang de -target-lang en -train-prefix data/train \
//	        -valid-prefix data/valid -test-prefix data/test \
//	        -codes-src codes.de -codes-tgt codes.en -dest-dir data-bin
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/seqtools/bpeprep/pkg/pipeline"
)

var (
	sourceLang = flag.String("source-lang", "", "source language identifier")
	targetLang = flag.String("target-lang", "", "target language identifier")

	trainPrefix     = flag.String("train-prefix", "", "train file prefix")
	tinyTrainPrefix = flag.String("tiny-train-prefix", "", "tiny train file prefix (optional)")
	validPrefix     = flag.String("valid-prefix", "", "valid file prefix (optional)")
	testPrefix      = flag.String("test-prefix", "", "test file prefix (optional)")
	destDir         = flag.String("dest-dir", "data-bin", "destination directory")

	thresholdSrc = flag.Int("threshold-src", 2, "map source symbols appearing fewer than this many times to unknown")
	thresholdTgt = flag.Int("threshold-tgt", 2, "map target symbols appearing fewer than this many times to unknown")
	numWordsSrc  = flag.Int("num-words-src", -1, "number of source symbols to retain (-1 = no cap)")
	numWordsTgt  = flag.Int("num-words-tgt", -1, "number of target symbols to retain (-1 = no cap)")

	codesSrc = flag.String("codes-src", "", "path to source language merge codes")
	codesTgt = flag.String("codes-tgt", "", "path to target language merge codes")

	joint          = flag.Bool("joint", false, "shared-vocabulary workflow: one merge table plus a frequency gate")
	codes          = flag.String("codes", "", "path to shared merge codes (with -joint)")
	vocabThreshold = flag.Int("vocab-threshold", 1, "frequency gate threshold (with -joint)")

	quiet = flag.Bool("q", false, "quiet operation")
	help  = flag.Bool("h", false, "display this help")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	cfg := pipeline.Config{
		SourceLang:      *sourceLang,
		TargetLang:      *targetLang,
		TrainPrefix:     *trainPrefix,
		TinyTrainPrefix: *tinyTrainPrefix,
		ValidPrefix:     *validPrefix,
		TestPrefix:      *testPrefix,
		DestDir:         *destDir,
		ThresholdSrc:    *thresholdSrc,
		ThresholdTgt:    *thresholdTgt,
		NumWordsSrc:     *numWordsSrc,
		NumWordsTgt:     *numWordsTgt,
		CodesSrc:        *codesSrc,
		CodesTgt:        *codesTgt,
		JointVocab:      *joint,
		Codes:           *codes,
		VocabThreshold:  *vocabThreshold,
		Quiet:           *quiet,
	}

	if err := pipeline.Run(cfg); err != nil {
		fatal("%v", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: bpeprep [options]

Segment, dictionary-build and binarize a parallel corpus.

Input files are resolved as <prefix>.<lang> for each configured split.
Outputs in the destination directory:
  <split>.bpe.<lang>   segmented (and optionally filtered) text
  vocab.<lang>         frequency listing (joint workflow only)
  dict.<lang>          finalized dictionary
  <split>.bin.<lang>   binarized dataset

Options:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  bpeprep -source-lang de -target-lang en -train-prefix data/train \
          -codes-src codes.de -codes-tgt codes.en
  bpeprep -joint -codes codes.joint -vocab-threshold 10 \
          -source-lang de -target-lang en -train-prefix data/train
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "bpeprep: "+format+"\n", args...)
	os.Exit(1)
}
