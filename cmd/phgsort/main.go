// Command phgsort time-sorts a history file produced by phgsim (or a
// collimator/detector stage downstream of it) using a bounded-memory
// two-phase sort-then-merge.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/simset-go/phgsim/internal/fsutil"
	"github.com/simset-go/phgsim/internal/phg/histsort"
	"github.com/simset-go/phgsim/internal/phg/history"
	"github.com/simset-go/phgsim/internal/phg/sim"
	"github.com/simset-go/phgsim/internal/version"
)

var fileSystem fsutil.FileSystem = fsutil.OSFileSystem{}

func main() {
	var (
		phgPath        string
		collimatorPath string
		detectorPath   string
		outPath        string
		workDir        string
		bufferMB       int
		mergeWidth     int
		testOnly       bool
		deleteInput    bool
		versionFlag    bool
	)

	flag.BoolVar(&versionFlag, "version", false, "print version and exit")
	flag.StringVar(&phgPath, "p", "", "PHG (object-tracker) history file to sort")
	flag.StringVar(&collimatorPath, "c", "", "collimator history file to sort")
	flag.StringVar(&detectorPath, "d", "", "detector history file to sort")
	flag.StringVar(&outPath, "o", "", "time-sorted output path")
	flag.StringVar(&workDir, "work-dir", os.TempDir(), "directory for intermediate run/merge files")
	flag.IntVar(&bufferMB, "buffer-mb", 64, "Phase I memory budget in megabytes")
	flag.IntVar(&mergeWidth, "merge-width", histsort.DefaultMaxMergeWidth, "number of run files merged together at once")
	flag.BoolVar(&testOnly, "t", false, "only report whether the input is already time-sorted; write nothing")
	flag.BoolVar(&deleteInput, "r", false, "delete the input file after sorting succeeds")
	flag.Parse()

	if versionFlag {
		fmt.Printf("phgsort v%s (git SHA: %s)\n", version.Version, version.GitSHA)
		os.Exit(0)
	}

	inputPath, err := singleInput(phgPath, collimatorPath, detectorPath)
	if err != nil {
		log.Fatalf("phgsort: %v", err)
	}
	if !fileSystem.Exists(inputPath) {
		log.Fatalf("phgsort: input file %s does not exist", inputPath)
	}

	if testOnly {
		sorted, err := reportSorted(inputPath)
		if err != nil {
			log.Fatalf("phgsort: %v", err)
		}
		if sorted {
			fmt.Println("sorted")
			os.Exit(0)
		}
		fmt.Println("not sorted")
		os.Exit(1)
	}

	if outPath == "" {
		log.Fatalf("phgsort: -o output path is required")
	}

	cfg := histsort.DefaultConfig().
		WithBufferBytes(int64(bufferMB) << 20).
		WithMaxMergeWidth(mergeWidth).
		WithDeleteInputAfter(deleteInput)

	engine := histsort.New(cfg)
	if err := engine.Sort(context.Background(), inputPath, outPath, workDir); err != nil {
		log.Printf("phgsort: %v", err)
		os.Exit(sim.ExitCode(err))
	}

	fmt.Printf("phgsort: wrote time-sorted output to %s\n", outPath)
}

// singleInput picks the one non-empty input flag among -p/-c/-d; exactly
// one must be set.
func singleInput(phg, collimator, detector string) (string, error) {
	paths := map[string]string{"-p": phg, "-c": collimator, "-d": detector}
	var chosenFlag, chosenPath string
	count := 0
	for flagName, p := range paths {
		if p != "" {
			count++
			chosenFlag, chosenPath = flagName, p
		}
	}
	switch count {
	case 0:
		return "", errors.New("exactly one of -p, -c, -d must name an input file")
	case 1:
		_ = chosenFlag
		return chosenPath, nil
	default:
		return "", errors.New("-p, -c, -d are mutually exclusive; only one input file may be given")
	}
}

// reportSorted reads the input's decay times and reports whether they
// are already non-decreasing, without writing any output.
func reportSorted(inputPath string) (bool, error) {
	f, err := os.Open(inputPath)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer f.Close()

	rd, err := history.Open(f)
	if err != nil {
		return false, err
	}
	if rd.Header.IsTimeSorted {
		return true, nil
	}

	last := -1.0
	first := true
	for {
		evt, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return true, nil
		}
		if err != nil {
			return false, err
		}
		if evt.Decay == nil {
			continue
		}
		if !first && evt.Decay.Time < last {
			return false, nil
		}
		last = evt.Decay.Time
		first = false
	}
}
