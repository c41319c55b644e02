package histsort

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/simset-go/phgsim/internal/monitoring"
	"github.com/simset-go/phgsim/internal/phg/clock"
	"github.com/simset-go/phgsim/internal/phg/history"
	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// Engine orchestrates the full two-phase sort over real files
// (spec.md §4.7).
type Engine struct {
	cfg Config
}

// New builds an Engine.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Sort reads inputPath, time-sorts it, and writes outputPath.
// Intermediate run and merge files are created under workDir; on any
// I/O error the operation is abandoned and those intermediates are
// left for the OS to reclaim, per spec.md §4.7's fatal failure model.
func (e *Engine) Sort(ctx context.Context, inputPath, outputPath, workDir string) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("histsort: opening %s: %w", inputPath, simerr.ErrIOError)
	}
	defer in.Close()

	rd, err := history.Open(in)
	if err != nil {
		return err
	}
	header := rd.Header
	src := newGroupSource(rd)

	var runPaths []string
	opener := func(run int) (io.WriteCloser, error) {
		p := filepath.Join(workDir, fmt.Sprintf("phgsort-run-%06d.hist", run))
		f, err := os.Create(p)
		if err != nil {
			return nil, err
		}
		runPaths = append(runPaths, p)
		return f, nil
	}

	sorter := NewSorter(e.cfg)
	numRuns, err := sorter.Run(src, header, opener)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("histsort: cancelled during run generation: %w", simerr.ErrUserCancelled)
	}

	if numRuns == 0 {
		return e.writeEmptyOutput(header, outputPath)
	}

	merger := NewMerger(e.cfg)
	stopwatch := clock.NewStopwatch(clock.RealClock{})
	filesMerged := 0
	gen := 0
	for len(runPaths) > e.cfg.MaxMergeWidth {
		var next []string
		for i := 0; i < len(runPaths); i += e.cfg.MaxMergeWidth {
			end := i + e.cfg.MaxMergeWidth
			if end > len(runPaths) {
				end = len(runPaths)
			}
			batch := runPaths[i:end]
			outPath := filepath.Join(workDir, fmt.Sprintf("phgsort-merge-%02d-%04d.hist", gen, i/e.cfg.MaxMergeWidth))
			if err := e.mergeFilesTo(merger, batch, outPath, header, false); err != nil {
				return err
			}
			next = append(next, outPath)
			filesMerged += len(batch)
			if stopwatch.ShouldReport(filesMerged) {
				monitoring.Logf("histsort: merged %d intermediate files, elapsed %s",
					filesMerged, stopwatch.Elapsed().Round(time.Second))
			}
		}
		runPaths = next
		gen++
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("histsort: cancelled during merge: %w", simerr.ErrUserCancelled)
		}
	}

	if len(runPaths) == 1 {
		if err := e.finalizeSingleRun(runPaths[0], outputPath); err != nil {
			return err
		}
	} else if err := e.mergeFilesTo(merger, runPaths, outputPath, header, true); err != nil {
		return err
	}

	if e.cfg.DeleteInputAfter {
		if err := os.Remove(inputPath); err != nil {
			return fmt.Errorf("histsort: removing input after sort: %w", simerr.ErrIOError)
		}
	}
	return nil
}

func (e *Engine) mergeFilesTo(merger *Merger, paths []string, outPath string, header history.Header, final bool) error {
	readers := make([]io.Reader, 0, len(paths))
	files := make([]*os.File, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("histsort: opening run %s: %w", p, simerr.ErrIOError)
		}
		files = append(files, f)
		readers = append(readers, f)
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("histsort: creating %s: %w", outPath, simerr.ErrIOError)
	}
	defer out.Close()

	h := header
	if final {
		h.IsTimeSorted = true
	}
	_, err = merger.MergeOnce(readers, h, out)
	return err
}

// finalizeSingleRun patches the lone remaining run's header in place
// (setting isTimeSorted) and renames it to outputPath, avoiding a
// redundant merge pass when Phase I already produced one run
// (spec.md §4.7: "rename the final file to the user's requested name").
func (e *Engine) finalizeSingleRun(runPath, outputPath string) error {
	f, err := os.OpenFile(runPath, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("histsort: reopening run %s: %w", runPath, simerr.ErrIOError)
	}

	block := make([]byte, history.HeaderSize)
	if _, err := io.ReadFull(f, block); err != nil {
		f.Close()
		return fmt.Errorf("histsort: reading run header: %w", simerr.ErrIOError)
	}
	h, err := history.DecodeHeader(bytes.NewReader(block))
	if err != nil {
		f.Close()
		return err
	}
	h.IsTimeSorted = true

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return fmt.Errorf("histsort: seeking run header: %w", simerr.ErrIOError)
	}
	if err := h.Encode(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("histsort: closing patched run: %w", simerr.ErrIOError)
	}

	if err := os.Rename(runPath, outputPath); err != nil {
		return fmt.Errorf("histsort: renaming %s to %s: %w", runPath, outputPath, simerr.ErrIOError)
	}
	return nil
}

func (e *Engine) writeEmptyOutput(header history.Header, outputPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("histsort: creating %s: %w", outputPath, simerr.ErrIOError)
	}
	defer out.Close()
	header.IsTimeSorted = true
	return header.Encode(out)
}
