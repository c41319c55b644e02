// Command phgbin bins a history file's detected photons into a
// dimension-ordered histogram (angle, radial position, energy) and
// reports or plots the result. Binning layout itself is an external
// collaborator's contract (spec.md §1); this CLI supplies the simplest
// concrete one: a photon's own on-disk azimuthal-bin, transaxial
// position, and energy fields.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/simset-go/phgsim/internal/phg/binner"
	"github.com/simset-go/phgsim/internal/phg/history"
	"github.com/simset-go/phgsim/internal/version"
)

func main() {
	var (
		inPath        string
		numAngleBins  int
		numRadialBins int
		numEnergyBins int
		radialExtent  float64
		maxEnergyKeV  float64
		outDir        string
		plotEnergy    bool
		plotHeatmap   bool
		versionFlag   bool
	)

	flag.BoolVar(&versionFlag, "version", false, "print version and exit")
	flag.StringVar(&inPath, "i", "", "history file of detected photons to bin")
	flag.IntVar(&numAngleBins, "angle-bins", 64, "number of azimuthal angle bins")
	flag.IntVar(&numRadialBins, "radial-bins", 64, "number of transaxial radial bins")
	flag.IntVar(&numEnergyBins, "energy-bins", 32, "number of energy bins")
	flag.Float64Var(&radialExtent, "radial-extent", 15, "+/- transaxial extent binned, cm")
	flag.Float64Var(&maxEnergyKeV, "max-energy", 700, "top of the energy binning range, keV")
	flag.StringVar(&outDir, "out-dir", "", "directory for PNG plots (required with -plot-energy/-plot-heatmap)")
	flag.BoolVar(&plotEnergy, "plot-energy", false, "save a 1-D energy spectrum PNG")
	flag.BoolVar(&plotHeatmap, "plot-heatmap", false, "save a 2-D angle/radial sinogram PNG")
	flag.Parse()

	if versionFlag {
		fmt.Printf("phgbin v%s (git SHA: %s)\n", version.Version, version.GitSHA)
		os.Exit(0)
	}
	log.Printf("phgbin v%s (git SHA: %s)", version.Version, version.GitSHA)

	if inPath == "" {
		log.Fatalf("phgbin: -i input path is required")
	}

	layout := binner.Layout{Dimensions: []binner.Dimension{
		{Name: "angle", NumBins: numAngleBins},
		{Name: "radial", NumBins: numRadialBins},
		{Name: "energy", NumBins: numEnergyBins},
	}}

	cfg := binner.DefaultConfig().WithOutputDir(outDir)
	if plotEnergy {
		cfg = cfg.WithEnergySpectrumPlot(2)
	}
	if plotHeatmap {
		cfg = cfg.WithHeatmapPlot(0, 1)
	}
	if err := cfg.Validate(layout); err != nil {
		log.Fatalf("phgbin: %v", err)
	}

	loc := &sinogramLocator{
		numAngleBins:  numAngleBins,
		numRadialBins: numRadialBins,
		numEnergyBins: numEnergyBins,
		radialExtent:  radialExtent,
		maxEnergyKeV:  maxEnergyKeV,
	}

	b, err := binner.New(layout, loc)
	if err != nil {
		log.Fatalf("phgbin: %v", err)
	}

	in, err := os.Open(inPath)
	if err != nil {
		log.Fatalf("phgbin: opening %s: %v", inPath, err)
	}
	defer in.Close()

	rd, err := history.Open(in)
	if err != nil {
		log.Fatalf("phgbin: %v", err)
	}

	var lastDecayTime float64
	for {
		evt, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatalf("phgbin: reading %s: %v", inPath, err)
		}
		if evt.Decay != nil {
			lastDecayTime = evt.Decay.Time
			continue
		}
		ph := evt.Photon
		if _, err := b.Record(binner.Event{
			Position:      ph.Position,
			Energy:        ph.Energy,
			Time:          lastDecayTime + ph.TimeSinceCreation,
			CrystalIndex:  int(ph.CrystalNumber),
			AzimuthalBin:  int(ph.AzimuthalBin),
			TransaxialPos: ph.TransaxialPos,
		}, ph.Weight); err != nil {
			log.Fatalf("phgbin: %v", err)
		}
	}

	hist := b.Histogram()
	fmt.Printf("phgbin: accepted %d photons (rejected %d), total weight %.3f across %d bins\n",
		b.Accepted(), b.Rejected(), hist.Total(), layout.NumBins())

	if plotEnergy {
		path := filepath.Join(outDir, "energy_spectrum.png")
		if err := hist.SaveProjectionPlot(path, 2, "Energy spectrum"); err != nil {
			log.Fatalf("phgbin: %v", err)
		}
		fmt.Printf("phgbin: wrote %s\n", path)
	}
	if plotHeatmap {
		path := filepath.Join(outDir, "sinogram.png")
		if err := hist.SaveHeatmapPlot(path, 0, 1, "Angle/radial sinogram"); err != nil {
			log.Fatalf("phgbin: %v", err)
		}
		fmt.Printf("phgbin: wrote %s\n", path)
	}
}

// sinogramLocator maps a detected photon onto (angle, radial, energy)
// bin coordinates using the photon's own on-disk azimuthal-bin and
// transaxial-position fields, rather than deriving them from detector
// geometry.
type sinogramLocator struct {
	numAngleBins  int
	numRadialBins int
	numEnergyBins int
	radialExtent  float64
	maxEnergyKeV  float64
}

func (l *sinogramLocator) Locate(e binner.Event) ([]int, bool) {
	angle := e.AzimuthalBin % l.numAngleBins
	if angle < 0 {
		angle += l.numAngleBins
	}

	frac := (e.TransaxialPos + l.radialExtent) / (2 * l.radialExtent)
	radial := int(frac * float64(l.numRadialBins))
	if radial < 0 || radial >= l.numRadialBins {
		return nil, false
	}

	if e.Energy < 0 || e.Energy >= l.maxEnergyKeV {
		return nil, false
	}
	energy := int(e.Energy / l.maxEnergyKeV * float64(l.numEnergyBins))
	if energy >= l.numEnergyBins {
		energy = l.numEnergyBins - 1
	}

	return []int{angle, radial, energy}, true
}
