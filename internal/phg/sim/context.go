package sim

import (
	"fmt"
	"log"

	"github.com/simset-go/phgsim/internal/phg/collimator"
	"github.com/simset-go/phgsim/internal/phg/decay"
	"github.com/simset-go/phgsim/internal/phg/detector"
	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/material"
	"github.com/simset-go/phgsim/internal/phg/prng"
	"github.com/simset-go/phgsim/internal/phg/productivity"
	"github.com/simset-go/phgsim/internal/phg/tracker"
)

// Dependencies are the run's external collaborators: the object/material
// description and binning-layout contracts spec.md §1 places out of
// scope, supplied by the caller (a voxel-map loader, a binning-layout
// module, a block-detector geometry module).
type Dependencies struct {
	Materials *material.Table
	Grid      geometry.VoxelGrid
	Target    geometry.Cylinder

	Voxels  tracker.VoxelMaterials
	Cells   tracker.CellLocator
	Isotope decay.IsotopeEnergyTable

	// CollimatorGeometry is nil for a run with no collimator stage
	// (e.g. a bare PET ring); non-nil installs a collimator.Tracker.
	CollimatorGeometry *collimator.Geometry
	CrystalLayout      detector.CrystalLayout

	Logger *log.Logger
}

func (d Dependencies) validate() error {
	if d.Materials == nil {
		return fmt.Errorf("sim: Dependencies.Materials must not be nil")
	}
	if d.Voxels == nil {
		return fmt.Errorf("sim: Dependencies.Voxels must not be nil")
	}
	if d.Cells == nil {
		return fmt.Errorf("sim: Dependencies.Cells must not be nil")
	}
	if d.CrystalLayout == nil {
		return fmt.Errorf("sim: Dependencies.CrystalLayout must not be nil")
	}
	return nil
}

// Context is the fully wired, read-only-after-construction tracking
// pipeline for one run: every worker goroutine shares the same Context
// but draws its own prng.Source sub-stream and decay.Generator from it
// (spec.md §5), since Tracker/Collimator/Detector hold no mutable state
// beyond their config and collaborators.
type Context struct {
	cfg RunConfig

	Materials    *material.Table
	Productivity *productivity.Table
	Target       geometry.Cylinder
	Grid         geometry.VoxelGrid
	Cells        tracker.CellLocator

	Tracker    *tracker.Tracker
	Collimator *collimator.Tracker // nil if the run has no collimator stage
	Detector   *detector.Detector

	Logger *log.Logger

	decayCfg decay.Config
}

// NewContext validates cfg and deps and wires every sub-package object
// that depends on them. The returned Context's Productivity table starts
// empty; callers load a precomputed table via Productivity.Set (or run
// an estimation pass via Productivity.Accumulate) before tracking begins.
func NewContext(cfg RunConfig, deps Dependencies) (*Context, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	productivityTable := productivity.NewTable()

	trk := tracker.New(cfg.Tracker, deps.Materials, deps.Grid, deps.Voxels, deps.Cells, productivityTable, deps.Target)

	var collTracker *collimator.Tracker
	if deps.CollimatorGeometry != nil {
		collTracker = collimator.New(cfg.Collimator, deps.Materials, *deps.CollimatorGeometry)
	}

	det := detector.New(cfg.Detector, deps.CrystalLayout)

	decayCfg := decay.Config{
		PositronRangeAdjust:   cfg.PositronRangeAdjust,
		NonCollinearityAdjust: cfg.NonCollinearityAdjust,
		Polarization:          cfg.PolarizationEnabled,
		Materials:             deps.Materials,
		Grid:                  deps.Grid,
		Voxels:                deps.Voxels,
		Isotope:               deps.Isotope,
		MaxResamples:          cfg.DecayMaxResamples,
	}

	return &Context{
		cfg:          cfg,
		Materials:    deps.Materials,
		Productivity: productivityTable,
		Target:       deps.Target,
		Grid:         deps.Grid,
		Cells:        deps.Cells,
		Tracker:      trk,
		Collimator:   collTracker,
		Detector:     det,
		Logger:       logger,
		decayCfg:     decayCfg,
	}, nil
}

// RunConfig returns the configuration this Context was built from.
func (c *Context) RunConfig() RunConfig {
	return c.cfg
}

// NewRootSource builds the run's root prng.Source, seeded from
// RunConfig.RandomSeed. Per-worker sub-streams are derived from it via
// Source.Split, never by sharing this source across goroutines.
func (c *Context) NewRootSource() prng.Source {
	return prng.New(c.cfg.RandomSeed)
}

// NewGenerator builds a decay.Generator bound to src, sharing this
// Context's decay physics configuration. Each worker calls this once
// with its own split sub-stream.
func (c *Context) NewGenerator(src prng.Source) *decay.Generator {
	return decay.NewGenerator(c.decayCfg, src)
}
