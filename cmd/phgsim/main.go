// Command phgsim runs the Monte Carlo photon-transport simulation: it
// generates decays from a single-point activity source, tracks them
// through a homogeneous object and a single-crystal detector, and writes
// the detected events to a history file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/simset-go/phgsim/internal/monitoring"
	"github.com/simset-go/phgsim/internal/phg/activity"
	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/geomsimple"
	"github.com/simset-go/phgsim/internal/phg/history"
	"github.com/simset-go/phgsim/internal/phg/material"
	"github.com/simset-go/phgsim/internal/phg/productivity"
	"github.com/simset-go/phgsim/internal/phg/sim"
	"github.com/simset-go/phgsim/internal/phg/store/sqlite"
	"github.com/simset-go/phgsim/internal/phg/worker"
	"github.com/simset-go/phgsim/internal/security"
	"github.com/simset-go/phgsim/internal/timeutil"
	"github.com/simset-go/phgsim/internal/version"
)

var clock timeutil.Clock = timeutil.RealClock{}

func main() {
	var (
		events       int
		seed         int64
		scanSeconds  float64
		outPath      string
		dbPath       string
		numWorkers   int
		batchSize    int
		petMode      bool
		photonEnergy float64
		crystalThick float64
		objectRadius float64
		objectHalfZ  float64
		versionFlag  bool
	)

	flag.BoolVar(&versionFlag, "version", false, "print version and exit")
	flag.IntVar(&events, "events", 100000, "number of decays to simulate")
	flag.Int64Var(&seed, "seed", 1, "random seed")
	flag.Float64Var(&scanSeconds, "scan-seconds", 60, "simulated scan duration in seconds")
	flag.StringVar(&outPath, "out", "run.phg", "output history file path")
	flag.StringVar(&dbPath, "db", "phgsim.db", "sqlite database for run summaries (empty disables)")
	flag.IntVar(&numWorkers, "workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	flag.IntVar(&batchSize, "batch", 64, "decays buffered per worker before flushing")
	flag.BoolVar(&petMode, "pet", true, "PET mode (false selects SPECT single-photon emission)")
	flag.Float64Var(&photonEnergy, "photon-energy", 511, "emitted photon energy, keV")
	flag.Float64Var(&crystalThick, "crystal-thickness", 1.0, "detector crystal thickness, cm")
	flag.Float64Var(&objectRadius, "object-radius", 10, "object cylinder radius, cm")
	flag.Float64Var(&objectHalfZ, "object-half-length", 10, "object cylinder half-length, cm")
	flag.Parse()

	if versionFlag {
		fmt.Printf("phgsim v%s (git SHA: %s)\n", version.Version, version.GitSHA)
		os.Exit(0)
	}
	log.Printf("phgsim v%s (git SHA: %s)", version.Version, version.GitSHA)

	cfg := sim.DefaultRunConfig().
		WithEventsToSimulate(events).
		WithRandomSeed(seed).
		WithScanLengthSeconds(scanSeconds).
		WithOutputPath(outPath).
		WithDetectorCrystal(2, crystalThick)

	water, err := material.DefaultWater(1)
	if err != nil {
		log.Fatalf("phgsim: building water material: %v", err)
	}
	crystal, err := material.DefaultLead(2)
	if err != nil {
		log.Fatalf("phgsim: building crystal material: %v", err)
	}
	materials := material.NewTable(water, crystal)

	grid := geometry.VoxelGrid{
		NX: 64, NY: 64, NZ: 1,
		DX: 2 * objectRadius / 64, DY: 2 * objectRadius / 64, DZ: 2 * objectHalfZ,
		OriginX: -objectRadius, OriginY: -objectRadius, OriginZ: -objectHalfZ,
		Object: geometry.Cylinder{Radius: objectRadius, ZMin: -objectHalfZ, ZMax: objectHalfZ},
	}
	target := geometry.Cylinder{Radius: objectRadius + crystalThick + 5, ZMin: -objectHalfZ - 5, ZMax: objectHalfZ + 5}

	deps := sim.Dependencies{
		Materials:     materials,
		Grid:          grid,
		Target:        target,
		Voxels:        geomsimple.UniformMaterial{Index: 1},
		Cells:         geomsimple.SingleCell{Cell: productivity.Cell{Slice: 0, Angle: 0}},
		Isotope:       geomsimple.FlatIsotopeTable{MaxEnergyMeV: 0.6},
		CrystalLayout: geomsimple.SingleCrystal{Index: 0},
	}

	simCtx, err := sim.NewContext(cfg, deps)
	if err != nil {
		log.Fatalf("phgsim: %v", err)
	}

	if err := security.ValidateExportPath(outPath); err != nil {
		log.Fatalf("phgsim: -out %s: %v", outPath, err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("phgsim: creating output file: %v", err)
	}
	defer out.Close()

	header := sim.NewHeader(cfg, deps, 1, photonEnergy, petMode)
	writer, err := history.Create(out, header)
	if err != nil {
		log.Fatalf("phgsim: writing header: %v", err)
	}

	source := worker.Synchronize(&activity.PointSource{
		Position:          geometry.Vec3{},
		IsPET:             petMode,
		EnergyKeV:         photonEnergy,
		ScanLengthSeconds: scanSeconds,
		Rand:              simCtx.NewRootSource().Split(),
	})

	workerCfg := worker.DefaultConfig().
		WithEventsToSimulate(events).
		WithWriteBatchSize(batchSize)
	if numWorkers > 0 {
		workerCfg = workerCfg.WithNumWorkers(numWorkers)
	}

	pool, err := worker.New(simCtx, workerCfg, source, writer)
	if err != nil {
		log.Fatalf("phgsim: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	started := clock.Now()
	stats, runErr := pool.Run(ctx)

	exitCode := sim.ExitCode(runErr)
	if runErr != nil {
		log.Printf("phgsim: run ended with error: %v", runErr)
	}
	monitoring.Logf("phgsim: wrote %d decays, %d photons to %s in %s",
		stats.DecaysWritten, stats.PhotonsWritten, outPath, clock.Since(started).Round(time.Millisecond))

	if dbPath != "" {
		if err := persistRunSummary(dbPath, cfg, started, stats, runErr, simCtx); err != nil {
			log.Printf("phgsim: failed to persist run summary: %v", err)
		}
	}

	os.Exit(exitCode)
}

func persistRunSummary(dbPath string, cfg sim.RunConfig, started time.Time, stats worker.Stats, runErr error, simCtx *sim.Context) error {
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.InsertRun(started.UnixNano(), cfg)
	if err != nil {
		return err
	}

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
	}
	if err := store.FinishRun(runID, clock.Now().UnixNano(), stats.DecaysWritten, stats.PhotonsWritten, errMsg); err != nil {
		return err
	}
	return store.SaveProductivityTable(runID, simCtx.Productivity)
}
