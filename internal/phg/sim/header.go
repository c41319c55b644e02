package sim

import (
	"github.com/simset-go/phgsim/internal/phg/history"
)

// NewHeader builds the history-file header for a fresh run so downstream
// tools (time-sort, coincidence, report) can recover the run's
// parameters without re-reading flags. It records the event count, seed,
// scan length, isotope, photon energy, the PET/SPECT, positron-range,
// non-collinearity, polarization, history-output and
// computed-productivity modes, forced interaction, and the target and
// object cylinders. The other mode flags stay false, and the
// acceptance-angle, minimum-energy, weight-window, collimator,
// detector-resolution, binning, critical-zone and limit fields stay zero.
func NewHeader(cfg RunConfig, deps Dependencies, isotope int32, photonEnergyKeV float64, isPET bool) history.Header {
	modes := history.RunModes{
		PETCoincidencesPlusSingles: isPET,
		SPECT:                      !isPET,
		PositronRangeAdjust:        cfg.PositronRangeAdjust,
		NonCollinearityAdjust:      cfg.NonCollinearityAdjust,
		Polarization:               cfg.PolarizationEnabled,
		HistoryOutput:              true,
		ComputedProductivityTable:  true,
	}

	return history.Header{
		EventsRequested:   uint64(cfg.EventsToSimulate),
		RandomSeed:        uint64(cfg.RandomSeed),
		ScanLengthSeconds: cfg.ScanLengthSeconds,
		Isotope:           isotope,
		PhotonEnergyKeV:   photonEnergyKeV,
		Modes:             modes,
		Detector: history.DetectorParams{
			ForcedInteractionEnabled: true,
		},
		Target: deps.Target,
		Object: deps.Grid.Object,
	}
}
