package worker

import (
	"github.com/simset-go/phgsim/internal/phg/decay"
	"github.com/simset-go/phgsim/internal/phg/history"
	"github.com/simset-go/phgsim/internal/phg/sim"
)

func decayRecordPtr(d decay.Decay) *history.DecayRecord {
	return &history.DecayRecord{
		Position:    d.Position,
		StartWeight: d.StartWeight,
		Time:        d.Time,
		Type:        d.Type,
	}
}

// photonRecordPtr converts one tracked photon to its on-disk form.
// TransaxialPos, AzimuthalBin and DetectorAngle are left at their zero
// value: deriving them is the external block-detector geometry's job,
// and the detector.CrystalLayout contract this rework exposes only
// returns a crystal index, not that decomposition. A binner.Locator can
// key off CrystalNumber directly instead of those derived fields.
func photonRecordPtr(p sim.DetectedPhoton) *history.PhotonRecord {
	return &history.PhotonRecord{
		Position:          p.Position,
		Direction:         p.Direction,
		IsBlue:            p.IsBlue,
		ScatterCount:      p.ScatterCount,
		Weight:            p.Weight,
		Energy:            p.Energy,
		TimeSinceCreation: p.TimeSinceCreation,
		CrystalNumber:     int32(p.CrystalIndex),
	}
}
