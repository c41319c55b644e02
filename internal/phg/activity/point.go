package activity

import (
	"context"
	"math"

	"github.com/simset-go/phgsim/internal/phg/decay"
	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/prng"
)

// PointSource emits decays from a single fixed voxel position with an
// isotropically sampled direction and a decay time drawn uniformly over
// the scan window, the simplest possible stand-in for the "voxel
// activity table" spec.md §1 treats as an external collaborator.
type PointSource struct {
	Position          geometry.Vec3
	IsPET             bool
	EnergyKeV         float64
	ScanLengthSeconds float64
	Rand              prng.Source
}

// Next implements decay.ActivitySource. It never exhausts; the caller
// (worker.Pool) is responsible for stopping after the requested event
// count.
func (p *PointSource) Next(ctx context.Context) (decay.Sample, error) {
	if err := ctx.Err(); err != nil {
		return decay.Sample{}, err
	}
	return decay.Sample{
		Position:  p.Position,
		Direction: isotropicDirection(p.Rand),
		Weight:    1.0,
		Time:      p.Rand.Uniform() * p.ScanLengthSeconds,
		IsPET:     p.IsPET,
		Energy:    p.EnergyKeV,
	}, nil
}

func isotropicDirection(src prng.Source) geometry.Direction {
	u := 2*src.Uniform() - 1
	phi := 2 * math.Pi * src.Uniform()
	sinTheta := math.Sqrt(math.Max(0, 1-u*u))
	return geometry.NewDirection(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), u)
}
