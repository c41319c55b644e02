package decay

import (
	"math"

	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/prng"
)

// ApplyNonCollinearity perturbs one of a PET pair's two photon directions
// by a small Gaussian angle about its exact anti-parallel direction
// (spec.md §4.2), applied to exactly one of the two photons with
// probability 0.5.
func ApplyNonCollinearity(src prng.Source, blue, pink geometry.Direction) (geometry.Direction, geometry.Direction) {
	theta, phi := prng.SampleNonCollinearity(src)
	mu := math.Cos(theta)

	if src.Uniform() < 0.5 {
		return blue.Rotate(mu, phi), pink
	}
	return blue, pink.Rotate(mu, phi)
}
