package prng

import "math"

// PolarizationFactor returns the Klein–Nishina-with-polarization weight
// multiplier applied to a photon's scatter weight on its first Compton
// scatter when polarization tracking is enabled (spec.md §4.3
// Polarization). e is the post-scatter energy in units of the incident
// energy is not required here — eOut and eIn are both in keV, mu is the
// sampled cosTheta, and deltaPhi is phi - phiPolarization.
func PolarizationFactor(eIn, eOut, mu, deltaPhi float64) float64 {
	eRatio := eOut / eIn
	cos2 := math.Cos(deltaPhi) * math.Cos(deltaPhi)
	num := eRatio + 1/eRatio - 2*(1-mu*mu)*cos2
	den := eRatio + 1/eRatio - (1 - mu*mu)
	if den == 0 {
		return 1
	}
	return num / den
}

// NonCollinearitySigmaRad is the standard deviation of the Gaussian used
// to sample the small angular deviation of the two annihilation photons
// from exact anti-parallelism (spec.md §4.2).
const NonCollinearitySigmaRad = 0.0037059

// SampleNonCollinearity draws the deviation angle theta (radians, Gaussian
// about 0) and a uniform azimuth phi in [0, 2π) used to rotate one of the
// pair's photons off its exact opposite direction.
func SampleNonCollinearity(src Source) (theta, phi float64) {
	theta = src.Gaussian(0, NonCollinearitySigmaRad)
	phi = src.Uniform() * 2 * math.Pi
	return theta, phi
}

// SamplePolarizationAzimuth draws the blue photon's polarization azimuth,
// uniform in [0, π) per spec.md §4.3.
func SamplePolarizationAzimuth(src Source) float64 {
	return src.Uniform() * math.Pi
}
