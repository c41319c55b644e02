package material

import "sort"

// CoherentCDFPoint is one point of a cumulative-probability-vs-cosine
// table used to invert-sample the coherent (Rayleigh) scattering angle.
type CoherentCDFPoint struct {
	CosTheta   float64
	CumulProb  float64 // monotonically increasing, CumulProb[last] == 1
}

// CoherentTable holds one angular CDF per representative energy bin. At
// sample time the nearest representative energy (by absolute distance) is
// used — coherent scattering's angular dependence on energy is gentle
// enough that nearest-bin selection, rather than a full bilinear
// interpolation, is an acceptable simplification for an importance-sampled
// MC transport engine.
type CoherentTable struct {
	energies []float64
	cdfs     [][]CoherentCDFPoint
}

// NewCoherentTable builds a table from representative energies (keV) and
// their angular CDFs, matched by index.
func NewCoherentTable(energies []float64, cdfs [][]CoherentCDFPoint) CoherentTable {
	return CoherentTable{energies: energies, cdfs: cdfs}
}

// Sample draws a coherent-scatter cosine at energy e (keV) given a
// uniform random variate u in [0,1).
func (t CoherentTable) Sample(e, u float64) float64 {
	if len(t.energies) == 0 {
		return 1 // no-op scatter if the table is empty
	}
	idx := nearestEnergyIndex(t.energies, e)
	cdf := t.cdfs[idx]
	if len(cdf) == 0 {
		return 1
	}

	i := sort.Search(len(cdf), func(k int) bool { return cdf[k].CumulProb >= u })
	if i >= len(cdf) {
		i = len(cdf) - 1
	}
	if i == 0 {
		return cdf[0].CosTheta
	}
	lo, hi := cdf[i-1], cdf[i]
	if hi.CumulProb == lo.CumulProb {
		return hi.CosTheta
	}
	frac := (u - lo.CumulProb) / (hi.CumulProb - lo.CumulProb)
	return lo.CosTheta + frac*(hi.CosTheta-lo.CosTheta)
}

func nearestEnergyIndex(energies []float64, e float64) int {
	best, bestDist := 0, absF(energies[0]-e)
	for i, en := range energies {
		if d := absF(en - e); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
