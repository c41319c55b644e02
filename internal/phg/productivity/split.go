package productivity

// Branch describes how one of the two logical tracks (primary, scatter)
// resulting from a split should be continued.
type Branch struct {
	Certain     bool    // always continue this branch
	Probability float64 // if !Certain, probability of spawning this branch
	WeightScale float64 // multiplier applied to this branch's weight
}

// Decision is the outcome of comparing a scattered photon's current-cell
// scatter productivity against its original cell's primary productivity
// (spec.md §4.3 step 7).
type Decision struct {
	Primary Branch
	Scatter Branch
}

// Split implements spec.md §4.3 step 7: "compare scatter productivity
// against primary productivity of the original cell; if scatter is
// higher, track the photon as scatter with weight scaled by the ratio;
// also track as primary with probability equal to the ratio (and weight
// compensation). The symmetric case is taken when primary productivity is
// higher." The branch whose productivity is higher is always continued,
// weight scaled down by ratio = lower/higher; the other branch is
// continued probabilistically with that same ratio, its weight scaled up
// by 1/ratio to keep the estimator unbiased.
func Split(originalPrimary, currentScatter float64) Decision {
	if originalPrimary <= 0 && currentScatter <= 0 {
		return Decision{}
	}

	if currentScatter >= originalPrimary {
		ratio := ratioOf(originalPrimary, currentScatter)
		return Decision{
			Scatter: Branch{Certain: true, WeightScale: ratio},
			Primary: Branch{Probability: ratio, WeightScale: 1 / maxF(ratio, 1e-12)},
		}
	}

	ratio := ratioOf(currentScatter, originalPrimary)
	return Decision{
		Primary: Branch{Certain: true, WeightScale: ratio},
		Scatter: Branch{Probability: ratio, WeightScale: 1 / maxF(ratio, 1e-12)},
	}
}

func ratioOf(lower, higher float64) float64 {
	if higher <= 0 {
		return 1
	}
	return lower / higher
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
