package coincidence

import (
	"fmt"

	"github.com/simset-go/phgsim/internal/phg/simerr"
)

// Preconditions mirrors the subset of a history file's header the
// coincidence engine requires before it may run (spec.md §4.6).
type Preconditions struct {
	IsTimeSorted             bool
	IsPETCoincPlusSingles    bool
	ForcedDetection          bool
	Stratification           bool
	ForcedNonAbsorption      bool
	ForcedInteraction        bool
	EventsToSimulateComputed bool // PhgIsCalcEventsToSimulate
}

// Check validates every precondition, each fatal, naming the first
// missing one (spec.md §7 PreconditionFailed).
func (p Preconditions) Check() error {
	switch {
	case !p.IsTimeSorted:
		return fmt.Errorf("coincidence: input history file is not time-sorted: %w", simerr.ErrPreconditionFailed)
	case !p.IsPETCoincPlusSingles:
		return fmt.Errorf("coincidence: input history file is not PET-coincidences-plus-singles mode: %w", simerr.ErrPreconditionFailed)
	case p.ForcedDetection:
		return fmt.Errorf("coincidence: input was generated with forced detection enabled: %w", simerr.ErrPreconditionFailed)
	case p.Stratification:
		return fmt.Errorf("coincidence: input was generated with stratification enabled: %w", simerr.ErrPreconditionFailed)
	case p.ForcedNonAbsorption:
		return fmt.Errorf("coincidence: input was generated with forced non-absorption enabled: %w", simerr.ErrPreconditionFailed)
	case p.ForcedInteraction:
		return fmt.Errorf("coincidence: input was generated with forced interaction enabled: %w", simerr.ErrPreconditionFailed)
	case !p.EventsToSimulateComputed:
		return fmt.Errorf("coincidence: num_to_simulate was not computed by the scan: %w", simerr.ErrPreconditionFailed)
	default:
		return nil
	}
}
