package sim

import "github.com/simset-go/phgsim/internal/phg/simerr"

// ExitCode maps a run's terminal error to the process exit code from
// spec.md §6: 0 success, 1 initialization failure, 2 runtime fatal, 3
// cancellation. Thin re-export so the cmd/ mains depend only on sim.
func ExitCode(err error) int {
	return simerr.ExitCode(err)
}
