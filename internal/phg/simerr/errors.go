// Package simerr defines the sentinel error kinds from spec.md §7, each
// with a one-line user-visible message. Raise sites wrap these with
// fmt.Errorf("...: %w", sentinel) so callers can dispatch with errors.Is.
package simerr

import "errors"

var (
	// ErrInvariantViolated signals an internal consistency check failed
	// (e.g. a direction not unit, a photon behind a collimator face by
	// more than the snap tolerance). Fatal; abort and leave files for
	// postmortem.
	ErrInvariantViolated = errors.New("internal consistency check failed")

	// ErrMaterialOutOfRange signals a voxel referenced a material that
	// was never declared. Fatal.
	ErrMaterialOutOfRange = errors.New("voxel references an undeclared material")

	// ErrFileFormatMismatch signals a history file's header type does not
	// match the requested operation, or predates the current format.
	// Fatal with an actionable message.
	ErrFileFormatMismatch = errors.New("history file format does not match the requested operation")

	// ErrPreconditionFailed signals randoms processing or sorting was run
	// against a file that disables a required mode. Fatal, with the
	// specific missing precondition named by the wrapping error.
	ErrPreconditionFailed = errors.New("required precondition not satisfied")

	// ErrResourceExhausted signals an allocation failed, or a sort buffer
	// is too small to hold even one photon's worth of data. Fatal.
	ErrResourceExhausted = errors.New("unable to allocate requested resource")

	// ErrIOError wraps an underlying read/write failure. Fatal.
	ErrIOError = errors.New("underlying read/write failure")

	// ErrUserCancelled is returned when cooperative cancellation was
	// observed. Non-fatal; the caller should perform a clean shutdown.
	ErrUserCancelled = errors.New("operation cancelled by caller")

	// ErrResampleExhausted signals the external decay source ran out of
	// activity to sample from (spec.md §4.2).
	ErrResampleExhausted = errors.New("decay source exhausted during resampling")
)

// ExitCode maps an error to the process exit code from spec.md §6:
// 0 success, 1 initialization failure, 2 runtime fatal, 3 cancellation.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUserCancelled):
		return 3
	case errors.Is(err, ErrMaterialOutOfRange),
		errors.Is(err, ErrFileFormatMismatch),
		errors.Is(err, ErrPreconditionFailed),
		errors.Is(err, ErrResourceExhausted):
		return 1
	default:
		return 2
	}
}
