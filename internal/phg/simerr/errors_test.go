package simerr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 3, ExitCode(fmt.Errorf("wrap: %w", ErrUserCancelled)))
	assert.Equal(t, 1, ExitCode(fmt.Errorf("wrap: %w", ErrPreconditionFailed)))
	assert.Equal(t, 2, ExitCode(fmt.Errorf("wrap: %w", ErrInvariantViolated)))
}
