package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simset-go/phgsim/internal/phg/geometry"
	"github.com/simset-go/phgsim/internal/phg/prng"
)

func TestPointSourceNextStaysAtConfiguredPosition(t *testing.T) {
	src := &PointSource{
		Position:          geometry.Vec3{X: 1, Y: 2, Z: 3},
		IsPET:             true,
		EnergyKeV:         511,
		ScanLengthSeconds: 10,
		Rand:              prng.New(1),
	}

	for i := 0; i < 50; i++ {
		sample, err := src.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, src.Position, sample.Position)
		assert.True(t, sample.IsPET)
		assert.Equal(t, 511.0, sample.Energy)
		assert.GreaterOrEqual(t, sample.Time, 0.0)
		assert.Less(t, sample.Time, 10.0)
		assert.True(t, sample.Direction.IsUnit())
	}
}

func TestPointSourceNextRespectsCancellation(t *testing.T) {
	src := &PointSource{Rand: prng.New(1), ScanLengthSeconds: 1}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Next(ctx)
	assert.Error(t, err)
}
