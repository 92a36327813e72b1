package motion

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrator_NoiseFreeBiasIsExact(t *testing.T) {
	t.Parallel()

	bias := Vector{X: 0.12, Y: -0.4, Z: 9.5}
	c := NewCalibrator(10)

	for i := 0; i < 9; i++ {
		status := c.Observe(bias)
		require.False(t, status.Done, "sample %d should still be calibrating", i)
		assert.False(t, c.Done())
	}

	status := c.Observe(bias)
	require.True(t, status.Done)
	assert.InDelta(t, bias.X, status.Bias.X, 1e-12)
	assert.InDelta(t, bias.Y, status.Bias.Y, 1e-12)
	assert.InDelta(t, bias.Z, status.Bias.Z, 1e-12)

	got, ok := c.Bias()
	require.True(t, ok)
	assert.Equal(t, status.Bias, got)

	seen, window := c.Progress()
	assert.Equal(t, uint32(10), seen)
	assert.Equal(t, uint32(10), window)
}

func TestCalibrator_MeanOfSamples(t *testing.T) {
	t.Parallel()

	c := NewCalibrator(4)
	c.Observe(Vector{X: 1})
	c.Observe(Vector{X: 2, Y: 4})
	c.Observe(Vector{X: 3})
	status := c.Observe(Vector{X: 6, Z: -8})

	require.True(t, status.Done)
	assert.InDelta(t, 3.0, status.Bias.X, 1e-12)
	assert.InDelta(t, 1.0, status.Bias.Y, 1e-12)
	assert.InDelta(t, -2.0, status.Bias.Z, 1e-12)
}

func TestCalibrator_ConvergesUnderZeroMeanNoise(t *testing.T) {
	t.Parallel()

	bias := Vector{X: 0.05, Y: -0.03, Z: 0.2}
	rng := rand.New(rand.NewSource(42))

	estimate := func(window uint32) Vector {
		c := NewCalibrator(window)
		var status CalibrationStatus
		for i := uint32(0); i < window; i++ {
			status = c.Observe(Vector{
				X: bias.X + rng.NormFloat64()*0.01,
				Y: bias.Y + rng.NormFloat64()*0.01,
				Z: bias.Z + rng.NormFloat64()*0.01,
			})
		}
		require.True(t, status.Done)
		return status.Bias
	}

	big := estimate(100_000)
	assert.InDelta(t, bias.X, big.X, 2e-4)
	assert.InDelta(t, bias.Y, big.Y, 2e-4)
	assert.InDelta(t, bias.Z, big.Z, 2e-4)
}

func TestCalibrator_ObserveAfterCompletionPanics(t *testing.T) {
	t.Parallel()

	c := NewCalibrator(1)
	require.True(t, c.Observe(Vector{}).Done)
	assert.Panics(t, func() { c.Observe(Vector{}) })
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.CalibrationWindow = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.AccelerationThreshold = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.VelocityThreshold = -0.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.GravityConstant = 0
	assert.Error(t, cfg.Validate())
}
