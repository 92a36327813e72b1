package tracker

import (
	"context"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
	"github.com/relabs-tech/inertial_tracker/internal/timeutil"
)

// The consumer is stalled while the samples arrive; durations must still
// follow the source's cadence rather than the consumer's.
func TestStamp_TimestampsAtHandOffNotAtConsumption(t *testing.T) {
	clock := timeutil.NewMockClock(time.UnixMicro(1_000_000))
	in := make(chan motion.RawSample)
	out := make(chan Timed, 8)

	done := make(chan error, 1)
	go func() { done <- Stamp(context.Background(), clock, in, out) }()

	handOff := func(s motion.RawSample, queued int) {
		in <- s
		require.Eventually(t, func() bool { return len(out) == queued }, time.Second, time.Millisecond)
	}
	handOff(gSample(motion.Vector{}), 1)
	clock.Advance(10 * time.Millisecond)
	handOff(gSample(motion.Vector{X: 0.05}), 2)
	clock.Advance(10 * time.Millisecond)
	handOff(gSample(motion.Vector{X: 0.05}), 3)
	close(in)
	require.NoError(t, <-done)
	close(out)

	// Consumption happens long after the hand-off.
	clock.Advance(time.Second)

	tr := newStarted(t, 1, WithClock(clock))
	require.NoError(t, tr.RunTimed(context.Background(), out))

	recs := slices.Collect(tr.Records())
	require.Len(t, recs, 2)
	assert.Equal(t, int64(0), recs[0].DurationMicros)
	assert.Equal(t, int64(10_000), recs[1].DurationMicros)
	assert.InDelta(t, 0.0005, recs[1].Velocity.X, 1e-12)
}

func TestStamp_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Stamp(ctx, timeutil.RealClock{}, make(chan motion.RawSample), make(chan Timed))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunTimed_SkipsNonFinite(t *testing.T) {
	tr := newStarted(t, 1)
	samples := make(chan Timed, 4)
	samples <- Timed{Sample: gSample(motion.Vector{}), TimestampMicros: 0}
	bad := gSample(motion.Vector{})
	bad.Acceleration.Y = math.NaN()
	samples <- Timed{Sample: bad, TimestampMicros: 5_000}
	samples <- Timed{Sample: gSample(motion.Vector{}), TimestampMicros: 10_000}
	close(samples)

	require.NoError(t, tr.RunTimed(context.Background(), samples))
	assert.Len(t, slices.Collect(tr.Records()), 1)
	assert.Equal(t, uint64(1), tr.Stats().Rejected)
}
