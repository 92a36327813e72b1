package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_tracker/internal/bus"
	"github.com/relabs-tech/inertial_tracker/internal/imu"
	"github.com/relabs-tech/inertial_tracker/internal/motion"
	"github.com/relabs-tech/inertial_tracker/internal/sensors"
	"github.com/relabs-tech/inertial_tracker/internal/timeutil"
)

func TestConsoleHandler(t *testing.T) {
	var out bytes.Buffer
	h := consoleHandler(&out)

	h([]byte("nope"))
	assert.Empty(t, out.String())

	payload, err := json.Marshal(motion.Snapshot{Started: true, CalibrationSeen: 5, CalibrationWindow: 10})
	require.NoError(t, err)
	h(payload)
	assert.Equal(t, "[CAL ]  5/10 samples\n", out.String())
}

func TestPublishSamples(t *testing.T) {
	mock := sensors.NewMock(10*time.Millisecond, 2)
	errEnd := errors.New("end of samples")
	src := sensors.SourceFunc(func(ctx context.Context, out chan<- motion.RawSample) error {
		for i := 0; i < 3; i++ {
			s, _ := mock.ReadSample()
			out <- s
		}
		return errEnd
	})

	b := bus.NewMemory()
	var got []imu.Sample
	require.NoError(t, b.Subscribe("imu/raw", func(p []byte) {
		var s imu.Sample
		require.NoError(t, json.Unmarshal(p, &s))
		got = append(got, s)
	}))

	clk := timeutil.NewMockClock(epoch)
	err := publishSamples(context.Background(), src, b, "imu/raw", "mock", clk)
	assert.ErrorIs(t, err, errEnd)

	require.Len(t, got, 3)
	assert.Equal(t, "mock", got[0].Source)
	assert.Equal(t, epoch.UnixMicro(), got[0].TimestampUS)
	assert.Equal(t, sensors.MockBias, got[0].RawSample().Acceleration)
}

func TestFeedAndPrintSnapshots(t *testing.T) {
	tr := newTestTracker(t, nil)
	clk := timeutil.NewMockClock(epoch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	feed(ctx, tr, sensors.Polled(sensors.NewMock(10*time.Millisecond, 2), 10*time.Millisecond, clk), clk)
	tr.Start()

	require.Eventually(t, func() bool {
		clk.Advance(10 * time.Millisecond)
		return tr.Snapshot().Records > 0
	}, 2*time.Second, time.Millisecond)

	var out syncBuffer
	go printSnapshots(ctx, tr, &out, clk, 100*time.Millisecond)
	require.Eventually(t, func() bool {
		clk.Advance(100 * time.Millisecond)
		return strings.Contains(out.String(), "[TRK ]")
	}, 2*time.Second, time.Millisecond)
}
