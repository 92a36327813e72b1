package app

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_tracker/internal/config"
	"github.com/relabs-tech/inertial_tracker/internal/motion"
	"github.com/relabs-tech/inertial_tracker/internal/store"
	"github.com/relabs-tech/inertial_tracker/internal/timeutil"
	"github.com/relabs-tech/inertial_tracker/internal/tracker"
)

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// newTestTracker returns a tracker with a two-sample calibration window that
// exports into a temp dir.
func newTestTracker(t *testing.T, archive *store.DB) *tracker.Tracker {
	t.Helper()
	cfg := config.Defaults()
	cfg.CalibrationWindow = 2
	cfg.ExportDir = t.TempDir()

	tr, err := newTracker(cfg, archive, tracker.WithClock(timeutil.NewMockClock(epoch)))
	require.NoError(t, err)
	return tr
}

// track starts tr, calibrates it at rest and feeds n accelerating samples.
func track(t *testing.T, tr *tracker.Tracker, n int) {
	t.Helper()
	tr.Start()
	rest := motion.RawSample{Orientation: motion.Identity()}
	for i := 0; i < 2; i++ {
		_, err := tr.IngestAt(rest, 0)
		require.NoError(t, err)
	}
	push := motion.RawSample{Acceleration: motion.Vector{X: 0.1}, Orientation: motion.Identity()}
	for i := 1; i <= n; i++ {
		_, err := tr.IngestAt(push, int64(i)*10_000)
		require.NoError(t, err)
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
