package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

func TestFormatSnapshot(t *testing.T) {
	assert.Equal(t, "[IDLE]  waiting for start", FormatSnapshot(motion.Snapshot{}))
	assert.Equal(t, "[CAL ]  40/100 samples",
		FormatSnapshot(motion.Snapshot{Started: true, CalibrationSeen: 40, CalibrationWindow: 100}))
	assert.Contains(t, FormatSnapshot(motion.Snapshot{Started: true, Calibrated: true}), "waiting for first sample")

	rec := motion.Record{
		Acceleration: motion.Vector{X: 0.096},
		AngularRate:  motion.Vector{Z: -1.005},
		Velocity:     motion.Vector{X: 0.0005},
		Position:     motion.Vector{X: 12.346, Y: -0.001},
		Distance:     12.3456,
	}
	line := FormatSnapshot(motion.Snapshot{Started: true, Calibrated: true, Last: &rec})
	assert.True(t, strings.HasPrefix(line, "[TRK ]"))
	assert.Contains(t, line, "a=(0.10, 0.00, 0.00)")
	assert.Contains(t, line, "v=(0.00, 0.00, 0.00)")
	assert.Contains(t, line, "p=(12.35, -0.00, 0.00)")
	assert.Contains(t, line, "d=12.35")
}

func TestDisplayLines(t *testing.T) {
	assert.Equal(t, "Idle", DisplayLines(motion.Snapshot{})[3])
	assert.Equal(t, "3/10", DisplayLines(motion.Snapshot{Started: true, CalibrationSeen: 3, CalibrationWindow: 10})[1])

	rec := motion.Record{Position: motion.Vector{X: 1.234, Y: 5, Z: -0.5}, Velocity: motion.Vector{X: 0.25}, Distance: 5.17}
	lines := DisplayLines(motion.Snapshot{Started: true, Calibrated: true, Last: &rec})
	assert.Equal(t, []string{"D 5.17 m", "X1.23 Y5.00", "Z-0.50", "V 0.25 0.00"}, lines)
}
