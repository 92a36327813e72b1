package app

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

func lit(pix []byte) int {
	n := 0
	for _, b := range pix {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

func TestRenderLines(t *testing.T) {
	blank := renderLines(nil)
	assert.Equal(t, 128, blank.Bounds().Dx())
	assert.Equal(t, 64, blank.Bounds().Dy())
	assert.Zero(t, lit(blank.Pix))

	one := renderLines([]string{"D 1.00 m"})
	two := renderLines([]string{"D 1.00 m", "X0.00 Y0.00"})
	assert.Positive(t, lit(one.Pix))
	assert.Greater(t, lit(two.Pix), lit(one.Pix))

	// Lines past the bottom edge are dropped.
	assert.Equal(t, lit(renderLines([]string{"a", "b", "c", "d"}).Pix), lit(renderLines([]string{"a", "b", "c", "d", "e"}).Pix))
}

func TestDisplayState(t *testing.T) {
	var d displayState
	assert.Equal(t, []string{"Tracker", "Waiting..."}, d.lines())

	d.handle([]byte("{broken"))
	assert.Equal(t, []string{"Tracker", "Waiting..."}, d.lines())

	payload, err := json.Marshal(motion.Snapshot{Started: true, CalibrationSeen: 1, CalibrationWindow: 2})
	require.NoError(t, err)
	d.handle(payload)
	assert.Equal(t, "Calibrating", d.lines()[0])
}
