package imu

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

func TestScale(t *testing.T) {
	s := Scale{AccelLSBPerG: 16384, GyroLSBPerDPS: 131}
	raw := IMURaw{Ax: 8192, Ay: -16384, Az: 16384, Gx: 131, Gy: 0, Gz: -262}

	a := s.Acceleration(raw)
	assert.InDelta(t, 0.5, a.X, 1e-12)
	assert.InDelta(t, -1.0, a.Y, 1e-12)
	assert.InDelta(t, 1.0, a.Z, 1e-12)

	g := s.AngularRate(raw)
	assert.InDelta(t, math.Pi/180, g.X, 1e-12)
	assert.Zero(t, g.Y)
	assert.InDelta(t, -2*math.Pi/180, g.Z, 1e-12)
}

func TestSample_JSON(t *testing.T) {
	in := motion.RawSample{
		Acceleration: motion.Vector{X: 0.1, Y: -0.2, Z: 1},
		Orientation:  motion.Identity(),
		AngularRate:  motion.Vector{Z: 0.3},
	}
	msg := FromRawSample("mock", 42, in)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"accel_g":[0.1,-0.2,1]`)
	assert.Contains(t, string(data), `"timestamp_us":42`)

	var out Sample
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "mock", out.Source)
	assert.Equal(t, in, out.RawSample())
}
