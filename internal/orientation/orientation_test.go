package orientation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

func assertVecNear(t *testing.T, want, got motion.Vector) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Z, got.Z, 1e-9)
}

func TestComputePoseFromAccel_Flat(t *testing.T) {
	p := ComputePoseFromAccel(0, 0, 1)
	assert.InDelta(t, 0, p.Roll, 1e-12)
	assert.InDelta(t, 0, p.Pitch, 1e-12)
	assert.Zero(t, p.Yaw)
}

func TestPoseRotation_ZeroIsIdentity(t *testing.T) {
	r := Pose{}.Rotation()
	for i, want := range motion.Identity() {
		assert.InDelta(t, want, r[i], 1e-12)
	}
}

func TestPoseRotation_YawTurnsXIntoY(t *testing.T) {
	r := Pose{Yaw: 90}.Rotation()
	assertVecNear(t, motion.Vector{Y: 1}, r.Apply(motion.Vector{X: 1}))
}

func TestPoseRotation_IsOrthonormal(t *testing.T) {
	r := Pose{Roll: 33, Pitch: -12, Yaw: 71}.Rotation()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dot := r[i*3]*r[j*3] + r[i*3+1]*r[j*3+1] + r[i*3+2]*r[j*3+2]
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, dot, 1e-12, "rows %d,%d", i, j)
		}
	}
}

func TestTiltRoundTrip(t *testing.T) {
	// A device at rest measures gravity's reaction in its own frame; the
	// tilt pose must rotate that reading back onto world +Z.
	truth := Pose{Roll: 30, Pitch: 20}
	r := truth.Rotation()
	body := motion.Vector{X: r[6], Y: r[7], Z: r[8]} // Rᵀ·ẑ

	p := ComputePoseFromAccel(body.X, body.Y, body.Z)
	assert.InDelta(t, truth.Roll, p.Roll, 1e-9)
	assert.InDelta(t, truth.Pitch, p.Pitch, 1e-9)
	assertVecNear(t, motion.Vector{Z: 1}, p.Rotation().Apply(body))
}
