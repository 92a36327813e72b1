package imu

import (
	"math"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

// IMURaw represents a single raw accel+gyro reading in sensor counts.
type IMURaw struct {
	Ax int16 `json:"ax"` // accel
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`

	Gx int16 `json:"gx"` // gyro
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`
}

// Scale converts raw counts into physical units.
type Scale struct {
	AccelLSBPerG  float64 // counts per g
	GyroLSBPerDPS float64 // counts per degree/second
}

// Acceleration returns the reading in g.
func (s Scale) Acceleration(r IMURaw) motion.Vector {
	return motion.Vector{
		X: float64(r.Ax) / s.AccelLSBPerG,
		Y: float64(r.Ay) / s.AccelLSBPerG,
		Z: float64(r.Az) / s.AccelLSBPerG,
	}
}

// AngularRate returns the reading in rad/s.
func (s Scale) AngularRate(r IMURaw) motion.Vector {
	k := math.Pi / 180 / s.GyroLSBPerDPS
	return motion.Vector{
		X: float64(r.Gx) * k,
		Y: float64(r.Gy) * k,
		Z: float64(r.Gz) * k,
	}
}
