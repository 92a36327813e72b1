package imu

import (
	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

// Sample is the JSON message published on the raw-sample topic.
type Sample struct {
	Source      string     `json:"source"`
	TimestampUS int64      `json:"timestamp_us"` // producer wall clock, informational
	AccelG      [3]float64 `json:"accel_g"`
	GyroRadS    [3]float64 `json:"gyro_rad_s"`
	Orientation [9]float64 `json:"orientation"` // row-major body-to-world
}

// FromRawSample wraps a motion sample for publishing.
func FromRawSample(source string, timestampUS int64, s motion.RawSample) Sample {
	return Sample{
		Source:      source,
		TimestampUS: timestampUS,
		AccelG:      [3]float64{s.Acceleration.X, s.Acceleration.Y, s.Acceleration.Z},
		GyroRadS:    [3]float64{s.AngularRate.X, s.AngularRate.Y, s.AngularRate.Z},
		Orientation: s.Orientation,
	}
}

// RawSample converts the message back into a motion sample.
func (s Sample) RawSample() motion.RawSample {
	return motion.RawSample{
		Acceleration: motion.Vector{X: s.AccelG[0], Y: s.AccelG[1], Z: s.AccelG[2]},
		Orientation:  motion.Rotation(s.Orientation),
		AngularRate:  motion.Vector{X: s.GyroRadS[0], Y: s.GyroRadS[1], Z: s.GyroRadS[2]},
	}
}
