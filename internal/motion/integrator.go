// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// State is the integrator's position in its two-state machine.
type State int

const (
	AwaitingFirstSample State = iota
	Tracking
)

func (s State) String() string {
	switch s {
	case AwaitingFirstSample:
		return "awaiting_first_sample"
	case Tracking:
		return "tracking"
	default:
		return "unknown"
	}
}

// Integrator turns bias-free, post-calibration samples into velocity and
// position by forward-Euler integration. It is not safe for concurrent use.
type Integrator struct {
	accelThreshold    float64
	velocityThreshold float64

	velocity Vector
	position Vector
	distance float64

	lastMicros int64
	haveLast   bool
}

// NewIntegrator builds an integrator from the thresholds in cfg.
func NewIntegrator(cfg Config) *Integrator {
	return &Integrator{
		accelThreshold:    cfg.AccelerationThreshold,
		velocityThreshold: cfg.VelocityThreshold,
	}
}

// Step integrates one sample whose acceleration has already been converted
// to m/s². timestampMicros is the sample's arrival time.
//
// Clipping is applied to world acceleration before it reaches velocity, and
// to velocity before it reaches position.
func (in *Integrator) Step(s RawSample, bias Vector, timestampMicros int64) Record {
	dt := 0.0
	if in.haveLast {
		dt = float64(timestampMicros-in.lastMicros) / 1_000_000
	}
	in.lastMicros = timestampMicros
	in.haveLast = true

	corrected := r3.Sub(s.Acceleration, bias)
	world := deadBand(s.Orientation.Apply(corrected), in.accelThreshold)

	in.velocity = r3.Add(in.velocity, r3.Scale(dt, world))
	// The floor gates position integration only; velocity keeps
	// accumulating sub-floor increments.
	moving := deadBand(in.velocity, in.velocityThreshold)
	in.position = r3.Add(in.position, r3.Scale(dt, moving))
	in.distance = r3.Norm(in.position)

	return Record{
		DurationMicros:  int64(math.Round(dt * 1_000_000)),
		TimestampMicros: timestampMicros,
		Acceleration:    corrected,
		AngularRate:     s.AngularRate,
		Velocity:        in.velocity,
		Position:        in.position,
		Distance:        in.distance,
	}
}

// Reset zeroes velocity, position and distance and forgets the previous
// timestamp, so the next sample starts a new integration with dt = 0.
func (in *Integrator) Reset() {
	in.velocity = Vector{}
	in.position = Vector{}
	in.distance = 0
	in.lastMicros = 0
	in.haveLast = false
}

// State reports whether the integrator has seen a sample since the last reset.
func (in *Integrator) State() State {
	if in.haveLast {
		return Tracking
	}
	return AwaitingFirstSample
}

func (in *Integrator) Velocity() Vector  { return in.velocity }
func (in *Integrator) Position() Vector  { return in.position }
func (in *Integrator) Distance() float64 { return in.distance }

// LastTimestamp returns the previous sample time, if any.
func (in *Integrator) LastTimestamp() (int64, bool) {
	return in.lastMicros, in.haveLast
}

// deadBand zeroes every axis whose magnitude is below threshold.
func deadBand(v Vector, threshold float64) Vector {
	if math.Abs(v.X) < threshold {
		v.X = 0
	}
	if math.Abs(v.Y) < threshold {
		v.Y = 0
	}
	if math.Abs(v.Z) < threshold {
		v.Z = 0
	}
	return v
}
