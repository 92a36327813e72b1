// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package motion implements the dead-reckoning core: zero-G bias calibration,
// body-to-world rotation, drift suppression and forward-Euler double
// integration of acceleration into velocity and position.
package motion

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// StandardGravity is one g in m/s².
const StandardGravity = 9.80665

// Vector is a three-axis quantity (x, y, z).
type Vector = r3.Vec

// Rotation is a row-major 3x3 body-to-world rotation matrix.
type Rotation [9]float64

// Identity returns the rotation that leaves body and world frames aligned.
func Identity() Rotation {
	return Rotation{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Apply rotates a body-frame vector into the world frame (R·v).
func (r Rotation) Apply(v Vector) Vector {
	return r3.NewMat(r[:]).MulVec(v)
}

// RawSample is one tick from a sample source.
type RawSample struct {
	// Acceleration is body-frame linear acceleration in g.
	Acceleration Vector
	// Orientation rotates body-frame vectors into the world frame.
	Orientation Rotation
	// AngularRate is body-frame angular rate in rad/s.
	AngularRate Vector
}

// Finite reports whether every component of the sample is a finite number.
func (s RawSample) Finite() bool {
	if !finiteVec(s.Acceleration) || !finiteVec(s.AngularRate) {
		return false
	}
	for _, m := range s.Orientation {
		if !finite(m) {
			return false
		}
	}
	return true
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func finiteVec(v Vector) bool { return finite(v.X) && finite(v.Y) && finite(v.Z) }

// Config holds the tuning constants of the calibrator and integrator.
type Config struct {
	CalibrationWindow     uint32  // samples averaged into the zero-G bias
	AccelerationThreshold float64 // m/s², per-axis world acceleration dead band
	VelocityThreshold     float64 // m/s, per-axis velocity floor
	GravityConstant       float64 // m/s² per g
}

// DefaultConfig returns the reference tuning: 1000 calibration samples,
// 0.02 m/s² acceleration threshold, 0.01 m/s velocity floor, standard gravity.
func DefaultConfig() Config {
	return Config{
		CalibrationWindow:     1000,
		AccelerationThreshold: 0.02,
		VelocityThreshold:     0.01,
		GravityConstant:       StandardGravity,
	}
}

// Validate checks that the configuration can drive a tracker.
func (c Config) Validate() error {
	if c.CalibrationWindow == 0 {
		return errors.New("calibration window must be at least 1 sample")
	}
	if c.AccelerationThreshold < 0 || !finite(c.AccelerationThreshold) {
		return fmt.Errorf("acceleration threshold must be a non-negative number, got %v", c.AccelerationThreshold)
	}
	if c.VelocityThreshold < 0 || !finite(c.VelocityThreshold) {
		return fmt.Errorf("velocity threshold must be a non-negative number, got %v", c.VelocityThreshold)
	}
	if c.GravityConstant <= 0 || !finite(c.GravityConstant) {
		return fmt.Errorf("gravity constant must be positive, got %v", c.GravityConstant)
	}
	return nil
}
