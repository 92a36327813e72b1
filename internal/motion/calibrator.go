// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import "gonum.org/v1/gonum/spatial/r3"

// CalibrationStatus is the result of feeding one sample to the Calibrator.
type CalibrationStatus struct {
	Done bool
	Bias Vector // valid only when Done
}

// Calibrator estimates the static zero-G offset as the per-axis mean of the
// first Window accelerations it observes.
type Calibrator struct {
	window uint32
	seen   uint32
	sum    Vector
	bias   *Vector
}

// NewCalibrator returns a Calibrator that averages window samples.
func NewCalibrator(window uint32) *Calibrator {
	return &Calibrator{window: window}
}

// Observe accumulates one acceleration already expressed in m/s². The sample
// that fills the window completes calibration and is consumed as well.
//
// Observe panics when called after completion: once the bias is known the
// caller routes samples to the Integrator instead.
func (c *Calibrator) Observe(accel Vector) CalibrationStatus {
	if c.bias != nil {
		panic("motion: Calibrator.Observe called after calibration completed")
	}

	c.sum = r3.Add(c.sum, accel)
	c.seen++
	if c.seen < c.window {
		return CalibrationStatus{}
	}

	bias := r3.Scale(1/float64(c.window), c.sum)
	c.bias = &bias
	c.sum = Vector{}
	return CalibrationStatus{Done: true, Bias: bias}
}

// Done reports whether the bias has been computed.
func (c *Calibrator) Done() bool { return c.bias != nil }

// Bias returns the computed bias and whether calibration has completed.
func (c *Calibrator) Bias() (Vector, bool) {
	if c.bias == nil {
		return Vector{}, false
	}
	return *c.bias, true
}

// Progress returns how many samples were consumed out of the window.
func (c *Calibrator) Progress() (seen, window uint32) {
	return c.seen, c.window
}
