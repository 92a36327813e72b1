// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"math"
	"time"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
	"github.com/relabs-tech/inertial_tracker/internal/orientation"
)

// MockBias is the constant zero-G offset, in g, added to every mock sample.
var MockBias = motion.Vector{X: 0.01, Y: -0.005, Z: 0.002}

const (
	mockSurgeG      = 0.05 // peak body-x acceleration, g
	mockSurgePeriod = 8.0  // seconds
	mockYawRate     = 10.0 // degrees/second
)

// Mock generates smooth synthetic motion. The first Still samples are
// stationary so a calibration window sees only MockBias. The sequence
// depends only on the sample count, never on wall time.
type Mock struct {
	Interval time.Duration
	Still    int

	step int
}

// NewMock creates a mock reader that holds still for still samples.
func NewMock(interval time.Duration, still int) *Mock {
	return &Mock{Interval: interval, Still: still}
}

func (m *Mock) ReadSample() (motion.RawSample, error) {
	k := m.step
	m.step++

	if k < m.Still {
		return motion.RawSample{
			Acceleration: MockBias,
			Orientation:  motion.Identity(),
		}, nil
	}

	elapsed := float64(k-m.Still) * m.Interval.Seconds()
	pose := orientation.Pose{Yaw: math.Mod(elapsed*mockYawRate, 360)}
	surge := mockSurgeG * math.Sin(2*math.Pi*elapsed/mockSurgePeriod)

	return motion.RawSample{
		Acceleration: motion.Vector{X: MockBias.X + surge, Y: MockBias.Y, Z: MockBias.Z},
		Orientation:  pose.Rotation(),
		AngularRate:  motion.Vector{Z: mockYawRate * math.Pi / 180},
	}, nil
}
