// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

// Live values are rounded to two decimals for people only; records and
// exports keep full precision.

// FormatSnapshot renders a snapshot as one console line.
func FormatSnapshot(s motion.Snapshot) string {
	switch {
	case !s.Started:
		return "[IDLE]  waiting for start"
	case !s.Calibrated:
		return fmt.Sprintf("[CAL ]  %d/%d samples", s.CalibrationSeen, s.CalibrationWindow)
	case s.Last == nil:
		return "[CAL ]  done, waiting for first sample"
	}
	r := s.Last
	return fmt.Sprintf(
		"[TRK ]  a=(%.2f, %.2f, %.2f)  w=(%.2f, %.2f, %.2f)  v=(%.2f, %.2f, %.2f)  p=(%.2f, %.2f, %.2f)  d=%.2f",
		r.Acceleration.X, r.Acceleration.Y, r.Acceleration.Z,
		r.AngularRate.X, r.AngularRate.Y, r.AngularRate.Z,
		r.Velocity.X, r.Velocity.Y, r.Velocity.Z,
		r.Position.X, r.Position.Y, r.Position.Z,
		r.Distance,
	)
}

// DisplayLines renders a snapshot as the four lines of a 128x64 OLED.
func DisplayLines(s motion.Snapshot) []string {
	switch {
	case !s.Started:
		return []string{"Inertial", "Tracker", "", "Idle"}
	case !s.Calibrated:
		return []string{"Calibrating", fmt.Sprintf("%d/%d", s.CalibrationSeen, s.CalibrationWindow), "", "Keep still"}
	case s.Last == nil:
		return []string{"Calibrated", "Waiting..."}
	}
	r := s.Last
	return []string{
		fmt.Sprintf("D %.2f m", r.Distance),
		fmt.Sprintf("X%.2f Y%.2f", r.Position.X, r.Position.Y),
		fmt.Sprintf("Z%.2f", r.Position.Z),
		fmt.Sprintf("V %.2f %.2f", r.Velocity.X, r.Velocity.Y),
	}
}
