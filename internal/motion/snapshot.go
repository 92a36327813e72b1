// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

// Snapshot is an immutable view of the pipeline after a processed sample,
// handed to observers such as the web stream, the MQTT bridge or a display.
type Snapshot struct {
	Started bool `json:"started"`

	Calibrated        bool   `json:"calibrated"`
	CalibrationSeen   uint32 `json:"calibration_seen"`
	CalibrationWindow uint32 `json:"calibration_window"`
	Bias              Vector `json:"bias"`

	State    string  `json:"state"`
	Velocity Vector  `json:"velocity"`
	Position Vector  `json:"position"`
	Distance float64 `json:"distance"`

	Records int     `json:"records"`
	Last    *Record `json:"last,omitempty"`
}
