// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	"github.com/relabs-tech/inertial_tracker/internal/bus"
	"github.com/relabs-tech/inertial_tracker/internal/config"
	"github.com/relabs-tech/inertial_tracker/internal/imu"
	"github.com/relabs-tech/inertial_tracker/internal/timeutil"
)

// Open builds the source selected by cfg.Source. sub is only used by the
// mqtt source and may be nil otherwise.
func Open(cfg *config.Config, clock timeutil.Clock, sub bus.Subscriber) (Source, error) {
	switch cfg.Source {
	case config.SourceMock:
		mock := NewMock(cfg.SampleInterval(), int(cfg.CalibrationWindow))
		return Polled(mock, cfg.SampleInterval(), clock), nil
	case config.SourceIMU:
		dev, err := OpenMPU9250(cfg.IMUSPIDevice, cfg.IMUCSPin, imu.Scale{
			AccelLSBPerG:  cfg.IMUAccelLSBPerG,
			GyroLSBPerDPS: cfg.IMUGyroLSBPerDPS,
		})
		if err != nil {
			return nil, err
		}
		return Polled(dev, cfg.SampleInterval(), clock), nil
	case config.SourceSerial:
		return Serial{Port: cfg.SerialPort, BaudRate: cfg.SerialBaudRate}, nil
	case config.SourceMQTT:
		if sub == nil {
			return nil, fmt.Errorf("%w: mqtt source needs a bus connection", ErrSensorUnavailable)
		}
		return MQTT{Sub: sub, Topic: cfg.TopicIMURaw}, nil
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}
