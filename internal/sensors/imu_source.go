// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/inertial_tracker/internal/imu"
	"github.com/relabs-tech/inertial_tracker/internal/motion"
	"github.com/relabs-tech/inertial_tracker/internal/orientation"
)

// MPU9250 reads an InvenSense MPU9250 over SPI.
type MPU9250 struct {
	dev   *mpu9250.MPU9250
	scale imu.Scale
}

// OpenMPU9250 initializes the IMU on spiDev with chip select csPin and runs
// the driver's offset calibration.
func OpenMPU9250(spiDev, csPin string, scale imu.Scale) (*MPU9250, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%w: periph host init: %w", ErrSensorUnavailable, err)
	}

	cs := gpioreg.ByName(csPin)
	if cs == nil {
		return nil, fmt.Errorf("%w: CS pin %q not found", ErrSensorUnavailable, csPin)
	}

	tr, err := mpu9250.NewSpiTransport(spiDev, cs)
	if err != nil {
		return nil, fmt.Errorf("%w: SPI transport (%s): %w", ErrSensorUnavailable, spiDev, err)
	}

	dev, err := newMPU9250(tr)
	if err != nil {
		return nil, fmt.Errorf("%w: device creation: %w", ErrSensorUnavailable, err)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("%w: initialization: %w", ErrSensorUnavailable, err)
	}

	if err := dev.Calibrate(); err != nil {
		log.Printf("imu: warning: driver calibration failed: %v", err)
	} else {
		log.Printf("imu: driver calibration complete")
	}

	log.Printf("imu: MPU9250 ready on %s (cs=%s, %.0f LSB/g, %.1f LSB/(°/s))",
		spiDev, csPin, scale.AccelLSBPerG, scale.GyroLSBPerDPS)
	return &MPU9250{dev: dev, scale: scale}, nil
}

// ReadRaw reads accelerometer and gyroscope counts.
func (m *MPU9250) ReadRaw() (imu.IMURaw, error) {
	ax, err := m.dev.GetAccelerationX()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("imu accel X: %w", err)
	}
	ay, err := m.dev.GetAccelerationY()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("imu accel Y: %w", err)
	}
	az, err := m.dev.GetAccelerationZ()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("imu accel Z: %w", err)
	}

	gx, err := m.dev.GetRotationX()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("imu gyro X: %w", err)
	}
	gy, err := m.dev.GetRotationY()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("imu gyro Y: %w", err)
	}
	gz, err := m.dev.GetRotationZ()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("imu gyro Z: %w", err)
	}

	return imu.IMURaw{Ax: ax, Ay: ay, Az: az, Gx: gx, Gy: gy, Gz: gz}, nil
}

// ReadSample reads one reading and converts it to a motion sample.
func (m *MPU9250) ReadSample() (motion.RawSample, error) {
	raw, err := m.ReadRaw()
	if err != nil {
		return motion.RawSample{}, err
	}
	return SampleFromRaw(raw, m.scale), nil
}

// SampleFromRaw scales counts to g and rad/s. With no heading reference the
// orientation comes from accelerometer tilt alone, so yaw stays 0.
func SampleFromRaw(raw imu.IMURaw, scale imu.Scale) motion.RawSample {
	accel := scale.Acceleration(raw)
	pose := orientation.ComputePoseFromAccel(accel.X, accel.Y, accel.Z)
	return motion.RawSample{
		Acceleration: accel,
		Orientation:  pose.Rotation(),
		AngularRate:  scale.AngularRate(raw),
	}
}

// newMPU9250 builds the driver on top of an SPI transport. Upstream New takes
// the Transport by value while NewSpiTransport returns a pointer.
func newMPU9250(tr *mpu9250.Transport) (*mpu9250.MPU9250, error) {
	return mpu9250.New(*tr)
}
