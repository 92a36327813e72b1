// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/relabs-tech/inertial_tracker/internal/bus"
	"github.com/relabs-tech/inertial_tracker/internal/imu"
	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

// MQTT streams imu.Sample messages published by an IMU producer.
type MQTT struct {
	Sub   bus.Subscriber
	Topic string
}

// Stream subscribes and forwards decoded samples until ctx is done.
func (m MQTT) Stream(ctx context.Context, out chan<- motion.RawSample) error {
	err := m.Sub.Subscribe(m.Topic, func(payload []byte) {
		var s imu.Sample
		if err := json.Unmarshal(payload, &s); err != nil {
			log.Printf("mqtt source: sample unmarshal error: %v", err)
			return
		}
		select {
		case out <- s.RawSample():
		case <-ctx.Done():
		}
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSensorUnavailable, err)
	}

	<-ctx.Done()
	return ctx.Err()
}
