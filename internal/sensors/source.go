// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensors provides the sample sources feeding the tracker: a
// polled MPU9250, a serial NMEA-style stream, an MQTT subscription and a
// deterministic mock.
package sensors

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
	"github.com/relabs-tech/inertial_tracker/internal/timeutil"
)

// ErrSensorUnavailable is wrapped by every error caused by a source that
// cannot be opened. The tracker then never leaves AwaitingFirstSample.
var ErrSensorUnavailable = errors.New("sensor unavailable")

// Source pushes samples into out until ctx is done or the source ends.
type Source interface {
	Stream(ctx context.Context, out chan<- motion.RawSample) error
}

// Reader returns one sample per call.
type Reader interface {
	ReadSample() (motion.RawSample, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, out chan<- motion.RawSample) error

func (f SourceFunc) Stream(ctx context.Context, out chan<- motion.RawSample) error {
	return f(ctx, out)
}

// Polled turns a Reader into a Source that reads once per tick of clock.
// Read errors are logged and the tick is skipped.
func Polled(r Reader, interval time.Duration, clock timeutil.Clock) Source {
	return SourceFunc(func(ctx context.Context, out chan<- motion.RawSample) error {
		ticker := clock.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C():
			}

			s, err := r.ReadSample()
			if err != nil {
				log.Printf("sensors: read error: %v", err)
				continue
			}
			select {
			case out <- s:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})
}
