// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tracker

import (
	"context"
	"errors"
	"log"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
	"github.com/relabs-tech/inertial_tracker/internal/timeutil"
)

// Timed is a sample paired with the instant its source handed it over.
type Timed struct {
	Sample          motion.RawSample
	TimestampMicros int64
}

// Stamp reads samples from in, timestamps each one on receipt and forwards
// it to out. in should be unbuffered so that receipt coincides with the
// source's send; out may be buffered freely since the timestamp travels
// with the sample. Stamp returns nil when in is closed.
func Stamp(ctx context.Context, clock timeutil.Clock, in <-chan motion.RawSample, out chan<- Timed) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-in:
			if !ok {
				return nil
			}
			ts := Timed{Sample: s, TimestampMicros: clock.Now().UnixMicro()}
			select {
			case out <- ts:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// RunTimed is Run for samples that already carry their timestamp.
func (t *Tracker) RunTimed(ctx context.Context, samples <-chan Timed) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-samples:
			if !ok {
				return nil
			}
			if _, err := t.IngestAt(s.Sample, s.TimestampMicros); errors.Is(err, ErrNonFinite) {
				log.Printf("tracker: skipping sample: %v", err)
			}
		}
	}
}
