// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package tracker

import (
	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

// Snapshot returns the current state of the pipeline.
func (t *Tracker) Snapshot() motion.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() motion.Snapshot {
	seen, window := t.calibrator.Progress()
	snap := motion.Snapshot{
		Started:           t.started,
		Calibrated:        t.calibrator.Done(),
		CalibrationSeen:   seen,
		CalibrationWindow: window,
		Bias:              t.bias,
		State:             "calibrating",
		Velocity:          t.integrator.Velocity(),
		Position:          t.integrator.Position(),
		Distance:          t.integrator.Distance(),
		Records:           t.history.Len(),
	}
	if snap.Calibrated {
		snap.State = t.integrator.State().String()
	}
	if last, ok := t.history.Last(); ok {
		snap.Last = &last
	}
	return snap
}

// Subscribe registers an observer. Snapshots are delivered without blocking
// the pipeline: when the channel's buffer is full the snapshot is dropped
// for that subscriber. The returned function unsubscribes and closes the
// channel.
func (t *Tracker) Subscribe(buffer int) (<-chan motion.Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan motion.Snapshot, buffer)

	t.subMu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch
	t.subMu.Unlock()

	return ch, func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		if c, ok := t.subs[id]; ok {
			delete(t.subs, id)
			close(c)
		}
	}
}

// notifyLocked must be called with t.mu held, which keeps deliveries in
// processing order.
func (t *Tracker) notifyLocked() {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	if len(t.subs) == 0 {
		return
	}
	snap := t.snapshotLocked()
	for _, ch := range t.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}
