// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package motion

import "iter"

// Record is one derived sample. Records are never modified after being
// appended to a Log.
type Record struct {
	DurationMicros  int64   `json:"duration_us"`
	TimestampMicros int64   `json:"timestamp_us"`
	Acceleration    Vector  `json:"acceleration"` // bias-corrected, body frame, m/s²
	AngularRate     Vector  `json:"rotation_rate"`
	Velocity        Vector  `json:"velocity"`
	Position        Vector  `json:"position"`
	Distance        float64 `json:"distance"`
}

// Log is an append-only, insertion-ordered sequence of records with no
// capacity bound. It does no locking; the owner serializes Append and Clear.
type Log struct {
	records []Record
}

// Append adds r at the end of the log.
func (l *Log) Append(r Record) {
	l.records = append(l.records, r)
}

// Len returns the number of records.
func (l *Log) Len() int { return len(l.records) }

// Last returns the most recent record.
func (l *Log) Last() (Record, bool) {
	if len(l.records) == 0 {
		return Record{}, false
	}
	return l.records[len(l.records)-1], true
}

// All returns the records present at call time, in insertion order. The
// sequence can be ranged over any number of times and does not observe later
// appends, so it may be consumed after the owner's lock is released.
func (l *Log) All() iter.Seq[Record] {
	snap := l.records[:len(l.records):len(l.records)]
	return func(yield func(Record) bool) {
		for _, r := range snap {
			if !yield(r) {
				return
			}
		}
	}
}

// Clear drops every record. Sequences obtained earlier from All keep
// their contents.
func (l *Log) Clear() {
	l.records = nil
}
