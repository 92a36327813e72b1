// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package tracker is the control surface of the dead-reckoning pipeline.
// It routes samples through calibration and integration, keeps the motion
// log, and serializes every mutation behind one lock so that sample
// delivery, reset and export can come from different goroutines.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"sync"
	"time"

	"github.com/relabs-tech/inertial_tracker/internal/export"
	"github.com/relabs-tech/inertial_tracker/internal/motion"
	"github.com/relabs-tech/inertial_tracker/internal/store"
	"github.com/relabs-tech/inertial_tracker/internal/timeutil"
)

var (
	// ErrNotStarted is returned for samples delivered before Start.
	ErrNotStarted = errors.New("tracker: not started")
	// ErrNonFinite is returned for samples containing NaN or Inf. The sample
	// is skipped without touching calibration or tracking state.
	ErrNonFinite = errors.New("tracker: non-finite sample")
)

// Outcome tells what happened to an ingested sample.
type Outcome int

const (
	Calibrating         Outcome = iota // consumed by the calibrator
	CalibrationComplete                // consumed, and the bias is now known
	Tracked                            // integrated and appended to the log
)

// Exporter persists a serialized table and returns a handle to it.
type Exporter interface {
	Write(data []byte) (string, error)
}

// Archiver keeps a durable copy of exported records.
type Archiver interface {
	SaveSession(ctx context.Context, exportedAt time.Time, bias motion.Vector, records iter.Seq[motion.Record]) (store.Session, error)
}

// Stats counts samples by fate.
type Stats struct {
	Calibration uint64 `json:"calibration"`
	Tracked     uint64 `json:"tracked"`
	Rejected    uint64 `json:"rejected"`
	Ignored     uint64 `json:"ignored"` // arrived before Start
}

// ExportResult describes a completed export.
type ExportResult struct {
	Path    string         `json:"path"`
	Rows    int            `json:"rows"`
	Session *store.Session `json:"session,omitempty"`
}

type Option func(*Tracker)

// WithClock sets the clock used to timestamp samples.
func WithClock(c timeutil.Clock) Option { return func(t *Tracker) { t.clock = c } }

// WithExporter sets where exported tables are written.
func WithExporter(e Exporter) Option { return func(t *Tracker) { t.exporter = e } }

// WithArchive enables archiving of every export.
func WithArchive(a Archiver) Option { return func(t *Tracker) { t.archive = a } }

type Tracker struct {
	cfg      motion.Config
	clock    timeutil.Clock
	exporter Exporter
	archive  Archiver

	mu         sync.Mutex
	started    bool
	calibrator *motion.Calibrator
	bias       motion.Vector
	integrator *motion.Integrator
	history    motion.Log
	stats      Stats

	subMu   sync.Mutex
	subs    map[int]chan motion.Snapshot
	nextSub int
}

// New returns a stopped tracker. Call Start before delivering samples.
func New(cfg motion.Config, opts ...Option) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("tracker config: %w", err)
	}
	t := &Tracker{
		cfg:        cfg,
		clock:      timeutil.RealClock{},
		exporter:   export.FileWriter{},
		calibrator: motion.NewCalibrator(cfg.CalibrationWindow),
		integrator: motion.NewIntegrator(cfg),
		subs:       make(map[int]chan motion.Snapshot),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Start begins accepting samples. Calling it again has no effect; in
// particular it never restarts a calibration in progress.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return
	}
	t.started = true
	log.Printf("tracker: started, calibrating over %d samples", t.cfg.CalibrationWindow)
	t.notifyLocked()
}

// Started reports whether Start has been called.
func (t *Tracker) Started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.started
}

// Ingest processes a sample stamped with the current wall-clock time.
func (t *Tracker) Ingest(s motion.RawSample) (Outcome, error) {
	return t.IngestAt(s, t.clock.Now().UnixMicro())
}

// IngestAt processes a sample that arrived at timestampMicros. Acceleration
// is converted from g to m/s² here, once, before calibration or integration.
func (t *Tracker) IngestAt(s motion.RawSample, timestampMicros int64) (Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		t.stats.Ignored++
		return 0, ErrNotStarted
	}
	if !s.Finite() {
		t.stats.Rejected++
		return 0, ErrNonFinite
	}

	s.Acceleration.X *= t.cfg.GravityConstant
	s.Acceleration.Y *= t.cfg.GravityConstant
	s.Acceleration.Z *= t.cfg.GravityConstant

	if !t.calibrator.Done() {
		t.stats.Calibration++
		status := t.calibrator.Observe(s.Acceleration)
		if !status.Done {
			if seen, _ := t.calibrator.Progress(); seen%100 == 0 {
				t.notifyLocked()
			}
			return Calibrating, nil
		}
		t.bias = status.Bias
		log.Printf("tracker: calibration complete, bias x=%.5f y=%.5f z=%.5f m/s²",
			t.bias.X, t.bias.Y, t.bias.Z)
		t.notifyLocked()
		return CalibrationComplete, nil
	}

	rec := t.integrator.Step(s, t.bias, timestampMicros)
	t.history.Append(rec)
	t.stats.Tracked++
	t.notifyLocked()
	return Tracked, nil
}

// Run consumes samples until the channel is closed or ctx is done.
func (t *Tracker) Run(ctx context.Context, samples <-chan motion.RawSample) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-samples:
			if !ok {
				return nil
			}
			if _, err := t.Ingest(s); errors.Is(err, ErrNonFinite) {
				log.Printf("tracker: skipping sample: %v", err)
			}
		}
	}
}

// Reset zeroes velocity, position and distance. The bias and the log are
// kept. It waits for any sample being processed to finish.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.integrator.Reset()
	log.Printf("tracker: tracking state reset (%d records kept)", t.history.Len())
	t.notifyLocked()
}

// ClearLog drops every recorded sample. Tracking state is untouched.
func (t *Tracker) ClearLog() {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.history.Len()
	t.history.Clear()
	log.Printf("tracker: cleared %d records", n)
	t.notifyLocked()
}

// Records returns the log as of the call.
func (t *Tracker) Records() iter.Seq[motion.Record] {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.All()
}

// Bias returns the calibrated zero-G offset once calibration has completed.
func (t *Tracker) Bias() (motion.Vector, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calibrator.Bias()
}

// Stats returns sample counters.
func (t *Tracker) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// CSV serializes the current log.
func (t *Tracker) CSV() ([]byte, error) {
	return export.Serialize(t.Records())
}

// Export serializes the log and hands it to the exporter. A write failure
// is returned wrapped in export.ErrExportIO and leaves the log untouched. If
// an archive is configured and fails, the result still carries the path.
func (t *Tracker) Export(ctx context.Context) (ExportResult, error) {
	t.mu.Lock()
	records := t.history.All()
	rows := t.history.Len()
	bias := t.bias
	t.mu.Unlock()

	data, err := export.Serialize(records)
	if err != nil {
		return ExportResult{}, err
	}
	path, err := t.exporter.Write(data)
	if err != nil {
		log.Printf("tracker: export failed: %v", err)
		return ExportResult{}, err
	}
	res := ExportResult{Path: path, Rows: rows}
	log.Printf("tracker: exported %d records to %s", rows, path)

	if t.archive != nil {
		s, err := t.archive.SaveSession(ctx, t.clock.Now(), bias, records)
		if err != nil {
			return res, fmt.Errorf("archive export: %w", err)
		}
		res.Session = &s
	}
	return res, nil
}
