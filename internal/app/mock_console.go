// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/inertial_tracker/internal/config"
	"github.com/relabs-tech/inertial_tracker/internal/sensors"
	"github.com/relabs-tech/inertial_tracker/internal/timeutil"
	"github.com/relabs-tech/inertial_tracker/internal/tracker"
)

// RunMockConsole runs the whole pipeline in process over the mock source
// and prints the state every 100ms. It needs no broker and no hardware.
func RunMockConsole() error {
	cfg := config.Get()
	if cfg == nil {
		cfg = config.Defaults()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, err := newTracker(cfg, nil)
	if err != nil {
		return err
	}
	clock := timeutil.RealClock{}
	mock := sensors.NewMock(cfg.SampleInterval(), int(cfg.CalibrationWindow))
	feed(ctx, tr, sensors.Polled(mock, cfg.SampleInterval(), clock), clock)
	tr.Start()

	printSnapshots(ctx, tr, os.Stdout, clock, 100*time.Millisecond)
	return nil
}

func printSnapshots(ctx context.Context, tr *tracker.Tracker, w io.Writer, clock timeutil.Clock, every time.Duration) {
	ticker := clock.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			fmt.Fprintln(w, FormatSnapshot(tr.Snapshot()))
		}
	}
}
