// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/inertial_tracker/internal/bus"
	"github.com/relabs-tech/inertial_tracker/internal/config"
	"github.com/relabs-tech/inertial_tracker/internal/export"
	"github.com/relabs-tech/inertial_tracker/internal/motion"
	"github.com/relabs-tech/inertial_tracker/internal/sensors"
	"github.com/relabs-tech/inertial_tracker/internal/store"
	"github.com/relabs-tech/inertial_tracker/internal/timeutil"
	"github.com/relabs-tech/inertial_tracker/internal/tracker"
)

// RunTracker runs the dead-reckoning service: sample source, tracker, web
// server and, when a broker is reachable, the MQTT bridge.
func RunTracker() error {
	cfg := config.Get()
	if cfg == nil {
		return errors.New("config not initialized")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var archive *store.DB
	if cfg.ArchiveDBPath != "" {
		db, err := store.NewDB(cfg.ArchiveDBPath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer db.Close()
		archive = db
		log.Printf("tracker: archiving exports to %s", cfg.ArchiveDBPath)
	}

	tr, err := newTracker(cfg, archive)
	if err != nil {
		return err
	}

	var client bus.Client
	if cfg.MQTTBroker != "" {
		c, err := bus.Connect(cfg.MQTTBroker, cfg.MQTTClientIDTracker)
		if err != nil {
			log.Printf("tracker: MQTT unavailable, bridge disabled: %v", err)
		} else {
			defer c.Close()
			client = c
			go func() {
				err := NewBridge(tr, client, cfg.TopicTracking, cfg.TopicControl).Run(ctx)
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("tracker: bridge stopped: %v", err)
				}
			}()
		}
	}

	var sub bus.Subscriber
	if client != nil {
		sub = client
	}
	src, err := sensors.Open(cfg, timeutil.RealClock{}, sub)
	if err != nil {
		// No samples will ever arrive; the service stays up in
		// AwaitingFirstSample so the API and exports still work.
		log.Printf("tracker: %v", err)
	} else {
		feed(ctx, tr, src, timeutil.RealClock{})
	}

	if cfg.AutoStart {
		tr.Start()
	}

	var sessions SessionLister
	if archive != nil {
		sessions = archive
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler:           NewServer(tr, sessions),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("tracker: web server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Println("tracker: shut down")
	return nil
}

// newTracker builds a tracker from cfg. archive may be nil.
func newTracker(cfg *config.Config, archive *store.DB, opts ...tracker.Option) (*tracker.Tracker, error) {
	opts = append([]tracker.Option{
		tracker.WithExporter(export.FileWriter{Dir: cfg.ExportDir, FileName: cfg.ExportFileName}),
	}, opts...)
	if archive != nil {
		opts = append(opts, tracker.WithArchive(archive))
	}
	return tracker.New(cfg.Motion(), opts...)
}

// feed streams src into tr until ctx is done.
// feed stamps samples as the source hands them over, then queues them for
// the tracker. The raw channel is unbuffered so a slow tracker cannot delay
// the timestamp.
func feed(ctx context.Context, tr *tracker.Tracker, src sensors.Source, clock timeutil.Clock) {
	raw := make(chan motion.RawSample)
	timed := make(chan tracker.Timed, 64)
	go func() {
		if err := src.Stream(ctx, raw); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("tracker: sample source stopped: %v", err)
		}
	}()
	go tracker.Stamp(ctx, clock, raw, timed)
	go tr.RunTimed(ctx, timed)
}
