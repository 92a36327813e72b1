// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/relabs-tech/inertial_tracker/internal/bus"
	"github.com/relabs-tech/inertial_tracker/internal/tracker"
)

// Control commands accepted on the control topic, either as plain text or as
// {"command": "..."}.
const (
	CommandStart  = "start"
	CommandReset  = "reset"
	CommandExport = "export"
	CommandClear  = "clear"
)

// Bridge publishes tracker snapshots to the bus and applies remote commands.
type Bridge struct {
	tr            *tracker.Tracker
	client        bus.Client
	trackingTopic string
	controlTopic  string
}

// NewBridge wires tr to client.
func NewBridge(tr *tracker.Tracker, client bus.Client, trackingTopic, controlTopic string) *Bridge {
	return &Bridge{tr: tr, client: client, trackingTopic: trackingTopic, controlTopic: controlTopic}
}

// Run subscribes to the control topic and publishes every snapshot as a
// retained message until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	updates, unsubscribe := b.tr.Subscribe(32)
	defer unsubscribe()

	if b.controlTopic != "" {
		if err := b.client.Subscribe(b.controlTopic, b.handleControl); err != nil {
			return fmt.Errorf("bridge: %w", err)
		}
	}

	if err := bus.PublishJSON(b.client, b.trackingTopic, true, b.tr.Snapshot()); err != nil {
		log.Printf("bridge: publish error: %v", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if err := bus.PublishJSON(b.client, b.trackingTopic, true, snap); err != nil {
				log.Printf("bridge: publish error: %v", err)
			}
		}
	}
}

func (b *Bridge) handleControl(payload []byte) {
	cmd, err := parseCommand(payload)
	if err != nil {
		log.Printf("bridge: %v", err)
		return
	}
	log.Printf("bridge: command %q", cmd)

	switch cmd {
	case CommandStart:
		b.tr.Start()
	case CommandReset:
		b.tr.Reset()
	case CommandClear:
		b.tr.ClearLog()
	case CommandExport:
		if _, err := b.tr.Export(context.Background()); err != nil {
			log.Printf("bridge: export error: %v", err)
		}
	default:
		log.Printf("bridge: unknown command %q", cmd)
	}
}

func parseCommand(payload []byte) (string, error) {
	text := strings.TrimSpace(string(payload))
	if strings.HasPrefix(text, "{") {
		var msg struct {
			Command string `json:"command"`
		}
		if err := json.Unmarshal([]byte(text), &msg); err != nil {
			return "", fmt.Errorf("control unmarshal error: %w", err)
		}
		text = msg.Command
	}
	if text == "" {
		return "", fmt.Errorf("empty control command")
	}
	return strings.ToLower(text), nil
}
