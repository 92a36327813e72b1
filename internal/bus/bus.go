// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package bus is the publish/subscribe seam between the runners. The
// production implementation is an MQTT client; Memory serves tests and the
// in-process console.
package bus

import (
	"encoding/json"
	"fmt"
)

// Handler receives the raw payload of one message.
type Handler func(payload []byte)

// Publisher sends payloads to a topic.
type Publisher interface {
	Publish(topic string, retained bool, payload []byte) error
}

// Subscriber registers a handler for a topic.
type Subscriber interface {
	Subscribe(topic string, h Handler) error
}

// Client is a connected bus endpoint.
type Client interface {
	Publisher
	Subscriber
	Close()
}

// PublishJSON marshals v and publishes it.
func PublishJSON(p Publisher, topic string, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", topic, err)
	}
	return p.Publish(topic, retained, payload)
}
