// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package bus

import (
	"slices"
	"sync"
)

// Memory is an in-process Client. Delivery is synchronous on the publisher's
// goroutine, and the last retained payload of a topic is replayed to new
// subscribers, as a broker would.
type Memory struct {
	mu       sync.Mutex
	subs     map[string][]Handler
	retained map[string][]byte
}

// NewMemory returns an empty in-process bus.
func NewMemory() *Memory {
	return &Memory{
		subs:     make(map[string][]Handler),
		retained: make(map[string][]byte),
	}
}

// Publish delivers payload to every current subscriber of topic.
func (m *Memory) Publish(topic string, retained bool, payload []byte) error {
	payload = slices.Clone(payload)
	m.mu.Lock()
	if retained {
		m.retained[topic] = payload
	}
	handlers := slices.Clone(m.subs[topic])
	m.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
	return nil
}

// Subscribe registers h and replays the retained payload, if any.
func (m *Memory) Subscribe(topic string, h Handler) error {
	m.mu.Lock()
	m.subs[topic] = append(m.subs[topic], h)
	last, ok := m.retained[topic]
	m.mu.Unlock()

	if ok {
		h(last)
	}
	return nil
}

// Retained returns the retained payload of topic.
func (m *Memory) Retained(topic string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.retained[topic]
	return p, ok
}

// Close drops all subscriptions.
func (m *Memory) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.subs)
}
