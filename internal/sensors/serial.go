// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

// Serial streams $IIIMU sentences from a serial port.
type Serial struct {
	Port     string
	BaudRate uint
}

// Stream opens the port and forwards every parsed sample. Closing ctx closes
// the port, which unblocks the pending read.
func (s Serial) Stream(ctx context.Context, out chan<- motion.RawSample) error {
	opts := serial.OpenOptions{
		PortName:              s.Port,
		BaudRate:              s.BaudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return fmt.Errorf("%w: serial %s: %w", ErrSensorUnavailable, s.Port, err)
	}
	log.Printf("serial: port opened on %s at %d baud", opts.PortName, opts.BaudRate)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		port.Close()
	}()

	return StreamSentences(ctx, port, out)
}

// StreamSentences reads newline framed sentences from r. Lines that are not
// NMEA, fail the checksum or are another sentence type are skipped. It
// returns nil at EOF.
func StreamSentences(ctx context.Context, r io.Reader, out chan<- motion.RawSample) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sample, err := ParseSentence(line)
		if err != nil {
			log.Printf("serial: skipping sentence: %v", err)
			continue
		}

		select {
		case out <- sample:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("serial read: %w", err)
	}
	return nil
}
