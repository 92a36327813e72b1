// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package export serializes the motion log to CSV and writes it to disk.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

// Columns is the exact header of the export table.
var Columns = []string{
	"Duration(µs)", "Timestamp(µs)",
	"AccelerationX", "AccelerationY", "AccelerationZ",
	"RotationRateX", "RotationRateY", "RotationRateZ",
	"VelocityX", "VelocityY", "VelocityZ",
	"PositionX", "PositionY", "PositionZ",
	"Distance",
}

// Serialize renders records as a header row followed by one row per record.
// It only reads from records.
func Serialize(records iter.Seq[motion.Record]) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode streams the CSV table to w.
func Encode(w io.Writer, records iter.Seq[motion.Record]) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("csv write header: %w", err)
	}
	row := make([]string, len(Columns))
	for r := range records {
		if err := cw.Write(formatRow(row, r)); err != nil {
			return fmt.Errorf("csv write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatRow(row []string, r motion.Record) []string {
	row[0] = strconv.FormatInt(r.DurationMicros, 10)
	row[1] = strconv.FormatInt(r.TimestampMicros, 10)
	putVec(row[2:5], r.Acceleration)
	putVec(row[5:8], r.AngularRate)
	putVec(row[8:11], r.Velocity)
	putVec(row[11:14], r.Position)
	row[14] = ftoa(r.Distance)
	return row
}

func putVec(dst []string, v motion.Vector) {
	dst[0], dst[1], dst[2] = ftoa(v.X), ftoa(v.Y), ftoa(v.Z)
}

// ftoa uses the shortest representation that parses back to the same float.
func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ErrBadHeader is returned by Parse when the first row is not Columns.
var ErrBadHeader = errors.New("export: unexpected CSV header")

// Parse reads a table produced by Serialize back into records.
func Parse(r io.Reader) ([]motion.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("csv read header: %w", err)
	}
	if !slices.Equal(header, Columns) {
		return nil, ErrBadHeader
	}

	var out []motion.Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("csv read line %d: %w", line, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = append(out, rec)
	}
}

func parseRow(row []string) (motion.Record, error) {
	var rec motion.Record
	var err error
	if rec.DurationMicros, err = strconv.ParseInt(row[0], 10, 64); err != nil {
		return rec, fmt.Errorf("%s: %w", Columns[0], err)
	}
	if rec.TimestampMicros, err = strconv.ParseInt(row[1], 10, 64); err != nil {
		return rec, fmt.Errorf("%s: %w", Columns[1], err)
	}

	f := make([]float64, 13)
	for i := range f {
		if f[i], err = strconv.ParseFloat(row[i+2], 64); err != nil {
			return rec, fmt.Errorf("%s: %w", Columns[i+2], err)
		}
	}
	rec.Acceleration = motion.Vector{X: f[0], Y: f[1], Z: f[2]}
	rec.AngularRate = motion.Vector{X: f[3], Y: f[4], Z: f[5]}
	rec.Velocity = motion.Vector{X: f[6], Y: f[7], Z: f[8]}
	rec.Position = motion.Vector{X: f[9], Y: f[10], Z: f[11]}
	rec.Distance = f[12]
	return rec, nil
}
