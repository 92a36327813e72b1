// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

const (
	// TalkerIMU and TypeIMU form the $IIIMU sentence: ax,ay,az in g, the
	// nine row-major rotation entries, then gx,gy,gz in rad/s.
	TalkerIMU = "II"
	TypeIMU   = "IMU"

	imuFields = 15
)

// ErrNotIMU is returned for valid NMEA sentences of another type.
var ErrNotIMU = errors.New("not an $IIIMU sentence")

// IMUSentence is a parsed $IIIMU sentence.
type IMUSentence struct {
	nmea.BaseSentence
	Sample motion.RawSample
}

func init() {
	nmea.MustRegisterParser(TypeIMU, parseIMU)
}

func parseIMU(s nmea.BaseSentence) (nmea.Sentence, error) {
	if len(s.Fields) != imuFields {
		return nil, fmt.Errorf("nmea: %s expects %d fields, got %d", s.Prefix(), imuFields, len(s.Fields))
	}

	p := nmea.NewParser(s)
	p.AssertType(TypeIMU)

	var v [imuFields]float64
	for i := range v {
		v[i] = p.Float64(i, "imu field")
	}
	if err := p.Err(); err != nil {
		return nil, err
	}

	var r motion.Rotation
	copy(r[:], v[3:12])
	return IMUSentence{
		BaseSentence: s,
		Sample: motion.RawSample{
			Acceleration: motion.Vector{X: v[0], Y: v[1], Z: v[2]},
			Orientation:  r,
			AngularRate:  motion.Vector{X: v[12], Y: v[13], Z: v[14]},
		},
	}, nil
}

// ParseSentence parses one checksummed $IIIMU line.
func ParseSentence(line string) (motion.RawSample, error) {
	sentence, err := nmea.Parse(strings.TrimSpace(line))
	if err != nil {
		return motion.RawSample{}, err
	}
	imu, ok := sentence.(IMUSentence)
	if !ok {
		return motion.RawSample{}, fmt.Errorf("%w: %s", ErrNotIMU, sentence.Prefix())
	}
	return imu.Sample, nil
}

// FormatSentence renders s as a checksummed $IIIMU line without a line
// terminator.
func FormatSentence(s motion.RawSample) string {
	fields := make([]string, 0, imuFields+1)
	fields = append(fields, TalkerIMU+TypeIMU)
	for _, f := range []float64{s.Acceleration.X, s.Acceleration.Y, s.Acceleration.Z} {
		fields = append(fields, strconv.FormatFloat(f, 'f', -1, 64))
	}
	for _, f := range s.Orientation {
		fields = append(fields, strconv.FormatFloat(f, 'f', -1, 64))
	}
	for _, f := range []float64{s.AngularRate.X, s.AngularRate.Y, s.AngularRate.Z} {
		fields = append(fields, strconv.FormatFloat(f, 'f', -1, 64))
	}
	body := strings.Join(fields, ",")
	return "$" + body + "*" + nmea.Checksum(body)
}
