// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"io"
	"iter"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

// maxChartPoints bounds the points sent to the browser; longer logs are
// decimated by a fixed stride.
const maxChartPoints = 2000

// RenderChart writes an HTML line chart of distance and position over the
// elapsed time of records.
func RenderChart(w io.Writer, records iter.Seq[motion.Record], total int) error {
	stride := 1
	if total > maxChartPoints {
		stride = (total + maxChartPoints - 1) / maxChartPoints
	}

	var (
		x                []string
		dist, px, py, pz []opts.LineData
		first            int64
		haveFirst        bool
		i                int
	)
	for r := range records {
		if !haveFirst {
			first, haveFirst = r.TimestampMicros, true
		}
		if i%stride == 0 {
			elapsed := float64(r.TimestampMicros-first) / 1e6
			x = append(x, strconv.FormatFloat(elapsed, 'f', 2, 64))
			dist = append(dist, opts.LineData{Value: r.Distance})
			px = append(px, opts.LineData{Value: r.Position.X})
			py = append(py, opts.LineData{Value: r.Position.Y})
			pz = append(pz, opts.LineData{Value: r.Position.Z})
		}
		i++
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Inertial Tracker", Width: "100%", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{Title: "Dead reckoning", Subtitle: strconv.Itoa(total) + " records"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "m"}),
	)
	line.SetXAxis(x).
		AddSeries("distance", dist).
		AddSeries("x", px).
		AddSeries("y", py).
		AddSeries("z", pz)

	return line.Render(w)
}
