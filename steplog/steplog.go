// Copyright (c) 2024, The SpikingFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package steplog records per-step traces of a pipeline simulation into an
etable.Table, one row per completed simulation step, for later analysis
(aggregation, plotting, CSV export).
*/
package steplog

import (
	"io"
	"math"
	"strconv"

	"github.com/emer/emergent/v2/etime"
	"github.com/emer/etable/v2/agg"
	"github.com/emer/etable/v2/etable"
	"github.com/emer/etable/v2/etensor"
)

// LogPrec is precision for saving float values in logs
const LogPrec = 4

// Recorder accumulates one row per completed simulation step into its
// Table: the step index, the mean of the input signal, the mean of the
// output signal (NaN while the output is still absent), and any number of
// named probe values (e.g., a mid-chain stage's accumulated current).
type Recorder struct {
	Table  *etable.Table `view:"no-inline" desc:"step-level log data"`
	Mode   etime.Modes   `desc:"evaluation mode recorded in the table metadata"`
	Probes []string      `desc:"names of extra probe columns, in column order"`
}

// NewRecorder returns a Recorder for the given evaluation mode,
// with an empty unconfigured table
func NewRecorder(mode etime.Modes) *Recorder {
	return &Recorder{Table: &etable.Table{}, Mode: mode}
}

// Config configures the table schema: Step, Input, Output, plus one
// float column per probe name.  Any existing rows are discarded.
func (rc *Recorder) Config(probes ...string) {
	rc.Probes = probes
	dt := rc.Table
	dt.SetMetaData("name", "StepLog")
	dt.SetMetaData("desc", "record of simulator input and output per step")
	dt.SetMetaData("mode", rc.Mode.String())
	dt.SetMetaData("read-only", "true")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))
	sch := etable.Schema{
		{Name: "Step", Type: etensor.INT64, CellShape: nil, DimNames: nil},
		{Name: "Input", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
		{Name: "Output", Type: etensor.FLOAT64, CellShape: nil, DimNames: nil},
	}
	for _, pr := range rc.Probes {
		sch = append(sch, etable.Column{Name: pr, Type: etensor.FLOAT64})
	}
	dt.SetFromSchema(sch, 0)
}

// Record appends one row for a completed step.  out == nil (output still
// absent) is recorded as NaN.  probes supplies values for the probe columns
// and may be nil; missing probes are recorded as 0.
func (rc *Recorder) Record(step int, in, out *etensor.Float32, probes map[string]float32) {
	dt := rc.Table
	row := dt.Rows
	dt.SetNumRows(row + 1)
	dt.SetCellFloat("Step", row, float64(step))
	dt.SetCellFloat("Input", row, float64(Mean(in)))
	if out == nil {
		dt.SetCellFloat("Output", row, math.NaN())
	} else {
		dt.SetCellFloat("Output", row, float64(Mean(out)))
	}
	for _, pr := range rc.Probes {
		dt.SetCellFloat(pr, row, float64(probes[pr]))
	}
}

// OutputMean returns the mean over all recorded present (non-NaN) outputs
func (rc *Recorder) OutputMean() float64 {
	ix := etable.NewIdxView(rc.Table)
	return agg.Mean(ix, "Output")[0]
}

// Rows returns the number of recorded steps
func (rc *Recorder) Rows() int { return rc.Table.Rows }

// Reset discards all recorded rows, keeping the configured schema
func (rc *Recorder) Reset() {
	rc.Table.SetNumRows(0)
}

// WriteCSV writes the recorded table in tab-separated form with headers
func (rc *Recorder) WriteCSV(w io.Writer) error {
	return rc.Table.WriteCSV(w, etable.Tab, etable.Headers)
}

// Mean returns the mean of the signal's values (0 for nil or empty)
func Mean(tsr *etensor.Float32) float32 {
	if tsr == nil || len(tsr.Values) == 0 {
		return 0
	}
	sum := float32(0)
	for _, v := range tsr.Values {
		sum += v
	}
	return sum / float32(len(tsr.Values))
}
