// Copyright (c) 2024, The SpikingFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "github.com/emer/emergent/v2/etime"

// sim.Time contains the timing state for a running pipeline simulation.
type Time struct {

	// accumulated amount of time the simulation has been running,
	// in simulation-time (not real world time), in seconds.
	Time float32

	// number of completed time-unit advances (Step calls) since the
	// simulator was constructed or last reset.  A Step call that fails
	// does not count: the time unit did not complete.
	Step int

	// amount of simulated time per step.
	TimePerStep float32 `def:"0.001"`

	// current evaluation mode, e.g., Train, Test, etc.
	Mode etime.Modes
}

// NewTime returns a new Time struct with default parameters
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default values
func (tm *Time) Defaults() {
	tm.TimePerStep = 0.001
}

// Reset resets the counters all back to zero
func (tm *Time) Reset() {
	tm.Time = 0
	tm.Step = 0
	if tm.TimePerStep == 0 {
		tm.Defaults()
	}
}

// StepInc increments the step counter and accumulated simulated time
func (tm *Time) StepInc() {
	tm.Step++
	tm.Time += tm.TimePerStep
}
