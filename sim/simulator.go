// Copyright (c) 2024, The SpikingFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/etable/v2/etensor"
	"github.com/goki/ki/kit"
)

// ErrNilInput is returned by Step when the external input signal is nil.
// A nil slot in the pipe means "no data has arrived here yet" -- external
// input must always be real data, so a nil input is rejected rather than
// being silently treated as a bubble.
var ErrNilInput = errors.New("sim: nil input signal passed to Step")

// StageError reports the failure of one stage's Transform during a Step
// call.  The step aborts at the failing stage: pipe slots already computed
// in the current pass keep their new values, slots not yet reached keep
// their prior values, and the step counter is not incremented.  Callers
// needing a consistent state after a failure should call Reset.
type StageError struct {
	Index int    // position of the failed stage in the chain
	Name  string // stage name if it implements Named, else "stage <Index>"
	Err   error
}

func (se *StageError) Error() string {
	return fmt.Sprintf("sim: %s (index %d) failed: %v", se.Name, se.Index, se.Err)
}

func (se *StageError) Unwrap() error { return se.Err }

// Simulator owns an ordered chain of Stages and a single reusable pipe of
// intermediate signals, and advances the whole chain by exactly one
// simulated time unit per Step call.  Information takes one time unit to
// cross each stage: stage i consumes the output that stage i-1 produced one
// time unit earlier.  Pipe[0] holds the most recently supplied external
// input and Pipe[i] holds the output of Stages[i-1], i.e., data that is i
// time units old relative to the current step; a nil slot is a bubble that
// no data has reached yet.
//
// With FastStart on, the very first Step instead runs a forward warm-up
// pass that fills the entire pipe from the single injected input,
// collapsing the n-step startup transient into one call (trading per-stage
// latency accuracy on that first step for immediate output).
//
// A Simulator is single-threaded: it exclusively owns its pipe and its
// Stages' internal state, and must not be stepped from multiple goroutines.
// Concurrent simulations each need their own Simulator and their own Stage
// instances.
type Simulator struct {

	// ordered chain of stages -- append-only; insertion order defines
	// propagation order.
	Stages []Stage

	// intermediate signals, len = len(Stages)+1 -- Pipe[0] is the current
	// external input, Pipe[i] the output of Stages[i-1].  nil = no data
	// has arrived at this slot yet.
	Pipe []*etensor.Float32

	// timing state, including the count of completed steps.
	Time Time

	// whether the first Step after construction or Reset runs the forward
	// warm-up pass instead of the latency-accurate reverse pass.  Fixed
	// at construction.
	FastStart bool
}

var KiT_Simulator = kit.Types.AddType(&Simulator{}, nil)

// NewSimulator returns a new Simulator with an empty chain.
// fastStart selects whether the first Step performs the full warm-up pass.
func NewSimulator(fastStart bool) *Simulator {
	sm := &Simulator{FastStart: fastStart}
	sm.Pipe = []*etensor.Float32{nil}
	sm.Time.Defaults()
	return sm
}

// NStages returns the number of stages in the chain
func (sm *Simulator) NStages() int { return len(sm.Stages) }

// Warm returns true if at least one step has completed since construction
// or the last Reset.  Only a cold simulator can run the fast warm-up pass.
func (sm *Simulator) Warm() bool { return sm.Time.Step > 0 }

// Output returns the most recent end-of-chain output (Pipe[n]),
// nil until data has propagated through the full chain.
func (sm *Simulator) Output() *etensor.Float32 { return sm.Pipe[len(sm.Stages)] }

// StageName returns the reporting name for the stage at index i.
func (sm *Simulator) StageName(i int) string {
	if nm, ok := sm.Stages[i].(Named); ok {
		return nm.Name()
	}
	return fmt.Sprintf("stage %d", i)
}

// Append adds a stage to the end of the chain, together with one empty pipe
// slot for its output.  Appending after stepping has begun is allowed, but
// the new stage starts with no history: its output slot stays nil until
// enough further steps elapse (or the simulator is Reset), and the fast
// warm-up never re-fires for a warm simulator.  Callers should not expect
// instantaneous integration of a stage added mid-run.
func (sm *Simulator) Append(st Stage) {
	sm.Stages = append(sm.Stages, st)
	sm.Pipe = append(sm.Pipe, nil)
}

// Step injects the given input signal and advances the entire chain by one
// simulated time unit, returning the end-of-chain output (nil until data
// has propagated through all stages).
//
// The steady-state update runs the pipe in reverse order, computing
// Pipe[i] = Stages[i-1].Transform(Pipe[i-1]) for i = n down to 1: slot i-1
// is not yet overwritten when slot i is computed, so each stage consumes
// the value its predecessor held at the start of the current time unit.
// This reverse order is what lets a single n+1 slot pipe realize a genuine
// one-time-unit-per-stage delay without a shadow buffer.  A nil slot simply
// propagates as nil without invoking the stage it feeds, so a stage never
// observes a missing input.
//
// On a cold simulator with FastStart, a forward pass instead fills the
// whole pipe left to right from the single injected input, so the first
// call already returns output.
//
// A stage error aborts the step immediately (see StageError).
func (sm *Simulator) Step(in *etensor.Float32) (*etensor.Float32, error) {
	if in == nil {
		return nil, ErrNilInput
	}
	n := len(sm.Stages)
	sm.Pipe[0] = in
	if !sm.Warm() && sm.FastStart {
		for i := 0; i < n; i++ {
			out, err := sm.Stages[i].Transform(sm.Pipe[i])
			if err != nil {
				return nil, &StageError{Index: i, Name: sm.StageName(i), Err: err}
			}
			sm.Pipe[i+1] = out
		}
	} else {
		for i := n; i >= 1; i-- {
			if sm.Pipe[i-1] == nil {
				sm.Pipe[i] = nil
				continue
			}
			out, err := sm.Stages[i-1].Transform(sm.Pipe[i-1])
			if err != nil {
				return nil, &StageError{Index: i - 1, Name: sm.StageName(i - 1), Err: err}
			}
			sm.Pipe[i] = out
		}
	}
	sm.Time.StepInc()
	return sm.Pipe[n], nil
}

// Reset returns the simulator to its post-construction state without
// discarding the configured chain: the step counters go back to zero, every
// pipe slot becomes nil, and every stage's Reset is called in chain order.
// After Reset the simulator is cold again, so with FastStart the next Step
// re-runs the warm-up pass exactly as on a fresh instance.
func (sm *Simulator) Reset() {
	sm.Time.Reset()
	for i := range sm.Pipe {
		sm.Pipe[i] = nil
	}
	for _, st := range sm.Stages {
		st.Reset()
	}
}

// SizeReport returns a string reporting the size of each pipe slot and the
// total memory footprint of the buffered signals.
func (sm *Simulator) SizeReport() string {
	var b strings.Builder
	tot := 0
	for i, sg := range sm.Pipe {
		nm := "input"
		if i > 0 {
			nm = sm.StageName(i - 1)
		}
		if sg == nil {
			fmt.Fprintf(&b, "%14s:\t <nil>\n", nm)
			continue
		}
		mem := len(sg.Values)*4 + int(unsafe.Sizeof(etensor.Float32{}))
		tot += mem
		fmt.Fprintf(&b, "%14s:\t Len: %d\t Mem: %v\n", nm, sg.Len(), (datasize.ByteSize)(mem).HumanReadable())
	}
	fmt.Fprintf(&b, "%14s:\t Slots: %d\t Mem: %v\n", "total", len(sm.Pipe), (datasize.ByteSize)(tot).HumanReadable())
	return b.String()
}
