// Copyright (c) 2024, The SpikingFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import "github.com/emer/etable/v2/etensor"

// Stage is the capability implemented by every unit in a simulated pipeline:
// it consumes one signal and produces one signal per simulated time unit,
// and may carry internal state (e.g., accumulated current or potential)
// that persists across Transform calls until Reset is called.
//
// A Stage instance must belong to exactly one Simulator: its internal state
// advances in lock-step with that simulator's time base, so sharing a Stage
// between two simulators corrupts both.
type Stage interface {
	// Transform advances the stage by one simulated time unit with the
	// given input signal and returns the stage's output signal, which may
	// have a different shape.  The simulator guarantees the input is never
	// nil: a stage is only invoked once real data has reached it.  Any
	// error aborts the current simulation step and is returned to the
	// caller of Step, wrapped in a *StageError.
	Transform(x *etensor.Float32) (*etensor.Float32, error)

	// Reset restores the stage's internal state to its defined initial
	// condition.  It must be safe to call on a stage that has never been
	// invoked.
	Reset()
}

// Named is an optional interface that stages can implement to report a
// descriptive name, used in error messages and logs.  Stages without it are
// identified by their position in the chain.
type Named interface {
	Name() string
}

// StageFunc adapts a plain function to the Stage interface, for stateless
// transforms, where Reset is a no-op.
type StageFunc func(x *etensor.Float32) (*etensor.Float32, error)

func (sf StageFunc) Transform(x *etensor.Float32) (*etensor.Float32, error) {
	return sf(x)
}

func (sf StageFunc) Reset() {}
